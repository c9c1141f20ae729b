package routes

import (
	authapi "opsdash/internal/api/auth"
	credentialsapi "opsdash/internal/api/credentials"
	"opsdash/internal/api/dashboard"
	notesapi "opsdash/internal/api/notes"
	paymentsapi "opsdash/internal/api/payments"
	projectsapi "opsdash/internal/api/projects"
	snippetsapi "opsdash/internal/api/snippets"
	stripewebhooks "opsdash/internal/api/stripewebhook"
	tasksapi "opsdash/internal/api/tasks"
	vaultapi "opsdash/internal/api/vault"
	"opsdash/internal/app/http/middleware"
	"opsdash/internal/app/realtime"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, idem *middleware.IdempotencyStore) {
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/login", authapi.Login)
	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.Use(middleware.SanitizeAndCleanInputMiddleware())

	auth.GET("/me", authapi.Me)
	auth.POST("/change-password", authapi.ChangePassword)

	auth.GET("/dashboard", dashboard.GetStats)

	auth.GET("/projects", projectsapi.ListProjects)
	auth.POST("/projects", projectsapi.CreateProject)
	auth.GET("/projects/:id", projectsapi.GetProject)
	auth.PUT("/projects/:id", projectsapi.UpdateProject)
	auth.DELETE("/projects/:id", projectsapi.DeleteProject)
	auth.GET("/projects/:id/details", projectsapi.GetDetail)
	auth.PUT("/projects/:id/details", projectsapi.SaveDetail)

	auth.GET("/projects/:id/tasks", tasksapi.ListTasks)
	auth.POST("/projects/:id/tasks", tasksapi.CreateTask)
	auth.PUT("/projects/:id/tasks/:taskId", tasksapi.UpdateTask)
	auth.POST("/projects/:id/tasks/:taskId/toggle", tasksapi.ToggleTask)
	auth.DELETE("/projects/:id/tasks/:taskId", tasksapi.DeleteTask)

	auth.GET("/projects/:id/payments", paymentsapi.ListByProject)
	auth.POST("/projects/:id/payments", paymentsapi.CreatePayment)
	auth.GET("/projects/:id/payments/export", paymentsapi.ExportPayments)
	auth.PUT("/payments/:id", paymentsapi.UpdatePayment)
	auth.DELETE("/payments/:id", paymentsapi.DeletePayment)
	auth.POST("/payments/:id/pay", middleware.Idempotency(idem), paymentsapi.MarkPaid)
	auth.POST("/payments/:id/checkout-link", paymentsapi.CreateCheckoutLink)

	auth.GET("/projects/:id/credentials", credentialsapi.ListCredentials)
	auth.POST("/projects/:id/credentials", credentialsapi.CreateCredential)
	auth.PUT("/projects/:id/credentials/:credentialId", credentialsapi.UpdateCredential)
	auth.DELETE("/projects/:id/credentials/:credentialId", credentialsapi.DeleteCredential)

	auth.GET("/projects/:id/notes", notesapi.ListNotes)
	auth.POST("/projects/:id/notes", notesapi.CreateNote)
	auth.PUT("/projects/:id/notes/:noteId", notesapi.UpdateNote)
	auth.DELETE("/projects/:id/notes/:noteId", notesapi.DeleteNote)

	auth.GET("/snippets", snippetsapi.ListSnippets)
	auth.POST("/snippets", snippetsapi.CreateSnippet)
	auth.PUT("/snippets/:id", snippetsapi.UpdateSnippet)
	auth.DELETE("/snippets/:id", snippetsapi.DeleteSnippet)

	auth.GET("/vault", vaultapi.ListItems)
	auth.POST("/vault", vaultapi.CreateItem)
	auth.PUT("/vault/:id", vaultapi.UpdateItem)
	auth.DELETE("/vault/:id", vaultapi.DeleteItem)

	// Websocket auth rides on a query-param token, not the middleware
	r.GET("/ws", realtime.ServeWS(realtime.GlobalHub))
}
