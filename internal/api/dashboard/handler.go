package dashboard

import (
	"net/http"
	"time"

	"opsdash/database"
	"opsdash/internal/domain/payments"
	"opsdash/internal/domain/projects"
	"opsdash/internal/domain/tasks"

	"github.com/gin-gonic/gin"
)

type Stats struct {
	ActiveProjects   int                `json:"activeProjects"`
	TotalProjects    int                `json:"totalProjects"`
	OpenTasks        int                `json:"openTasks"`
	PendingPayments  int                `json:"pendingPayments"`
	OverduePayments  int                `json:"overduePayments"`
	UpcomingPayments []payments.Payment `json:"upcomingPayments"`
}

// GetStats aggregates the landing-page numbers. Payment statuses are
// recomputed against the current clock, not read from the stored column,
// so an overdue payment shows up here even before the next sweep
// persists it.
func GetStats(c *gin.Context) {
	var stats Stats

	var totalProjects int64
	var activeProjects int64
	var openTasks int64

	database.DB.Model(&projects.Project{}).Count(&totalProjects)
	database.DB.Model(&projects.Project{}).Where("status = ?", "Active").Count(&activeProjects)
	database.DB.Model(&tasks.Task{}).Where("is_completed = ?", false).Count(&openTasks)

	stats.TotalProjects = int(totalProjects)
	stats.ActiveProjects = int(activeProjects)
	stats.OpenTasks = int(openTasks)

	var records []payments.Payment
	if err := database.DB.Order("due_date asc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	records = payments.RefreshAll(records, time.Now())

	upcoming := []payments.Payment{}
	for _, p := range records {
		switch p.Status {
		case payments.StatusPending:
			stats.PendingPayments++
			if len(upcoming) < 5 {
				upcoming = append(upcoming, p)
			}
		case payments.StatusOverdue:
			stats.OverduePayments++
		}
	}
	stats.UpcomingPayments = upcoming

	c.JSON(http.StatusOK, stats)
}
