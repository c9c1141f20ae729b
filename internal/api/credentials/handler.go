package credentials

import (
	"net/http"

	"opsdash/database"
	"opsdash/internal/app/realtime"
	"opsdash/internal/domain/credentials"

	"github.com/gin-gonic/gin"
)

func broadcastCredentials(c *gin.Context, projectID string) {
	if realtime.GlobalHub == nil {
		return
	}
	var list []credentials.Credential
	if err := database.DB.WithContext(c.Request.Context()).
		Where("project_id = ?", projectID).
		Order("created_at desc").Find(&list).Error; err != nil {
		return
	}
	realtime.GlobalHub.PublishSnapshot("credentials", projectID, list)
}

func ListCredentials(c *gin.Context) {
	var list []credentials.Credential
	if err := database.DB.Where("project_id = ?", c.Param("id")).
		Order("created_at desc").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load credentials"})
		return
	}
	if list == nil {
		list = []credentials.Credential{}
	}
	c.JSON(http.StatusOK, list)
}

func CreateCredential(c *gin.Context) {
	var input struct {
		Title    string `json:"title" binding:"required"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		URL      string `json:"url"`
		Env      string `json:"env"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cred := credentials.Credential{
		ProjectID: c.Param("id"),
		Title:     input.Title,
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		URL:       input.URL,
		Env:       input.Env,
		Notes:     input.Notes,
	}
	if err := database.DB.Create(&cred).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create credential"})
		return
	}
	broadcastCredentials(c, cred.ProjectID)
	c.JSON(http.StatusCreated, cred)
}

func UpdateCredential(c *gin.Context) {
	var input struct {
		Title    *string `json:"title"`
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		URL      *string `json:"url"`
		Env      *string `json:"env"`
		Notes    *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Username != nil {
		fields["username"] = *input.Username
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	if input.Password != nil {
		fields["password"] = *input.Password
	}
	if input.URL != nil {
		fields["url"] = *input.URL
	}
	if input.Env != nil {
		fields["env"] = *input.Env
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}

	res := database.DB.Model(&credentials.Credential{}).
		Where("id = ? AND project_id = ?", c.Param("credentialId"), c.Param("id")).
		Updates(fields)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update credential"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Credential not found"})
		return
	}
	broadcastCredentials(c, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func DeleteCredential(c *gin.Context) {
	res := database.DB.Where("id = ? AND project_id = ?", c.Param("credentialId"), c.Param("id")).
		Delete(&credentials.Credential{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete credential"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Credential not found"})
		return
	}
	broadcastCredentials(c, c.Param("id"))
	c.Status(http.StatusNoContent)
}
