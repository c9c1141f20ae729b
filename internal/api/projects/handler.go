package projects

import (
	"errors"
	"net/http"

	"opsdash/database"
	"opsdash/internal/app/realtime"
	"opsdash/internal/domain/projects"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func broadcastProjects(c *gin.Context) {
	if realtime.GlobalHub == nil {
		return
	}
	var list []projects.Project
	if err := database.DB.WithContext(c.Request.Context()).Order("created_at desc").Find(&list).Error; err != nil {
		return
	}
	realtime.GlobalHub.PublishSnapshot("projects", "", list)
}

func ListProjects(c *gin.Context) {
	var list []projects.Project
	if err := database.DB.Order("created_at desc").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}
	if list == nil {
		list = []projects.Project{}
	}
	c.JSON(http.StatusOK, list)
}

func GetProject(c *gin.Context) {
	var project projects.Project
	err := database.DB.Where("id = ?", c.Param("id")).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func CreateProject(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Type     string `json:"type"`
		Status   string `json:"status"`
		Progress int    `json:"progress"`
		Color    string `json:"color"`
		Stack    string `json:"stack"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := projects.Project{
		Name:     input.Name,
		Type:     input.Type,
		Status:   input.Status,
		Progress: input.Progress,
		Color:    input.Color,
		Stack:    input.Stack,
	}
	if project.Status == "" {
		project.Status = "Active"
	}

	if err := database.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}
	broadcastProjects(c)
	c.JSON(http.StatusCreated, project)
}

func UpdateProject(c *gin.Context) {
	var input struct {
		Name     *string `json:"name"`
		Type     *string `json:"type"`
		Status   *string `json:"status"`
		Progress *int    `json:"progress"`
		Color    *string `json:"color"`
		Stack    *string `json:"stack"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Type != nil {
		fields["type"] = *input.Type
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.Progress != nil {
		fields["progress"] = *input.Progress
	}
	if input.Color != nil {
		fields["color"] = *input.Color
	}
	if input.Stack != nil {
		fields["stack"] = *input.Stack
	}

	res := database.DB.Model(&projects.Project{}).Where("id = ?", c.Param("id")).Updates(fields)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	broadcastProjects(c)
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func DeleteProject(c *gin.Context) {
	if err := database.DB.Delete(&projects.Project{}, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	broadcastProjects(c)
	c.Status(http.StatusNoContent)
}

func GetDetail(c *gin.Context) {
	var detail projects.Detail
	err := database.DB.Where("project_id = ?", c.Param("id")).First(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No details for this project yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load details"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// SaveDetail upserts the project's metadata sheet: one row per project,
// created on first save.
func SaveDetail(c *gin.Context) {
	var input struct {
		Description   string `json:"description"`
		ClientName    string `json:"clientName"`
		ClientContact string `json:"clientContact"`
		RepositoryURL string `json:"repositoryUrl"`
		ProductionURL string `json:"productionUrl"`
		StagingURL    string `json:"stagingUrl"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail := projects.Detail{
		ProjectID:     c.Param("id"),
		Description:   input.Description,
		ClientName:    input.ClientName,
		ClientContact: input.ClientContact,
		RepositoryURL: input.RepositoryURL,
		ProductionURL: input.ProductionURL,
		StagingURL:    input.StagingURL,
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "client_name", "client_contact",
			"repository_url", "production_url", "staging_url", "updated_at",
		}),
	}).Create(&detail).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save details"})
		return
	}

	if realtime.GlobalHub != nil {
		realtime.GlobalHub.PublishSnapshot("project_details", detail.ProjectID, detail)
	}
	c.JSON(http.StatusOK, detail)
}
