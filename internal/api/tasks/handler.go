package tasks

import (
	"errors"
	"net/http"

	"opsdash/database"
	"opsdash/internal/app/realtime"
	"opsdash/internal/domain/tasks"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func broadcastTasks(c *gin.Context, projectID string) {
	if realtime.GlobalHub == nil {
		return
	}
	var list []tasks.Task
	if err := database.DB.WithContext(c.Request.Context()).
		Where("project_id = ?", projectID).
		Order("created_at desc").Find(&list).Error; err != nil {
		return
	}
	realtime.GlobalHub.PublishSnapshot("tasks", projectID, list)
}

func ListTasks(c *gin.Context) {
	var list []tasks.Task
	if err := database.DB.Where("project_id = ?", c.Param("id")).
		Order("created_at desc").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}
	if list == nil {
		list = []tasks.Task{}
	}
	c.JSON(http.StatusOK, list)
}

func CreateTask(c *gin.Context) {
	var input struct {
		Description string `json:"description" binding:"required"`
		Priority    string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := tasks.Task{
		ProjectID:   c.Param("id"),
		Description: input.Description,
		Priority:    tasks.PriorityNormal,
	}
	if input.Priority != "" {
		p := tasks.Priority(input.Priority)
		if !p.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		task.Priority = p
	}

	if err := database.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	broadcastTasks(c, task.ProjectID)
	c.JSON(http.StatusCreated, task)
}

func UpdateTask(c *gin.Context) {
	var input struct {
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		IsCompleted *bool   `json:"isCompleted"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task tasks.Task
	err := database.DB.Where("id = ?", c.Param("taskId")).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	fields := map[string]interface{}{}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Priority != nil {
		p := tasks.Priority(*input.Priority)
		if !p.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		fields["priority"] = p
	}
	if input.IsCompleted != nil {
		fields["is_completed"] = *input.IsCompleted
	}

	if err := database.DB.Model(&task).Updates(fields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	broadcastTasks(c, task.ProjectID)
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// ToggleTask flips completion without the client having to know the
// current value.
func ToggleTask(c *gin.Context) {
	var task tasks.Task
	err := database.DB.Where("id = ?", c.Param("taskId")).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	if err := database.DB.Model(&task).Update("is_completed", !task.IsCompleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	task.IsCompleted = !task.IsCompleted
	broadcastTasks(c, task.ProjectID)
	c.JSON(http.StatusOK, task)
}

func DeleteTask(c *gin.Context) {
	var task tasks.Task
	err := database.DB.Where("id = ?", c.Param("taskId")).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	if err := database.DB.Delete(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	broadcastTasks(c, task.ProjectID)
	c.Status(http.StatusNoContent)
}
