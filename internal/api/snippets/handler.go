package snippets

import (
	"net/http"

	"opsdash/database"
	"opsdash/internal/app/realtime"
	"opsdash/internal/domain/snippets"

	"github.com/gin-gonic/gin"
)

func broadcastSnippets(c *gin.Context) {
	if realtime.GlobalHub == nil {
		return
	}
	var list []snippets.Snippet
	if err := database.DB.WithContext(c.Request.Context()).
		Order("title asc").Find(&list).Error; err != nil {
		return
	}
	realtime.GlobalHub.PublishSnapshot("snippets", "", list)
}

func ListSnippets(c *gin.Context) {
	var list []snippets.Snippet
	if err := database.DB.Order("title asc").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snippets"})
		return
	}
	if list == nil {
		list = []snippets.Snippet{}
	}
	c.JSON(http.StatusOK, list)
}

func CreateSnippet(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required"`
		Code        string `json:"code" binding:"required"`
		Language    string `json:"language"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snippet := snippets.Snippet{
		Title:       input.Title,
		Code:        input.Code,
		Language:    input.Language,
		Description: input.Description,
	}
	if snippet.Language == "" {
		snippet.Language = "sql"
	}

	if err := database.DB.Create(&snippet).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create snippet"})
		return
	}
	broadcastSnippets(c)
	c.JSON(http.StatusCreated, snippet)
}

func UpdateSnippet(c *gin.Context) {
	var input struct {
		Title       *string `json:"title"`
		Code        *string `json:"code"`
		Language    *string `json:"language"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Code != nil {
		fields["code"] = *input.Code
	}
	if input.Language != nil {
		fields["language"] = *input.Language
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	res := database.DB.Model(&snippets.Snippet{}).Where("id = ?", c.Param("id")).Updates(fields)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update snippet"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Snippet not found"})
		return
	}
	broadcastSnippets(c)
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func DeleteSnippet(c *gin.Context) {
	res := database.DB.Where("id = ?", c.Param("id")).Delete(&snippets.Snippet{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete snippet"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Snippet not found"})
		return
	}
	broadcastSnippets(c)
	c.Status(http.StatusNoContent)
}
