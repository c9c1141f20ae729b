package notes

import (
	"net/http"

	"opsdash/database"
	"opsdash/internal/app/realtime"
	"opsdash/internal/domain/notes"

	"github.com/gin-gonic/gin"
)

func broadcastNotes(c *gin.Context, projectID string) {
	if realtime.GlobalHub == nil {
		return
	}
	var list []notes.Note
	if err := database.DB.WithContext(c.Request.Context()).
		Where("project_id = ?", projectID).
		Order("created_at desc").Find(&list).Error; err != nil {
		return
	}
	realtime.GlobalHub.PublishSnapshot("notes", projectID, list)
}

func ListNotes(c *gin.Context) {
	var list []notes.Note
	if err := database.DB.Where("project_id = ?", c.Param("id")).
		Order("created_at desc").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notes"})
		return
	}
	if list == nil {
		list = []notes.Note{}
	}
	c.JSON(http.StatusOK, list)
}

func CreateNote(c *gin.Context) {
	var input struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note := notes.Note{
		ProjectID: c.Param("id"),
		Title:     input.Title,
		Content:   input.Content,
		Category:  input.Category,
	}
	if err := database.DB.Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}
	broadcastNotes(c, note.ProjectID)
	c.JSON(http.StatusCreated, note)
}

func UpdateNote(c *gin.Context) {
	var input struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		Category *string `json:"category"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Content != nil {
		fields["content"] = *input.Content
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}

	res := database.DB.Model(&notes.Note{}).
		Where("id = ? AND project_id = ?", c.Param("noteId"), c.Param("id")).
		Updates(fields)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	broadcastNotes(c, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func DeleteNote(c *gin.Context) {
	res := database.DB.Where("id = ? AND project_id = ?", c.Param("noteId"), c.Param("id")).
		Delete(&notes.Note{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	broadcastNotes(c, c.Param("id"))
	c.Status(http.StatusNoContent)
}
