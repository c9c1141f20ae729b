package vault

import (
	"net/http"

	"opsdash/database"
	"opsdash/internal/app/realtime"
	"opsdash/internal/domain/vault"

	"github.com/gin-gonic/gin"
)

func broadcastVault(c *gin.Context) {
	if realtime.GlobalHub == nil {
		return
	}
	var list []vault.Item
	if err := database.DB.WithContext(c.Request.Context()).
		Order("created_at desc").Find(&list).Error; err != nil {
		return
	}
	realtime.GlobalHub.PublishSnapshot("vault", "", list)
}

func ListItems(c *gin.Context) {
	var list []vault.Item
	if err := database.DB.Order("created_at desc").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load vault"})
		return
	}
	if list == nil {
		list = []vault.Item{}
	}
	c.JSON(http.StatusOK, list)
}

func CreateItem(c *gin.Context) {
	var input struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content" binding:"required"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := vault.Item{
		Title:    input.Title,
		Content:  input.Content,
		Category: vault.CategoryOther,
	}
	if input.Category != "" {
		item.Category = vault.Category(input.Category)
	}

	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vault item"})
		return
	}
	broadcastVault(c)
	c.JSON(http.StatusCreated, item)
}

func UpdateItem(c *gin.Context) {
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
		fields["category"] = vault.Category(*input.Category)
	}

	res := database.DB.Model(&vault.Item{}).Where("id = ?", c.Param("id")).Updates(fields)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vault item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vault item not found"})
		return
	}
	broadcastVault(c)
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func DeleteItem(c *gin.Context) {
	res := database.DB.Where("id = ?", c.Param("id")).Delete(&vault.Item{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vault item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vault item not found"})
		return
	}
	broadcastVault(c)
	c.Status(http.StatusNoContent)
}
