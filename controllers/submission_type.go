package controllers

import (
	"net/http"
	"time"

	"pio-submission-api/config"
	"pio-submission-api/models"
	"pio-submission-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Publication and innovation type registries. Both follow the same shape:
// global list, uniqueness on the name, guarded delete while submissions or
// requirement links reference the type.

type typeRequest struct {
	TypeName    string  `json:"type_name" binding:"required"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (r *typeRequest) active() bool {
	if r.IsActive == nil {
		return true
	}
	return *r.IsActive
}

func GetPublicationTypes(c *gin.Context) {
	var types []models.PublicationType
	if err := config.DB.Order("type_name").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publication types"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"publication_types": types,
		"total":             len(types),
	})
}

func CreatePublicationType(c *gin.Context) {
	var req typeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PublicationType{}).
			Where("type_name = ?", req.TypeName).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("publication type name")
		}

		row := models.PublicationType{
			TypeName:    req.TypeName,
			Description: req.Description,
			IsActive:    req.active(),
			CreatedAt:   time.Now(),
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		respondWriteError(c, "publication type", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Publication type created successfully"})
}

func UpdatePublicationType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req typeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var row models.PublicationType
		if err := tx.First(&row, "pub_type_id = ?", id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.PublicationType{}).
			Where("type_name = ? AND pub_type_id <> ?", req.TypeName, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("publication type name")
		}

		now := time.Now()
		return tx.Model(&row).Updates(map[string]interface{}{
			"type_name":   req.TypeName,
			"description": req.Description,
			"is_active":   req.active(),
			"updated_at":  now,
		}).Error
	})
	if err != nil {
		respondWriteError(c, "publication type", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Publication type updated successfully"})
}

func DeletePublicationType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	err := services.GuardedDelete(config.DB, services.PublicationTypeDependents, id, func(tx *gorm.DB) error {
		return tx.Delete(&models.PublicationType{}, "pub_type_id = ?", id).Error
	})
	if err != nil {
		respondDeleteError(c, "publication type", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Publication type deleted successfully"})
}

func GetInnovationTypes(c *gin.Context) {
	var types []models.InnovationType
	if err := config.DB.Order("type_name").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch innovation types"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"innovation_types": types,
		"total":            len(types),
	})
}

func CreateInnovationType(c *gin.Context) {
	var req typeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.InnovationType{}).
			Where("type_name = ?", req.TypeName).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("innovation type name")
		}

		row := models.InnovationType{
			TypeName:    req.TypeName,
			Description: req.Description,
			IsActive:    req.active(),
			CreatedAt:   time.Now(),
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		respondWriteError(c, "innovation type", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Innovation type created successfully"})
}

func UpdateInnovationType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req typeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var row models.InnovationType
		if err := tx.First(&row, "inno_type_id = ?", id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.InnovationType{}).
			Where("type_name = ? AND inno_type_id <> ?", req.TypeName, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("innovation type name")
		}

		now := time.Now()
		return tx.Model(&row).Updates(map[string]interface{}{
			"type_name":   req.TypeName,
			"description": req.Description,
			"is_active":   req.active(),
			"updated_at":  now,
		}).Error
	})
	if err != nil {
		respondWriteError(c, "innovation type", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Innovation type updated successfully"})
}

func DeleteInnovationType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	err := services.GuardedDelete(config.DB, services.InnovationTypeDependents, id, func(tx *gorm.DB) error {
		return tx.Delete(&models.InnovationType{}, "inno_type_id = ?", id).Error
	})
	if err != nil {
		respondDeleteError(c, "innovation type", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Innovation type deleted successfully"})
}
