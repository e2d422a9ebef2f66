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

// GetCampuses lists every campus. The registry itself is global; tenancy
// only scopes the data hanging off a campus.
func GetCampuses(c *gin.Context) {
	var campuses []models.Campus
	if err := config.DB.Order("campus_name").Find(&campuses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campuses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"campuses": campuses,
		"total":    len(campuses),
	})
}

type campusRequest struct {
	CampusName string  `json:"campus_name" binding:"required"`
	CampusCode string  `json:"campus_code" binding:"required"`
	Address    *string `json:"address"`
}

// CreateCampus adds a campus after checking name/code uniqueness.
func CreateCampus(c *gin.Context) {
	var req campusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Campus{}).
			Where("campus_name = ? OR campus_code = ?", req.CampusName, req.CampusCode).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("campus name or code")
		}

		campus := models.Campus{
			CampusName: req.CampusName,
			CampusCode: req.CampusCode,
			Address:    req.Address,
			CreatedAt:  time.Now(),
		}
		return tx.Create(&campus).Error
	})
	if err != nil {
		respondWriteError(c, "campus", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Campus created successfully"})
}

// UpdateCampus edits a campus; the uniqueness checks exclude the row itself.
func UpdateCampus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req campusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var campus models.Campus
		if err := tx.First(&campus, "campus_id = ?", id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Campus{}).
			Where("(campus_name = ? OR campus_code = ?) AND campus_id <> ?", req.CampusName, req.CampusCode, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("campus name or code")
		}

		now := time.Now()
		return tx.Model(&campus).Updates(map[string]interface{}{
			"campus_name": req.CampusName,
			"campus_code": req.CampusCode,
			"address":     req.Address,
			"updated_at":  now,
		}).Error
	})
	if err != nil {
		respondWriteError(c, "campus", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Campus updated successfully"})
}

// DeleteCampus refuses while departments, users or submissions still
// reference the campus.
func DeleteCampus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	err := services.GuardedDelete(config.DB, services.CampusDependents, id, func(tx *gorm.DB) error {
		return tx.Delete(&models.Campus{}, "campus_id = ?", id).Error
	})
	if err != nil {
		respondDeleteError(c, "campus", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Campus deleted successfully"})
}
