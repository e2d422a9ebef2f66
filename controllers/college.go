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

func GetColleges(c *gin.Context) {
	var colleges []models.College
	if err := config.DB.Order("college_name").Find(&colleges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch colleges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"colleges": colleges,
		"total":    len(colleges),
	})
}

type collegeRequest struct {
	CollegeName string `json:"college_name" binding:"required"`
	CollegeCode string `json:"college_code" binding:"required"`
}

func CreateCollege(c *gin.Context) {
	var req collegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.College{}).
			Where("college_name = ? OR college_code = ?", req.CollegeName, req.CollegeCode).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("college name or code")
		}

		college := models.College{
			CollegeName: req.CollegeName,
			CollegeCode: req.CollegeCode,
			CreatedAt:   time.Now(),
		}
		return tx.Create(&college).Error
	})
	if err != nil {
		respondWriteError(c, "college", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "College created successfully"})
}

func UpdateCollege(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req collegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var college models.College
		if err := tx.First(&college, "college_id = ?", id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.College{}).
			Where("(college_name = ? OR college_code = ?) AND college_id <> ?", req.CollegeName, req.CollegeCode, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("college name or code")
		}

		now := time.Now()
		return tx.Model(&college).Updates(map[string]interface{}{
			"college_name": req.CollegeName,
			"college_code": req.CollegeCode,
			"updated_at":   now,
		}).Error
	})
	if err != nil {
		respondWriteError(c, "college", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "College updated successfully"})
}

func DeleteCollege(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	err := services.GuardedDelete(config.DB, services.CollegeDependents, id, func(tx *gorm.DB) error {
		return tx.Delete(&models.College{}, "college_id = ?", id).Error
	})
	if err != nil {
		respondDeleteError(c, "college", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "College deleted successfully"})
}
