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

func GetPrograms(c *gin.Context) {
	query := config.DB.Preload("College").Order("program_name")
	if collegeID := c.Query("college_id"); collegeID != "" {
		query = query.Where("college_id = ?", collegeID)
	}

	var programs []models.Program
	if err := query.Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch programs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"programs": programs,
		"total":    len(programs),
	})
}

type programRequest struct {
	CollegeID   uint   `json:"college_id" binding:"required"`
	ProgramName string `json:"program_name" binding:"required"`
	ProgramCode string `json:"program_code" binding:"required"`
}

// CreateProgram adds a program; program codes are unique across all colleges.
func CreateProgram(c *gin.Context) {
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var college models.College
		if err := tx.First(&college, "college_id = ?", req.CollegeID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Program{}).
			Where("program_code = ?", req.ProgramCode).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("program code")
		}

		program := models.Program{
			CollegeID:   req.CollegeID,
			ProgramName: req.ProgramName,
			ProgramCode: req.ProgramCode,
			CreatedAt:   time.Now(),
		}
		return tx.Create(&program).Error
	})
	if err != nil {
		respondWriteError(c, "program", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Program created successfully"})
}

func UpdateProgram(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var program models.Program
		if err := tx.First(&program, "program_id = ?", id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Program{}).
			Where("program_code = ? AND program_id <> ?", req.ProgramCode, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("program code")
		}

		now := time.Now()
		return tx.Model(&program).Updates(map[string]interface{}{
			"college_id":   req.CollegeID,
			"program_name": req.ProgramName,
			"program_code": req.ProgramCode,
			"updated_at":   now,
		}).Error
	})
	if err != nil {
		respondWriteError(c, "program", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Program updated successfully"})
}

func DeleteProgram(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	err := services.GuardedDelete(config.DB, services.ProgramDependents, id, func(tx *gorm.DB) error {
		return tx.Delete(&models.Program{}, "program_id = ?", id).Error
	})
	if err != nil {
		respondDeleteError(c, "program", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Program deleted successfully"})
}
