package controllers

import (
	"net/http"
	"time"

	"pio-submission-api/config"
	"pio-submission-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetProjects(c *gin.Context) {
	query := config.DB.Preload("Program").Order("project_name")
	if programID := c.Query("program_id"); programID != "" {
		query = query.Where("program_id = ?", programID)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
		"total":    len(projects),
	})
}

type projectRequest struct {
	ProgramID   uint    `json:"program_id" binding:"required"`
	ProjectName string  `json:"project_name" binding:"required"`
	Description *string `json:"description"`
}

func CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var program models.Program
		if err := tx.First(&program, "program_id = ?", req.ProgramID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Project{}).
			Where("project_name = ? AND program_id = ?", req.ProjectName, req.ProgramID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("project name in this program")
		}

		project := models.Project{
			ProgramID:   req.ProgramID,
			ProjectName: req.ProjectName,
			Description: req.Description,
			CreatedAt:   time.Now(),
		}
		return tx.Create(&project).Error
	})
	if err != nil {
		respondWriteError(c, "project", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Project created successfully"})
}

func UpdateProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "project_id = ?", id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Project{}).
			Where("project_name = ? AND program_id = ? AND project_id <> ?", req.ProjectName, req.ProgramID, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("project name in this program")
		}

		now := time.Now()
		return tx.Model(&project).Updates(map[string]interface{}{
			"program_id":   req.ProgramID,
			"project_name": req.ProjectName,
			"description":  req.Description,
			"updated_at":   now,
		}).Error
	})
	if err != nil {
		respondWriteError(c, "project", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project updated successfully"})
}

// DeleteProject has no dependent tables; the delete still reports missing
// rows as not found.
func DeleteProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	res := config.DB.Delete(&models.Project{}, "project_id = ?", id)
	if res.Error != nil {
		respondDeleteError(c, "project", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted successfully"})
}
