package controllers

import (
	"net/http"
	"time"

	"pio-submission-api/config"
	"pio-submission-api/middleware"
	"pio-submission-api/models"
	"pio-submission-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetDepartments lists departments of the acting PIO's campus.
func GetDepartments(c *gin.Context) {
	campusID := middleware.GetCampusID(c)

	var departments []models.Department
	if err := config.DB.Preload("College").
		Where("campus_id = ?", campusID).
		Order("department_name").
		Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch departments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"departments": departments,
		"total":       len(departments),
	})
}

type departmentRequest struct {
	DepartmentName string `json:"department_name" binding:"required"`
	DepartmentCode string `json:"department_code" binding:"required"`
	CollegeID      *uint  `json:"college_id"`
}

// CreateDepartment adds a department to the PIO's campus. The name must be
// unique within the campus, not globally.
func CreateDepartment(c *gin.Context) {
	campusID := middleware.GetCampusID(c)

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Department{}).
			Where("department_name = ? AND campus_id = ?", req.DepartmentName, campusID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("department name in this campus")
		}

		department := models.Department{
			CampusID:       campusID,
			CollegeID:      req.CollegeID,
			DepartmentName: req.DepartmentName,
			DepartmentCode: req.DepartmentCode,
			CreatedAt:      time.Now(),
		}
		return tx.Create(&department).Error
	})
	if err != nil {
		respondWriteError(c, "department", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Department created successfully"})
}

func UpdateDepartment(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var department models.Department
		if err := tx.First(&department, "department_id = ? AND campus_id = ?", id, campusID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Department{}).
			Where("department_name = ? AND campus_id = ? AND department_id <> ?", req.DepartmentName, campusID, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("department name in this campus")
		}

		now := time.Now()
		return tx.Model(&department).Updates(map[string]interface{}{
			"department_name": req.DepartmentName,
			"department_code": req.DepartmentCode,
			"college_id":      req.CollegeID,
			"updated_at":      now,
		}).Error
	})
	if err != nil {
		respondWriteError(c, "department", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Department updated successfully"})
}

// DeleteDepartment refuses while users or submissions still reference the
// department, and never touches departments of another campus.
func DeleteDepartment(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var department models.Department
	if err := config.DB.First(&department, "department_id = ? AND campus_id = ?", id, campusID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found in your campus"})
		return
	}

	err := services.GuardedDelete(config.DB, services.DepartmentDependents, id, func(tx *gorm.DB) error {
		return tx.Delete(&models.Department{}, "department_id = ? AND campus_id = ?", id, campusID).Error
	})
	if err != nil {
		respondDeleteError(c, "department", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Department deleted successfully"})
}
