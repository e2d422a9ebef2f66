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

// Master requirement checklist and its links to publication/innovation
// types. A requirement or a type cannot be deleted while links exist; the
// links themselves are managed with attach/detach below.

func GetRequirements(c *gin.Context) {
	var requirements []models.RequirementMaster
	if err := config.DB.Order("requirement_name").Find(&requirements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requirements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"requirements": requirements,
		"total":        len(requirements),
	})
}

type requirementRequest struct {
	RequirementName string  `json:"requirement_name" binding:"required"`
	Description     *string `json:"description"`
	IsActive        *bool   `json:"is_active"`
}

func CreateRequirement(c *gin.Context) {
	var req requirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RequirementMaster{}).
			Where("requirement_name = ?", req.RequirementName).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("requirement name")
		}

		row := models.RequirementMaster{
			RequirementName: req.RequirementName,
			Description:     req.Description,
			IsActive:        active,
			CreatedAt:       time.Now(),
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		respondWriteError(c, "requirement", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Requirement created successfully"})
}

func UpdateRequirement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req requirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var row models.RequirementMaster
		if err := tx.First(&row, "requirement_id = ?", id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.RequirementMaster{}).
			Where("requirement_name = ? AND requirement_id <> ?", req.RequirementName, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("requirement name")
		}

		updates := map[string]interface{}{
			"requirement_name": req.RequirementName,
			"description":      req.Description,
			"updated_at":       time.Now(),
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		return tx.Model(&row).Updates(updates).Error
	})
	if err != nil {
		respondWriteError(c, "requirement", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Requirement updated successfully"})
}

func DeleteRequirement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	err := services.GuardedDelete(config.DB, services.RequirementDependents, id, func(tx *gorm.DB) error {
		return tx.Delete(&models.RequirementMaster{}, "requirement_id = ?", id).Error
	})
	if err != nil {
		respondDeleteError(c, "requirement", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Requirement deleted successfully"})
}

/* ==========================
   Type <-> requirement links
   ========================== */

type requirementLinkRequest struct {
	RequirementID uint `json:"requirement_id" binding:"required"`
	IsMandatory   bool `json:"is_mandatory"`
	OrderSequence int  `json:"order_sequence"`
}

// GetPublicationTypeRequirements lists the checklist of one publication
// type, in display order.
func GetPublicationTypeRequirements(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var links []models.PubTypeRequirement
	if err := config.DB.Preload("Requirement").
		Where("pub_type_id = ?", id).
		Order("order_sequence").
		Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requirement links"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"requirement_links": links,
		"total":            len(links),
	})
}

func AttachPublicationTypeRequirement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req requirementLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var pubType models.PublicationType
		if err := tx.First(&pubType, "pub_type_id = ?", id).Error; err != nil {
			return err
		}
		var requirement models.RequirementMaster
		if err := tx.First(&requirement, "requirement_id = ?", req.RequirementID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.PubTypeRequirement{}).
			Where("pub_type_id = ? AND requirement_id = ?", id, req.RequirementID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("requirement link")
		}

		link := models.PubTypeRequirement{
			PubTypeID:     id,
			RequirementID: req.RequirementID,
			IsMandatory:   req.IsMandatory,
			OrderSequence: req.OrderSequence,
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		respondWriteError(c, "publication type requirement", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Requirement attached successfully"})
}

func DetachPublicationTypeRequirement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	requirementID, ok := requirementIDParam(c)
	if !ok {
		return
	}

	res := config.DB.Delete(&models.PubTypeRequirement{}, "pub_type_id = ? AND requirement_id = ?", id, requirementID)
	if res.Error != nil {
		respondDeleteError(c, "publication type requirement", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Requirement link not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Requirement detached successfully"})
}

func GetInnovationTypeRequirements(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var links []models.InnoTypeRequirement
	if err := config.DB.Preload("Requirement").
		Where("inno_type_id = ?", id).
		Order("order_sequence").
		Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requirement links"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"requirement_links": links,
		"total":            len(links),
	})
}

func AttachInnovationTypeRequirement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req requirementLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var innoType models.InnovationType
		if err := tx.First(&innoType, "inno_type_id = ?", id).Error; err != nil {
			return err
		}
		var requirement models.RequirementMaster
		if err := tx.First(&requirement, "requirement_id = ?", req.RequirementID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.InnoTypeRequirement{}).
			Where("inno_type_id = ? AND requirement_id = ?", id, req.RequirementID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("requirement link")
		}

		link := models.InnoTypeRequirement{
			InnoTypeID:    id,
			RequirementID: req.RequirementID,
			IsMandatory:   req.IsMandatory,
			OrderSequence: req.OrderSequence,
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		respondWriteError(c, "innovation type requirement", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Requirement attached successfully"})
}

func DetachInnovationTypeRequirement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	requirementID, ok := requirementIDParam(c)
	if !ok {
		return
	}

	res := config.DB.Delete(&models.InnoTypeRequirement{}, "inno_type_id = ? AND requirement_id = ?", id, requirementID)
	if res.Error != nil {
		respondDeleteError(c, "innovation type requirement", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Requirement link not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Requirement detached successfully"})
}
