package controllers

import (
	"net/http"
	"time"

	"pio-submission-api/config"
	"pio-submission-api/middleware"
	"pio-submission-api/models"

	"github.com/gin-gonic/gin"
)

// The repository is the campus's shelf of approved work, with a payment
// flag tracked per entry.

// GetRepository lists approved submissions for the PIO's campus.
func GetRepository(c *gin.Context) {
	campusID := middleware.GetCampusID(c)

	query := config.DB.Preload("Researcher").
		Preload("Department").
		Preload("PublicationType").
		Preload("InnovationType").
		Where("campus_id = ? AND status = ?", campusID, models.StatusApproved)

	if payment := c.Query("payment_status"); payment != "" {
		query = query.Where("payment_status = ?", payment)
	}
	if submissionType := c.Query("submission_type"); submissionType != "" {
		query = query.Where("submission_type = ?", submissionType)
	}

	var submissions []models.Submission
	if err := query.Order("updated_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch repository"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

type paymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// UpdatePaymentStatus flips the paid flag on an approved submission. Only
// approved work carries the flag at all.
func UpdatePaymentStatus(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PaymentStatus != models.PaymentPaid && req.PaymentStatus != models.PaymentUnpaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_status must be paid or unpaid"})
		return
	}

	res := config.DB.Model(&models.Submission{}).
		Where("submission_id = ? AND campus_id = ? AND status = ?", id, campusID, models.StatusApproved).
		Updates(map[string]interface{}{
			"payment_status": req.PaymentStatus,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		respondWriteError(c, "payment status", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Approved submission not found in your campus",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment status updated successfully"})
}
