package controllers

import (
	"errors"
	"log"
	"net/http"

	"pio-submission-api/config"
	"pio-submission-api/middleware"
	"pio-submission-api/services"
	"pio-submission-api/utils"

	"github.com/gin-gonic/gin"
)

type actionRequest struct {
	Action string `json:"action" binding:"required"`
}

// ApplySubmissionAction runs one workflow action (accept, reject,
// forward_external, approve) through the shared engine. The response always
// carries the flash pair the panel shows after the redirect.
func ApplySubmissionAction(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	actorID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.NewWorkflowService(config.DB).ApplyAction(id, campusID, req.Action, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubmissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success":      false,
				"message":      err.Error(),
				"message_type": "danger",
			})
		case errors.Is(err, services.ErrUnknownAction), errors.Is(err, services.ErrIllegalTransition):
			c.JSON(http.StatusBadRequest, gin.H{
				"success":      false,
				"message":      err.Error(),
				"message_type": "danger",
			})
		case errors.Is(err, services.ErrStatusConflict):
			c.JSON(http.StatusConflict, gin.H{
				"success":      false,
				"message":      err.Error(),
				"message_type": "warning",
			})
		default:
			log.Printf("workflow action %q on submission %d failed: %v", req.Action, id, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":      false,
				"message":      "Database error",
				"message_type": "danger",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      result.Flash.Message,
		"message_type": result.Flash.Type,
		"result":       result,
	})
}

// GetSubmissionComments lists a submission's comments, newest first.
func GetSubmissionComments(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var count int64
	if err := config.DB.Table("submissions").
		Where("submission_id = ? AND campus_id = ?", id, campusID).
		Count(&count).Error; err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Submission not found or unauthorized for your campus",
		})
		return
	}

	var comments []struct {
		CommentID    uint   `gorm:"column:comment_id" json:"comment_id"`
		SubmissionID uint   `gorm:"column:submission_id" json:"submission_id"`
		UserID       uint   `gorm:"column:user_id" json:"user_id"`
		AuthorName   string `gorm:"column:author_name" json:"author_name"`
		CommentText  string `gorm:"column:comment_text" json:"comment_text"`
		CommentType  string `gorm:"column:comment_type" json:"comment_type"`
		CreatedAt    string `gorm:"column:created_at" json:"created_at"`
	}
	err := config.DB.Table("submission_comments").
		Joins("JOIN users ON users.user_id = submission_comments.user_id").
		Select("submission_comments.*, CONCAT(users.user_fname, ' ', users.user_lname) AS author_name").
		Where("submission_comments.submission_id = ?", id).
		Order("submission_comments.created_at DESC").
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"comments": comments,
		"total":    len(comments),
	})
}

type commentRequest struct {
	CommentText string `json:"comment_text" binding:"required"`
	CommentType string `json:"comment_type"`
}

// AddSubmissionComment records a comment and notifies the researcher when
// someone else wrote it.
func AddSubmissionComment(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	authorID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commentText := utils.SanitizeInput(req.CommentText)
	if commentText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is required"})
		return
	}
	commentType := req.CommentType
	if commentType == "" {
		commentType = "general"
	}

	comment, err := services.NewWorkflowService(config.DB).AddComment(id, campusID, authorID, commentText, commentType)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}
		log.Printf("add comment on submission %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Comment added successfully",
		"comment": comment,
	})
}
