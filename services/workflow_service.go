package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"pio-submission-api/config"
	"pio-submission-api/models"

	"gorm.io/gorm"
)

// Workflow actions a PIO may request on a submission.
const (
	ActionAccept          = "accept"
	ActionReject          = "reject"
	ActionForwardExternal = "forward_external"
	ActionApprove         = "approve"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found or unauthorized for your campus")
	ErrUnknownAction      = errors.New("unknown workflow action")
	ErrIllegalTransition  = errors.New("action not allowed from the submission's current status")
	ErrStatusConflict     = errors.New("submission status changed concurrently, please retry")
)

// actionTargets maps each action to the status it produces.
var actionTargets = map[string]string{
	ActionAccept:          models.StatusAcceptedByPIO,
	ActionReject:          models.StatusRejected,
	ActionForwardExternal: models.StatusForwardedToExternal,
	ActionApprove:         models.StatusApproved,
}

// allowedActions is the legality table: which actions may be requested from
// each status. Each state also allows the action that maps to itself, so a
// replayed request degrades to an idempotent no-op instead of an error.
var allowedActions = map[string][]string{
	models.StatusSubmitted:           {ActionAccept, ActionReject},
	models.StatusForwardedToPIO:      {ActionAccept, ActionReject},
	models.StatusAcceptedByPIO:       {ActionAccept, ActionForwardExternal, ActionApprove, ActionReject},
	models.StatusForwardedToExternal: {ActionForwardExternal, ActionApprove, ActionReject},
	models.StatusUnderExternalReview: {ActionApprove, ActionReject},
	models.StatusApproved:            {ActionApprove},
	models.StatusRejected:            {ActionReject},
}

// statusLabels are the human-readable forms embedded in flash and
// notification messages.
var statusLabels = map[string]string{
	models.StatusSubmitted:           "submitted",
	models.StatusForwardedToPIO:      "forwarded to the Publication/Innovation Office",
	models.StatusAcceptedByPIO:       "accepted by the Publication/Innovation Office",
	models.StatusForwardedToExternal: "forwarded to external evaluators",
	models.StatusUnderExternalReview: "under external review",
	models.StatusApproved:            "approved",
	models.StatusRejected:            "rejected",
}

var actionFlashes = map[string]models.Flash{
	ActionAccept:          {Message: "Submission accepted.", Type: "success"},
	ActionReject:          {Message: "Submission rejected.", Type: "danger"},
	ActionForwardExternal: {Message: "Submission forwarded to external evaluators.", Type: "info"},
	ActionApprove:         {Message: "Submission approved.", Type: "success"},
}

// ActionResult reports the outcome of a workflow action for the panel.
type ActionResult struct {
	SubmissionID        uint         `json:"submission_id"`
	OldStatus           string       `json:"old_status"`
	NewStatus           string       `json:"new_status"`
	Flash               models.Flash `json:"flash"`
	NotificationCreated bool         `json:"notification_created"`
}

type WorkflowService struct {
	db *gorm.DB
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{db: db}
}

// submissionHead is the slice of a submission the engine needs up front.
type submissionHead struct {
	SubmissionID    uint   `gorm:"primaryKey;column:submission_id"`
	Status          string `gorm:"column:status"`
	ResearcherID    uint   `gorm:"column:researcher_id"`
	ReferenceNumber string `gorm:"column:reference_number"`
}

func (submissionHead) TableName() string { return "submissions" }

// ApplyAction moves a submission through the review workflow on behalf of a
// PIO. The load and the write are both scoped by campus, so a submission
// outside the actor's campus behaves exactly like a missing one. The status
// update, audit log row and researcher notification commit atomically; the
// status update is conditional on the status read beforehand, so two
// concurrent actions cannot both claim the same transition.
func (s *WorkflowService) ApplyAction(submissionID, campusID uint, action string, actorID uint) (*ActionResult, error) {
	newStatus, ok := actionTargets[action]
	if !ok {
		return nil, ErrUnknownAction
	}

	var head submissionHead
	err := s.db.Select("submission_id, status, researcher_id, reference_number").
		Where("submission_id = ? AND campus_id = ?", submissionID, campusID).
		First(&head).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	if !actionAllowedFrom(head.Status, action) {
		return nil, ErrIllegalTransition
	}

	if head.Status == newStatus {
		// Idempotent replay: report and change nothing.
		return &ActionResult{
			SubmissionID: head.SubmissionID,
			OldStatus:    head.Status,
			NewStatus:    newStatus,
			Flash: models.Flash{
				Message: fmt.Sprintf("Submission %s is already %s.", head.ReferenceNumber, statusLabels[newStatus]),
				Type:    "info",
			},
		}, nil
	}

	result := &ActionResult{
		SubmissionID: head.SubmissionID,
		OldStatus:    head.Status,
		NewStatus:    newStatus,
		Flash:        actionFlashes[action],
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Conditional update: the old status read above must still hold.
		res := tx.Model(&models.Submission{}).
			Where("submission_id = ? AND campus_id = ? AND status = ?", head.SubmissionID, campusID, head.Status).
			Updates(map[string]interface{}{
				"status":     newStatus,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStatusConflict
		}

		logRow := models.SubmissionStatusLog{
			SubmissionID: head.SubmissionID,
			ChangedBy:    actorID,
			OldStatus:    head.Status,
			NewStatus:    newStatus,
			ChangedAt:    now,
		}
		if err := tx.Create(&logRow).Error; err != nil {
			return err
		}

		// Notify the researcher, never the actor themselves.
		if head.ResearcherID != 0 && head.ResearcherID != actorID {
			notification := models.Notification{
				UserID:              head.ResearcherID,
				Title:               "Submission status updated",
				Message:             fmt.Sprintf("Your submission %s has been %s.", head.ReferenceNumber, statusLabels[newStatus]),
				Type:                result.Flash.Type,
				Link:                fmt.Sprintf("/my-submissions?submission_id=%d", head.SubmissionID),
				RelatedSubmissionID: &head.SubmissionID,
				IsRead:              false,
				CreatedAt:           now,
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}
			result.NotificationCreated = true
		}

		return nil
	})
	if err != nil {
		result.NotificationCreated = false
		return nil, err
	}

	if result.NotificationCreated {
		s.emailResearcher(head, newStatus)
	}

	return result, nil
}

func actionAllowedFrom(status, action string) bool {
	for _, allowed := range allowedActions[status] {
		if allowed == action {
			return true
		}
	}
	return false
}

// emailResearcher sends a best-effort copy of the status notification by
// email after the transaction committed. Failures are logged, not surfaced.
func (s *WorkflowService) emailResearcher(head submissionHead, newStatus string) {
	if !config.MailConfigured() {
		return
	}

	var researcher models.User
	if err := s.db.Select("email, user_fname, user_lname").
		Where("user_id = ?", head.ResearcherID).
		First(&researcher).Error; err != nil {
		log.Printf("workflow email: failed to load researcher %d: %v", head.ResearcherID, err)
		return
	}

	subject := fmt.Sprintf("Submission %s status update", head.ReferenceNumber)
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your submission <strong>%s</strong> has been %s.</p><p>Please sign in to the research panel for details.</p>",
		researcher.FullName(), head.ReferenceNumber, statusLabels[newStatus],
	)
	if err := config.SendMail([]string{researcher.Email}, subject, body); err != nil {
		log.Printf("workflow email send failed (submission=%s to=%s): %v", head.ReferenceNumber, researcher.Email, err)
	}
}

// AddComment records a review comment and, when the author is not the
// submission's researcher, a notification for the researcher. The two
// inserts are deliberately independent: losing the notification is
// acceptable, losing the comment is not.
func (s *WorkflowService) AddComment(submissionID, campusID, authorID uint, commentText, commentType string) (*models.SubmissionComment, error) {
	var head submissionHead
	err := s.db.Select("submission_id, status, researcher_id, reference_number").
		Where("submission_id = ? AND campus_id = ?", submissionID, campusID).
		First(&head).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	comment := models.SubmissionComment{
		SubmissionID: head.SubmissionID,
		UserID:       authorID,
		CommentText:  commentText,
		CommentType:  commentType,
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	if head.ResearcherID != 0 && head.ResearcherID != authorID {
		notification := models.Notification{
			UserID:              head.ResearcherID,
			Title:               "New comment on your submission",
			Message:             fmt.Sprintf("A new comment was added to your submission %s.", head.ReferenceNumber),
			Type:                "info",
			Link:                fmt.Sprintf("/my-submissions?submission_id=%d", head.SubmissionID),
			RelatedSubmissionID: &head.SubmissionID,
			IsRead:              false,
			CreatedAt:           time.Now(),
		}
		if err := s.db.Create(&notification).Error; err != nil {
			log.Printf("comment notification insert failed (submission=%d): %v", head.SubmissionID, err)
		}
	}

	return &comment, nil
}
