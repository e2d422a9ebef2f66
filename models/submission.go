package models

import "time"

// Submission status values compared exactly.
const (
	StatusSubmitted           = "submitted"
	StatusForwardedToPIO      = "forwarded_to_pio"
	StatusAcceptedByPIO       = "accepted_by_pio"
	StatusForwardedToExternal = "forwarded_to_external"
	StatusUnderExternalReview = "under_external_review"
	StatusApproved            = "approved"
	StatusRejected            = "rejected"
)

// Submission types.
const (
	SubmissionTypePublication = "publication"
	SubmissionTypeInnovation  = "innovation"
)

// Payment states for approved submissions in the repository.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

type Submission struct {
	SubmissionID    uint       `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	ReferenceNumber string     `gorm:"column:reference_number;unique" json:"reference_number"`
	Title           string     `gorm:"column:title" json:"title"`
	Abstract        string     `gorm:"column:abstract" json:"abstract"`
	SubmissionType  string     `gorm:"column:submission_type" json:"submission_type"`
	PubTypeID       *uint      `gorm:"column:pub_type_id" json:"pub_type_id,omitempty"`
	InnoTypeID      *uint      `gorm:"column:inno_type_id" json:"inno_type_id,omitempty"`
	ResearcherID    uint       `gorm:"column:researcher_id" json:"researcher_id"`
	DepartmentID    *uint      `gorm:"column:department_id" json:"department_id,omitempty"`
	CampusID        uint       `gorm:"column:campus_id" json:"campus_id"`
	FilePath        string     `gorm:"column:file_path" json:"file_path"`
	Status          string     `gorm:"column:status" json:"status"`
	PaymentStatus   *string    `gorm:"column:payment_status" json:"payment_status,omitempty"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	UpdatedAt       *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	// Relations
	Researcher      *User            `gorm:"foreignKey:ResearcherID" json:"researcher,omitempty"`
	Department      *Department      `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	PublicationType *PublicationType `gorm:"foreignKey:PubTypeID" json:"publication_type,omitempty"`
	InnovationType  *InnovationType  `gorm:"foreignKey:InnoTypeID" json:"innovation_type,omitempty"`
	Files           []SubmissionFile `gorm:"foreignKey:SubmissionID" json:"files,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// IsTerminal reports whether the submission reached a final state. After
// that only comments and, for approved work, the payment flag may change.
func (s *Submission) IsTerminal() bool {
	return s.Status == StatusApproved || s.Status == StatusRejected
}

type SubmissionFile struct {
	FileID        uint      `gorm:"primaryKey;column:file_id" json:"file_id"`
	SubmissionID  uint      `gorm:"column:submission_id" json:"submission_id"`
	RequirementID *uint     `gorm:"column:requirement_id" json:"requirement_id,omitempty"`
	OriginalName  string    `gorm:"column:original_name" json:"original_name"`
	StoredName    string    `gorm:"column:stored_name" json:"stored_name"`
	FileSize      int64     `gorm:"column:file_size" json:"file_size"`
	MimeType      string    `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy    uint      `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt    time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (SubmissionFile) TableName() string {
	return "submission_files"
}

// SubmissionStatusLog is the append-only audit trail of the workflow engine.
// old_status always equals the submission's status immediately before the
// write; the engine enforces that with a conditional update.
type SubmissionStatusLog struct {
	LogID        uint      `gorm:"primaryKey;column:log_id" json:"log_id"`
	SubmissionID uint      `gorm:"column:submission_id" json:"submission_id"`
	ChangedBy    uint      `gorm:"column:changed_by" json:"changed_by"`
	OldStatus    string    `gorm:"column:old_status" json:"old_status"`
	NewStatus    string    `gorm:"column:new_status" json:"new_status"`
	ChangedAt    time.Time `gorm:"column:changed_at" json:"changed_at"`
}

func (SubmissionStatusLog) TableName() string {
	return "submission_status_logs"
}

type SubmissionComment struct {
	CommentID    uint      `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	SubmissionID uint      `gorm:"column:submission_id" json:"submission_id"`
	UserID       uint      `gorm:"column:user_id" json:"user_id"`
	CommentText  string    `gorm:"column:comment_text" json:"comment_text"`
	CommentType  string    `gorm:"column:comment_type" json:"comment_type"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	Author *User `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (SubmissionComment) TableName() string {
	return "submission_comments"
}
