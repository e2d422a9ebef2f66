package services

import (
	"errors"
	"fmt"
	"time"

	"pio-submission-api/models"

	"gorm.io/gorm"
)

var (
	ErrResearcherNotFound    = errors.New("researcher not found in your campus")
	ErrInvalidSubmissionType = errors.New("submission type must be publication or innovation")
	ErrTypeSelection         = errors.New("exactly one of publication type or innovation type must be set")
	ErrMissingRequirement    = errors.New("a mandatory requirement file is missing")
)

// IntakeFile is one stored upload to attach to a new submission. A zero
// RequirementID marks the main article; everything else answers one entry of
// the type's requirement checklist.
type IntakeFile struct {
	RequirementID uint
	OriginalName  string
	StoredName    string
	FileSize      int64
	MimeType      string
}

// IntakeRequest is a PIO submitting research on a researcher's behalf.
type IntakeRequest struct {
	Title          string
	Abstract       string
	SubmissionType string
	PubTypeID      *uint
	InnoTypeID     *uint
	ResearcherID   uint
	MainFile       IntakeFile
	// RequirementFiles maps requirement id to its stored upload, replacing
	// the dynamically named per-requirement form fields of the old panel.
	RequirementFiles map[uint]IntakeFile
}

type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

// CreateForResearcher validates and records a new submission with status
// "submitted". The researcher must belong to the acting PIO's campus, the
// submission must name exactly one type, and every mandatory requirement of
// that type must come with an upload. Everything commits in one transaction.
func (s *SubmissionService) CreateForResearcher(campusID, actorID uint, req *IntakeRequest) (*models.Submission, error) {
	if req.SubmissionType != models.SubmissionTypePublication && req.SubmissionType != models.SubmissionTypeInnovation {
		return nil, ErrInvalidSubmissionType
	}
	if (req.PubTypeID == nil) == (req.InnoTypeID == nil) {
		return nil, ErrTypeSelection
	}
	if req.SubmissionType == models.SubmissionTypePublication && req.PubTypeID == nil {
		return nil, ErrTypeSelection
	}
	if req.SubmissionType == models.SubmissionTypeInnovation && req.InnoTypeID == nil {
		return nil, ErrTypeSelection
	}

	var submission *models.Submission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var researcher models.User
		err := tx.Where("user_id = ? AND campus_id = ? AND role = ?",
			req.ResearcherID, campusID, models.RoleResearcher).
			First(&researcher).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResearcherNotFound
			}
			return err
		}

		mandatory, err := s.mandatoryRequirements(tx, req)
		if err != nil {
			return err
		}
		for _, requirementID := range mandatory {
			if _, ok := req.RequirementFiles[requirementID]; !ok {
				return fmt.Errorf("%w (requirement %d)", ErrMissingRequirement, requirementID)
			}
		}

		reference, err := nextReferenceNumber(tx, req.SubmissionType)
		if err != nil {
			return err
		}

		now := time.Now()
		row := models.Submission{
			ReferenceNumber: reference,
			Title:           req.Title,
			Abstract:        req.Abstract,
			SubmissionType:  req.SubmissionType,
			PubTypeID:       req.PubTypeID,
			InnoTypeID:      req.InnoTypeID,
			ResearcherID:    researcher.UserID,
			DepartmentID:    researcher.DepartmentID,
			CampusID:        campusID,
			FilePath:        req.MainFile.StoredName,
			Status:          models.StatusSubmitted,
			SubmittedAt:     now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		files := []models.SubmissionFile{{
			SubmissionID: row.SubmissionID,
			OriginalName: req.MainFile.OriginalName,
			StoredName:   req.MainFile.StoredName,
			FileSize:     req.MainFile.FileSize,
			MimeType:     req.MainFile.MimeType,
			UploadedBy:   actorID,
			UploadedAt:   now,
		}}
		for requirementID, file := range req.RequirementFiles {
			reqID := requirementID
			files = append(files, models.SubmissionFile{
				SubmissionID:  row.SubmissionID,
				RequirementID: &reqID,
				OriginalName:  file.OriginalName,
				StoredName:    file.StoredName,
				FileSize:      file.FileSize,
				MimeType:      file.MimeType,
				UploadedBy:    actorID,
				UploadedAt:    now,
			})
		}
		if err := tx.Create(&files).Error; err != nil {
			return err
		}
		row.Files = files

		submission = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *SubmissionService) mandatoryRequirements(tx *gorm.DB, req *IntakeRequest) ([]uint, error) {
	var ids []uint
	if req.SubmissionType == models.SubmissionTypePublication {
		err := tx.Model(&models.PubTypeRequirement{}).
			Where("pub_type_id = ? AND is_mandatory = 1", *req.PubTypeID).
			Order("order_sequence").
			Pluck("requirement_id", &ids).Error
		return ids, err
	}
	err := tx.Model(&models.InnoTypeRequirement{}).
		Where("inno_type_id = ? AND is_mandatory = 1", *req.InnoTypeID).
		Order("order_sequence").
		Pluck("requirement_id", &ids).Error
	return ids, err
}

// nextReferenceNumber builds the external id, e.g. PIO-PUB-2026-0007.
func nextReferenceNumber(tx *gorm.DB, submissionType string) (string, error) {
	prefix := "PUB"
	if submissionType == models.SubmissionTypeInnovation {
		prefix = "INNO"
	}

	year := time.Now().Year()
	var count int64
	err := tx.Model(&models.Submission{}).
		Where("submission_type = ? AND YEAR(submitted_at) = ?", submissionType, year).
		Count(&count).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("PIO-%s-%d-%04d", prefix, year, count+1), nil
}
