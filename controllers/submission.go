package controllers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pio-submission-api/config"
	"pio-submission-api/middleware"
	"pio-submission-api/models"
	"pio-submission-api/services"
	"pio-submission-api/utils"

	"github.com/gin-gonic/gin"
)

// ===================== SUBMISSION MANAGEMENT =====================

// GetSubmissions returns the campus-scoped submission list. Each workflow
// page of the panel is this projection with a different status filter.
func GetSubmissions(c *gin.Context) {
	campusID := middleware.GetCampusID(c)

	query := config.DB.Preload("Researcher").
		Preload("Department").
		Preload("PublicationType").
		Preload("InnovationType").
		Where("campus_id = ?", campusID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if submissionType := c.Query("submission_type"); submissionType != "" {
		query = query.Where("submission_type = ?", submissionType)
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns one submission with its files, for the details
// modal. Cross-campus ids look exactly like missing ones.
func GetSubmission(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var submission models.Submission
	err := config.DB.Preload("Researcher").
		Preload("Department").
		Preload("PublicationType").
		Preload("InnovationType").
		Preload("Files").
		Where("submission_id = ? AND campus_id = ?", id, campusID).
		First(&submission).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Submission not found or unauthorized for your campus",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"submission":       submission,
		"submission_files": submission.Files,
	})
}

// GetSubmissionStatusLogs returns the audit trail for one submission.
func GetSubmissionStatusLogs(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var submission models.Submission
	if err := config.DB.Select("submission_id").
		Where("submission_id = ? AND campus_id = ?", id, campusID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Submission not found or unauthorized for your campus",
		})
		return
	}

	var logs []models.SubmissionStatusLog
	if err := config.DB.Where("submission_id = ?", id).
		Order("changed_at DESC").
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"status_logs": logs,
		"total":       len(logs),
	})
}

// savedUpload keeps the on-disk path so a failed intake can clean up.
type savedUpload struct {
	file services.IntakeFile
	path string
}

func saveUpload(c *gin.Context, header *multipart.FileHeader, uploadDir string, requirementID uint) (*savedUpload, error) {
	if header.Size > utils.MaxUploadSize {
		return nil, errValidation("File size exceeds 10MB limit: " + header.Filename)
	}
	if !utils.AllowedUploadExt(header.Filename) {
		return nil, errValidation("File type not allowed: " + header.Filename)
	}

	storedName := utils.StoredFilename(header.Filename)
	fullPath := filepath.Join(uploadDir, storedName)
	if err := c.SaveUploadedFile(header, fullPath); err != nil {
		return nil, err
	}

	return &savedUpload{
		file: services.IntakeFile{
			RequirementID: requirementID,
			OriginalName:  header.Filename,
			StoredName:    storedName,
			FileSize:      header.Size,
			MimeType:      header.Header.Get("Content-Type"),
		},
		path: fullPath,
	}, nil
}

// CreateSubmission lets a PIO submit research on a researcher's behalf.
// Multipart form: title, abstract, submission_type, pub_type_id or
// inno_type_id, researcher_id, main_file, and one requirement_file_<id>
// part per checklist entry.
func CreateSubmission(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	actorID := middleware.GetUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart/form-data is required"})
		return
	}

	title := utils.SanitizeInput(c.PostForm("title"))
	abstract := utils.SanitizeInput(c.PostForm("abstract"))
	submissionType := strings.TrimSpace(c.PostForm("submission_type"))
	researcherID, err := strconv.ParseUint(c.PostForm("researcher_id"), 10, 64)
	if title == "" || abstract == "" || err != nil || researcherID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, abstract and researcher_id are required"})
		return
	}

	var pubTypeID, innoTypeID *uint
	if v := c.PostForm("pub_type_id"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			id := uint(parsed)
			pubTypeID = &id
		}
	}
	if v := c.PostForm("inno_type_id"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			id := uint(parsed)
			innoTypeID = &id
		}
	}

	mainHeaders := form.File["main_file"]
	if len(mainHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The main article file is required"})
		return
	}

	uploadDir, err := utils.UploadDir()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	var saved []*savedUpload
	cleanup := func() {
		for _, s := range saved {
			if err := os.Remove(s.path); err != nil {
				log.Printf("failed to remove orphan upload %s: %v", s.path, err)
			}
		}
	}

	mainUpload, err := saveUpload(c, mainHeaders[0], uploadDir, 0)
	if err != nil {
		respondWriteError(c, "submission upload", err)
		return
	}
	saved = append(saved, mainUpload)

	// Requirement uploads arrive as requirement_file_<id> form parts; they
	// collapse into a requirement-id keyed map before validation.
	requirementFiles := make(map[uint]services.IntakeFile)
	for field, headers := range form.File {
		if !strings.HasPrefix(field, "requirement_file_") || len(headers) == 0 {
			continue
		}
		requirementID, err := strconv.ParseUint(strings.TrimPrefix(field, "requirement_file_"), 10, 64)
		if err != nil || requirementID == 0 {
			cleanup()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requirement upload field: " + field})
			return
		}

		upload, err := saveUpload(c, headers[0], uploadDir, uint(requirementID))
		if err != nil {
			cleanup()
			respondWriteError(c, "submission upload", err)
			return
		}
		saved = append(saved, upload)
		requirementFiles[uint(requirementID)] = upload.file
	}

	intake := &services.IntakeRequest{
		Title:            title,
		Abstract:         abstract,
		SubmissionType:   submissionType,
		PubTypeID:        pubTypeID,
		InnoTypeID:       innoTypeID,
		ResearcherID:     uint(researcherID),
		MainFile:         mainUpload.file,
		RequirementFiles: requirementFiles,
	}

	submission, err := services.NewSubmissionService(config.DB).CreateForResearcher(campusID, actorID, intake)
	if err != nil {
		cleanup()
		switch {
		case errors.Is(err, services.ErrResearcherNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidSubmissionType),
			errors.Is(err, services.ErrTypeSelection),
			errors.Is(err, services.ErrMissingRequirement):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("submission intake failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Submission recorded successfully",
		"submission": submission,
	})
}

// DownloadSubmissionFile streams a stored upload, campus-scoped through the
// owning submission.
func DownloadSubmissionFile(c *gin.Context) {
	campusID := middleware.GetCampusID(c)

	fileID, err := strconv.ParseUint(c.Param("file_id"), 10, 64)
	if err != nil || fileID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}

	var file models.SubmissionFile
	err = config.DB.
		Joins("JOIN submissions ON submissions.submission_id = submission_files.submission_id").
		Where("submission_files.file_id = ? AND submissions.campus_id = ?", fileID, campusID).
		First(&file).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	uploadDir, err := utils.UploadDir()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve upload directory"})
		return
	}

	fullPath := filepath.Join(uploadDir, file.StoredName)
	if _, err := os.Stat(fullPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File missing from storage"})
		return
	}

	c.FileAttachment(fullPath, file.OriginalName)
}
