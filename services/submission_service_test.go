package services

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"pio-submission-api/models"
)

func uintPtr(v uint) *uint { return &v }

func intakeRequest() *IntakeRequest {
	return &IntakeRequest{
		Title:          "Machine Learning for Crop Yield Prediction",
		Abstract:       "A study of yield forecasting models.",
		SubmissionType: models.SubmissionTypePublication,
		PubTypeID:      uintPtr(2),
		ResearcherID:   7,
		MainFile: IntakeFile{
			OriginalName: "manuscript.pdf",
			StoredName:   "3f1c0d7e.pdf",
			FileSize:     2048,
			MimeType:     "application/pdf",
		},
		RequirementFiles: map[uint]IntakeFile{
			9: {
				RequirementID: 9,
				OriginalName:  "ethics-clearance.pdf",
				StoredName:    "88ab41c2.pdf",
				FileSize:      512,
				MimeType:      "application/pdf",
			},
		},
	}
}

func TestCreateForResearcher(t *testing.T) {
	year := time.Now().Year()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT .* FROM .*users.*WHERE user_id = \? AND campus_id = \? AND role = \?`),
			columns: []string{"user_id", "campus_id", "department_id", "role"},
			rows:    [][]driver.Value{{int64(7), int64(5), int64(12), models.RoleResearcher}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT .*requirement_id.* FROM .*pub_type_requirements.*WHERE pub_type_id = \? AND is_mandatory = 1`),
			columns: []string{"requirement_id"},
			rows:    [][]driver.Value{{int64(9)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .*submissions.*WHERE submission_type = \? AND YEAR\(submitted_at\) = \?`),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(6)}},
		},
		{
			kind:     kindExec,
			pattern:  regexp.MustCompile(`INSERT INTO .*submissions.*`),
			argCheck: argsContain(fmt.Sprintf("PIO-PUB-%d-0007", year)),
			result:   scriptedResult{lastInsertID: 42, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO .*submission_files.*`),
			argCheck: func(args []driver.NamedValue) error {
				names := map[string]bool{}
				for _, arg := range args {
					if s, ok := arg.Value.(string); ok {
						names[s] = true
					}
				}
				for _, want := range []string{"manuscript.pdf", "ethics-clearance.pdf"} {
					if !names[want] {
						return fmt.Errorf("file insert missing %q", want)
					}
				}
				return nil
			},
			result: scriptedResult{lastInsertID: 100, rowsAffected: 2},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	submission, err := NewSubmissionService(db).CreateForResearcher(5, 3, intakeRequest())
	if err != nil {
		t.Fatalf("CreateForResearcher failed: %v", err)
	}
	if submission.SubmissionID != 42 {
		t.Errorf("expected submission id 42, got %d", submission.SubmissionID)
	}
	if submission.Status != models.StatusSubmitted {
		t.Errorf("new submissions must start as submitted, got %s", submission.Status)
	}
	if want := fmt.Sprintf("PIO-PUB-%d-0007", year); submission.ReferenceNumber != want {
		t.Errorf("expected reference %s, got %s", want, submission.ReferenceNumber)
	}
	if len(submission.Files) != 2 {
		t.Errorf("expected 2 stored files, got %d", len(submission.Files))
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if _, commits, rollbacks := state.txCounts(); commits != 1 || rollbacks != 0 {
		t.Errorf("expected a single commit, got commits=%d rollbacks=%d", commits, rollbacks)
	}
}

func TestCreateForResearcherMissingMandatoryRequirement(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT .* FROM .*users.*WHERE user_id = \? AND campus_id = \? AND role = \?`),
			columns: []string{"user_id", "campus_id", "department_id", "role"},
			rows:    [][]driver.Value{{int64(7), int64(5), int64(12), models.RoleResearcher}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT .*requirement_id.* FROM .*pub_type_requirements.*`),
			columns: []string{"requirement_id"},
			rows:    [][]driver.Value{{int64(9)}, {int64(14)}},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewSubmissionService(db).CreateForResearcher(5, 3, intakeRequest())
	if !errors.Is(err, ErrMissingRequirement) {
		t.Fatalf("expected ErrMissingRequirement, got %v", err)
	}
	if !strings.Contains(err.Error(), "requirement 14") {
		t.Errorf("error should name the missing requirement, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if _, commits, rollbacks := state.txCounts(); commits != 0 || rollbacks != 1 {
		t.Errorf("expected rollback without commit, got commits=%d rollbacks=%d", commits, rollbacks)
	}
}

func TestCreateForResearcherOutsideCampus(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT .* FROM .*users.*WHERE user_id = \? AND campus_id = \? AND role = \?`),
			columns: []string{"user_id"},
			rows:    nil,
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewSubmissionService(db).CreateForResearcher(9, 3, intakeRequest())
	if !errors.Is(err, ErrResearcherNotFound) {
		t.Fatalf("expected ErrResearcherNotFound, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestCreateForResearcherTypeValidation(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()
	svc := NewSubmissionService(db)

	req := intakeRequest()
	req.SubmissionType = "thesis"
	if _, err := svc.CreateForResearcher(5, 3, req); !errors.Is(err, ErrInvalidSubmissionType) {
		t.Errorf("expected ErrInvalidSubmissionType, got %v", err)
	}

	req = intakeRequest()
	req.InnoTypeID = uintPtr(4)
	if _, err := svc.CreateForResearcher(5, 3, req); !errors.Is(err, ErrTypeSelection) {
		t.Errorf("expected ErrTypeSelection for both types set, got %v", err)
	}

	req = intakeRequest()
	req.PubTypeID = nil
	if _, err := svc.CreateForResearcher(5, 3, req); !errors.Is(err, ErrTypeSelection) {
		t.Errorf("expected ErrTypeSelection for no type set, got %v", err)
	}

	req = intakeRequest()
	req.SubmissionType = models.SubmissionTypeInnovation
	if _, err := svc.CreateForResearcher(5, 3, req); !errors.Is(err, ErrTypeSelection) {
		t.Errorf("expected ErrTypeSelection for mismatched type, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}
