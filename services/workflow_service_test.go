package services

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"pio-submission-api/models"
)

var (
	headQueryPattern       = regexp.MustCompile(`SELECT submission_id, status, researcher_id, reference_number FROM .*submissions.*WHERE submission_id = \? AND campus_id = \?`)
	statusUpdatePattern    = regexp.MustCompile(`UPDATE .*submissions.* SET .*status.*WHERE submission_id = \? AND campus_id = \? AND status = \?`)
	statusLogInsertPattern = regexp.MustCompile(`INSERT INTO .*submission_status_logs.*`)
	notificationPattern    = regexp.MustCompile(`INSERT INTO .*notifications.*`)
	commentInsertPattern   = regexp.MustCompile(`INSERT INTO .*submission_comments.*`)
)

var headColumns = []string{"submission_id", "status", "researcher_id", "reference_number"}

func headRow(id int64, status string, researcherID int64, ref string) [][]driver.Value {
	return [][]driver.Value{{id, status, researcherID, ref}}
}

func argsContain(substrings ...string) func(args []driver.NamedValue) error {
	return func(args []driver.NamedValue) error {
		for _, want := range substrings {
			found := false
			for _, arg := range args {
				if s, ok := arg.Value.(string); ok && strings.Contains(s, want) {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("no string argument contains %q", want)
			}
		}
		return nil
	}
}

func TestApplyActionRejectNotifiesResearcher(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			args:    []driver.Value{int64(42), int64(5), int64(1)},
			columns: headColumns,
			rows:    headRow(42, models.StatusForwardedToPIO, 7, "PIO-PUB-2026-0042"),
		},
		{
			kind:    kindExec,
			pattern: statusUpdatePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: statusLogInsertPattern,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:     kindExec,
			pattern:  notificationPattern,
			argCheck: argsContain("PIO-PUB-2026-0042", "rejected"),
			result:   scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := NewWorkflowService(db).ApplyAction(42, 5, ActionReject, 3)
	if err != nil {
		t.Fatalf("ApplyAction failed: %v", err)
	}
	if result.OldStatus != models.StatusForwardedToPIO || result.NewStatus != models.StatusRejected {
		t.Errorf("unexpected transition: %s -> %s", result.OldStatus, result.NewStatus)
	}
	if result.Flash.Message != "Submission rejected." || result.Flash.Type != "danger" {
		t.Errorf("unexpected flash: %+v", result.Flash)
	}
	if !result.NotificationCreated {
		t.Error("expected a researcher notification")
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if begins, commits, rollbacks := state.txCounts(); begins != 1 || commits != 1 || rollbacks != 0 {
		t.Errorf("unexpected tx counts: begins=%d commits=%d rollbacks=%d", begins, commits, rollbacks)
	}
}

func TestApplyActionCrossCampusBehavesLikeMissing(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			args:    []driver.Value{int64(42), int64(9), int64(1)},
			columns: headColumns,
			rows:    nil,
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewWorkflowService(db).ApplyAction(42, 9, ActionAccept, 3)
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if begins, _, _ := state.txCounts(); begins != 0 {
		t.Errorf("expected no transaction, got %d begins", begins)
	}
}

func TestApplyActionReplayIsNoOp(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			columns: headColumns,
			rows:    headRow(42, models.StatusAcceptedByPIO, 7, "PIO-PUB-2026-0042"),
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := NewWorkflowService(db).ApplyAction(42, 5, ActionAccept, 3)
	if err != nil {
		t.Fatalf("ApplyAction failed: %v", err)
	}
	if result.Flash.Type != "info" || !strings.Contains(result.Flash.Message, "already") {
		t.Errorf("expected an informational replay flash, got %+v", result.Flash)
	}
	if result.NotificationCreated {
		t.Error("replay must not create a notification")
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if begins, _, _ := state.txCounts(); begins != 0 {
		t.Errorf("replay must not write, got %d begins", begins)
	}
}

func TestApplyActionIllegalTransition(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			columns: headColumns,
			rows:    headRow(42, models.StatusApproved, 7, "PIO-PUB-2026-0042"),
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewWorkflowService(db).ApplyAction(42, 5, ActionForwardExternal, 3)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if begins, _, _ := state.txCounts(); begins != 0 {
		t.Errorf("illegal action must not write, got %d begins", begins)
	}
}

func TestApplyActionUnknownAction(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	_, err := NewWorkflowService(db).ApplyAction(42, 5, "escalate", 3)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestApplyActionConcurrentChangeConflicts(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			columns: headColumns,
			rows:    headRow(42, models.StatusForwardedToPIO, 7, "PIO-PUB-2026-0042"),
		},
		{
			kind:    kindExec,
			pattern: statusUpdatePattern,
			result:  scriptedResult{rowsAffected: 0},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewWorkflowService(db).ApplyAction(42, 5, ActionAccept, 3)
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if begins, commits, rollbacks := state.txCounts(); begins != 1 || commits != 0 || rollbacks != 1 {
		t.Errorf("unexpected tx counts: begins=%d commits=%d rollbacks=%d", begins, commits, rollbacks)
	}
}

func TestApplyActionRollsBackWhenAuditLogFails(t *testing.T) {
	logErr := errors.New("log insert failed")
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			columns: headColumns,
			rows:    headRow(42, models.StatusForwardedToPIO, 7, "PIO-PUB-2026-0042"),
		},
		{
			kind:    kindExec,
			pattern: statusUpdatePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: statusLogInsertPattern,
			err:     logErr,
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewWorkflowService(db).ApplyAction(42, 5, ActionAccept, 3)
	if err == nil {
		t.Fatal("expected an error when the audit log insert fails")
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if _, commits, rollbacks := state.txCounts(); commits != 0 || rollbacks != 1 {
		t.Errorf("expected rollback without commit, got commits=%d rollbacks=%d", commits, rollbacks)
	}
}

func TestApplyActionRollsBackWhenNotificationFails(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			columns: headColumns,
			rows:    headRow(42, models.StatusForwardedToPIO, 7, "PIO-PUB-2026-0042"),
		},
		{
			kind:    kindExec,
			pattern: statusUpdatePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: statusLogInsertPattern,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: notificationPattern,
			err:     errors.New("notifications table unavailable"),
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewWorkflowService(db).ApplyAction(42, 5, ActionAccept, 3)
	if err == nil {
		t.Fatal("expected an error when the notification insert fails")
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if _, commits, rollbacks := state.txCounts(); commits != 0 || rollbacks != 1 {
		t.Errorf("expected rollback without commit, got commits=%d rollbacks=%d", commits, rollbacks)
	}
}

func TestApplyActionSkipsSelfNotification(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			columns: headColumns,
			rows:    headRow(42, models.StatusAcceptedByPIO, 3, "PIO-INNO-2026-0007"),
		},
		{
			kind:    kindExec,
			pattern: statusUpdatePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: statusLogInsertPattern,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := NewWorkflowService(db).ApplyAction(42, 5, ActionApprove, 3)
	if err != nil {
		t.Fatalf("ApplyAction failed: %v", err)
	}
	if result.NotificationCreated {
		t.Error("actor acting on their own submission must not be notified")
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if _, commits, _ := state.txCounts(); commits != 1 {
		t.Errorf("expected 1 commit, got %d", commits)
	}
}

func TestAddCommentNotifiesResearcher(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			columns: headColumns,
			rows:    headRow(42, models.StatusUnderExternalReview, 7, "PIO-PUB-2026-0042"),
		},
		{
			kind:    kindExec,
			pattern: commentInsertPattern,
			result:  scriptedResult{lastInsertID: 11, rowsAffected: 1},
		},
		{
			kind:     kindExec,
			pattern:  notificationPattern,
			argCheck: argsContain("PIO-PUB-2026-0042"),
			result:   scriptedResult{lastInsertID: 5, rowsAffected: 1},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	comment, err := NewWorkflowService(db).AddComment(42, 5, 3, "Please attach the revised manuscript.", "revision")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.CommentID != 11 {
		t.Errorf("expected comment id 11, got %d", comment.CommentID)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestAddCommentSurvivesNotificationFailure(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: headQueryPattern,
			columns: headColumns,
			rows:    headRow(42, models.StatusUnderExternalReview, 7, "PIO-PUB-2026-0042"),
		},
		{
			kind:    kindExec,
			pattern: commentInsertPattern,
			result:  scriptedResult{lastInsertID: 12, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: notificationPattern,
			err:     errors.New("notifications table unavailable"),
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	comment, err := NewWorkflowService(db).AddComment(42, 5, 3, "Noted.", "general")
	if err != nil {
		t.Fatalf("AddComment must not fail when only the notification insert fails: %v", err)
	}
	if comment == nil {
		t.Fatal("expected the stored comment back")
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestLegalityTableCoversEveryStatus(t *testing.T) {
	statuses := []string{
		models.StatusSubmitted,
		models.StatusForwardedToPIO,
		models.StatusAcceptedByPIO,
		models.StatusForwardedToExternal,
		models.StatusUnderExternalReview,
		models.StatusApproved,
		models.StatusRejected,
	}
	for _, status := range statuses {
		actions, ok := allowedActions[status]
		if !ok {
			t.Errorf("status %s has no legality row", status)
			continue
		}
		for _, action := range actions {
			if _, ok := actionTargets[action]; !ok {
				t.Errorf("status %s allows unmapped action %s", status, action)
			}
		}
	}
	// Terminal statuses only permit their own replay.
	for _, status := range []string{models.StatusApproved, models.StatusRejected} {
		for _, action := range allowedActions[status] {
			if actionTargets[action] != status {
				t.Errorf("terminal status %s allows outgoing action %s", status, action)
			}
		}
	}
}
