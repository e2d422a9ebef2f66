package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func countStep(table string, count int64) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .*` + table + `.*`),
		columns: []string{"count(*)"},
		rows:    [][]driver.Value{{count}},
	}
}

func TestGuardedDeleteRefusedWhileDependentsExist(t *testing.T) {
	steps := []*queryStep{
		countStep("departments", 3),
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	deleted := false
	err := GuardedDelete(db, CampusDependents, 5, func(tx *gorm.DB) error {
		deleted = true
		return nil
	})

	var conflict *DependencyConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected DependencyConflictError, got %v", err)
	}
	if conflict.Count != 3 || conflict.Label != "departments" {
		t.Errorf("unexpected conflict detail: %+v", conflict)
	}
	if !strings.Contains(conflict.Error(), "3 dependent departments") {
		t.Errorf("unexpected conflict message: %s", conflict.Error())
	}
	if deleted {
		t.Error("delete must not run once a dependent set holds rows")
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if _, commits, rollbacks := state.txCounts(); commits != 0 || rollbacks != 1 {
		t.Errorf("expected rollback without commit, got commits=%d rollbacks=%d", commits, rollbacks)
	}
}

func TestGuardedDeleteChecksEverySetBeforeDeleting(t *testing.T) {
	steps := []*queryStep{
		countStep("departments", 0),
		countStep("users", 0),
		countStep("submissions", 0),
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`DELETE FROM .*campuses.*`),
			result:  scriptedResult{rowsAffected: 1},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := GuardedDelete(db, CampusDependents, 5, func(tx *gorm.DB) error {
		return tx.Exec("DELETE FROM campuses WHERE campus_id = ?", 5).Error
	})
	if err != nil {
		t.Fatalf("GuardedDelete failed: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
	if _, commits, rollbacks := state.txCounts(); commits != 1 || rollbacks != 0 {
		t.Errorf("expected a single commit, got commits=%d rollbacks=%d", commits, rollbacks)
	}
}

func TestCheckDependentsStopsAtFirstConflict(t *testing.T) {
	steps := []*queryStep{
		countStep("pub_type_requirements", 0),
		countStep("inno_type_requirements", 2),
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := CheckDependents(db, RequirementDependents, 9)
	var conflict *DependencyConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected DependencyConflictError, got %v", err)
	}
	if conflict.Label != "innovation type links" {
		t.Errorf("unexpected label: %s", conflict.Label)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}
