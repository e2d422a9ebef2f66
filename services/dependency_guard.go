package services

import (
	"fmt"

	"gorm.io/gorm"
)

// DependentRef names one table that may hold rows referencing an entity
// about to be deleted. Deletes are refused, never cascaded, while any
// dependent row exists.
type DependentRef struct {
	Table  string
	Column string
	Label  string
}

// DependencyConflictError reports why a delete was refused.
type DependencyConflictError struct {
	Label string
	Count int64
}

func (e *DependencyConflictError) Error() string {
	return fmt.Sprintf("cannot delete: %d dependent %s exist", e.Count, e.Label)
}

// Declarative dependent sets per entity type. These replace the per-page
// COUNT(*) checks that used to be copy-pasted for every registry.
var (
	CampusDependents = []DependentRef{
		{Table: "departments", Column: "campus_id", Label: "departments"},
		{Table: "users", Column: "campus_id", Label: "users"},
		{Table: "submissions", Column: "campus_id", Label: "submissions"},
	}

	CollegeDependents = []DependentRef{
		{Table: "departments", Column: "college_id", Label: "departments"},
		{Table: "programs", Column: "college_id", Label: "programs"},
	}

	DepartmentDependents = []DependentRef{
		{Table: "users", Column: "department_id", Label: "users"},
		{Table: "submissions", Column: "department_id", Label: "submissions"},
	}

	ProgramDependents = []DependentRef{
		{Table: "projects", Column: "program_id", Label: "projects"},
	}

	PublicationTypeDependents = []DependentRef{
		{Table: "submissions", Column: "pub_type_id", Label: "submissions"},
		{Table: "pub_type_requirements", Column: "pub_type_id", Label: "requirement links"},
	}

	InnovationTypeDependents = []DependentRef{
		{Table: "submissions", Column: "inno_type_id", Label: "submissions"},
		{Table: "inno_type_requirements", Column: "inno_type_id", Label: "requirement links"},
	}

	RequirementDependents = []DependentRef{
		{Table: "pub_type_requirements", Column: "requirement_id", Label: "publication type links"},
		{Table: "inno_type_requirements", Column: "requirement_id", Label: "innovation type links"},
		{Table: "submission_files", Column: "requirement_id", Label: "uploaded files"},
	}

	UserDependents = []DependentRef{
		{Table: "submissions", Column: "researcher_id", Label: "submissions"},
		{Table: "submission_comments", Column: "user_id", Label: "comments"},
	}
)

// CheckDependents returns a DependencyConflictError for the first dependent
// set that still holds rows for the given id. Run it inside the delete
// transaction so the count and the delete see the same snapshot.
func CheckDependents(db *gorm.DB, refs []DependentRef, id uint) error {
	for _, ref := range refs {
		var count int64
		err := db.Table(ref.Table).
			Where(fmt.Sprintf("%s = ?", ref.Column), id).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return &DependencyConflictError{Label: ref.Label, Count: count}
		}
	}
	return nil
}

// GuardedDelete runs the dependency check and the delete in one transaction.
// deleteFn performs the actual delete with the transactional handle.
func GuardedDelete(db *gorm.DB, refs []DependentRef, id uint, deleteFn func(tx *gorm.DB) error) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := CheckDependents(tx, refs, id); err != nil {
			return err
		}
		return deleteFn(tx)
	})
}
