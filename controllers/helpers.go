package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"pio-submission-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// duplicateError marks a uniqueness-check failure on a human-chosen field.
type duplicateError struct {
	field string
}

func (e *duplicateError) Error() string {
	return fmt.Sprintf("A record with the same %s already exists", e.field)
}

func errDuplicate(field string) error {
	return &duplicateError{field: field}
}

// validationError marks a business-rule failure raised inside a
// transactional block; it rolls the transaction back and reaches the user
// as a 400 with the message intact.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func errValidation(msg string) error {
	return &validationError{msg: msg}
}

// idParam parses the :id route parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// requirementIDParam parses the :requirement_id route parameter.
func requirementIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("requirement_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requirement id"})
		return 0, false
	}
	return uint(id), true
}

// respondWriteError maps a transactional create/update failure to the right
// status: missing target, duplicate field, or a generic database error
// logged server-side with the raw cause.
func respondWriteError(c *gin.Context, entity string, err error) {
	var dup *duplicateError
	var invalid *validationError
	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{"error": dup.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	default:
		log.Printf("write %s failed: %v", entity, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}

// respondDeleteError maps a guarded-delete failure to the right status.
// Dependency conflicts are refusals the user can understand; everything
// else is a database error logged with context.
func respondDeleteError(c *gin.Context, entity string, err error) {
	var conflict *services.DependencyConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
		return
	}
	log.Printf("delete %s failed: %v", entity, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}
