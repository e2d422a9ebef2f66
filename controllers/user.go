package controllers

import (
	"net/http"
	"time"

	"pio-submission-api/config"
	"pio-submission-api/middleware"
	"pio-submission-api/models"
	"pio-submission-api/services"
	"pio-submission-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetUsers lists users of the acting PIO's campus, optionally filtered by
// role or department.
func GetUsers(c *gin.Context) {
	campusID := middleware.GetCampusID(c)

	query := config.DB.Preload("Department").
		Where("campus_id = ?", campusID)
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	var users []models.User
	if err := query.Order("user_lname, user_fname").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

type userRequest struct {
	UserFname    string `json:"user_fname" binding:"required"`
	UserLname    string `json:"user_lname" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password"`
	Role         string `json:"role" binding:"required"`
	DepartmentID *uint  `json:"department_id"`
	IsActive     *bool  `json:"is_active"`
}

// validateUserRole enforces the department rules per role: facilitators and
// researchers must sit in a department of the PIO's campus, external
// evaluators must not have one at all.
func validateUserRole(tx *gorm.DB, campusID uint, req *userRequest) (*uint, error) {
	if !models.IsValidRole(req.Role) {
		return nil, errValidation("Unknown role")
	}

	if req.Role == models.RoleExternalEvaluator {
		// Forced null regardless of what the form sent.
		return nil, nil
	}

	if models.RequiresDepartment(req.Role) {
		if req.DepartmentID == nil {
			return nil, errValidation("A department is required for this role")
		}
		var department models.Department
		err := tx.First(&department, "department_id = ? AND campus_id = ?", *req.DepartmentID, campusID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errValidation("Department does not belong to your campus")
			}
			return nil, err
		}
	}

	return req.DepartmentID, nil
}

// CreateUser registers a user in the PIO's campus.
func CreateUser(c *gin.Context) {
	campusID := middleware.GetCampusID(c)

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		departmentID, err := validateUserRole(tx, campusID, &req)
		if err != nil {
			return err
		}

		// Email uniqueness is global, not per campus.
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ?", req.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("email")
		}

		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}

		user := models.User{
			UserFname:    req.UserFname,
			UserLname:    req.UserLname,
			Email:        req.Email,
			Password:     hashed,
			Role:         req.Role,
			CampusID:     campusID,
			DepartmentID: departmentID,
			IsActive:     active,
			CreatedAt:    time.Now(),
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		respondWriteError(c, "user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User created successfully"})
}

// UpdateUser edits a user of the PIO's campus. A blank password leaves the
// current one in place.
func UpdateUser(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "user_id = ? AND campus_id = ?", id, campusID).Error; err != nil {
			return err
		}

		departmentID, err := validateUserRole(tx, campusID, &req)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? AND user_id <> ?", req.Email, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicate("email")
		}

		updates := map[string]interface{}{
			"user_fname":    req.UserFname,
			"user_lname":    req.UserLname,
			"email":         req.Email,
			"role":          req.Role,
			"department_id": departmentID,
			"updated_at":    time.Now(),
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if req.Password != "" {
			if ok, msg := utils.ValidatePassword(req.Password); !ok {
				return errValidation(msg)
			}
			hashed, err := HashPassword(req.Password)
			if err != nil {
				return err
			}
			updates["password"] = hashed
		}

		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		respondWriteError(c, "user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated successfully"})
}

// DeleteUser refuses while submissions or comments still reference the user.
func DeleteUser(c *gin.Context) {
	campusID := middleware.GetCampusID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "user_id = ? AND campus_id = ?", id, campusID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found in your campus"})
		return
	}

	err := services.GuardedDelete(config.DB, services.UserDependents, id, func(tx *gorm.DB) error {
		return tx.Delete(&models.User{}, "user_id = ? AND campus_id = ?", id, campusID).Error
	})
	if err != nil {
		respondDeleteError(c, "user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
