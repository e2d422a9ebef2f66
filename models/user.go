package models

import (
	"time"
)

// Role names stored in users.role.
const (
	RolePIO               = "pio"
	RoleFacilitator       = "facilitator"
	RoleResearcher        = "researcher"
	RoleExternalEvaluator = "external_evaluator"
)

type User struct {
	UserID       uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname    string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname    string     `gorm:"column:user_lname" json:"user_lname"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	Role         string     `gorm:"column:role" json:"role"`
	CampusID     uint       `gorm:"column:campus_id" json:"campus_id"`
	DepartmentID *uint      `gorm:"column:department_id" json:"department_id,omitempty"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	// Relations
	Campus     *Campus     `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns the display name used in notifications and listings.
func (u *User) FullName() string {
	return u.UserFname + " " + u.UserLname
}

// RequiresDepartment reports whether the role must be attached to a department.
func RequiresDepartment(role string) bool {
	return role == RoleFacilitator || role == RoleResearcher
}

// IsValidRole reports whether the role name is one the panel manages.
func IsValidRole(role string) bool {
	switch role {
	case RolePIO, RoleFacilitator, RoleResearcher, RoleExternalEvaluator:
		return true
	}
	return false
}
