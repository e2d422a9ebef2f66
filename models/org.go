package models

import "time"

// Org hierarchy: Campus -> Department -> (User, Submission);
// College -> Program -> Project; College -> Department.

type Campus struct {
	CampusID   uint       `gorm:"primaryKey;column:campus_id" json:"campus_id"`
	CampusName string     `gorm:"column:campus_name;unique" json:"campus_name"`
	CampusCode string     `gorm:"column:campus_code;unique" json:"campus_code"`
	Address    *string    `gorm:"column:address" json:"address,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

type College struct {
	CollegeID   uint       `gorm:"primaryKey;column:college_id" json:"college_id"`
	CollegeName string     `gorm:"column:college_name;unique" json:"college_name"`
	CollegeCode string     `gorm:"column:college_code;unique" json:"college_code"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

type Department struct {
	DepartmentID   uint       `gorm:"primaryKey;column:department_id" json:"department_id"`
	CampusID       uint       `gorm:"column:campus_id" json:"campus_id"`
	CollegeID      *uint      `gorm:"column:college_id" json:"college_id,omitempty"`
	DepartmentName string     `gorm:"column:department_name" json:"department_name"`
	DepartmentCode string     `gorm:"column:department_code" json:"department_code"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Campus  *Campus  `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
	College *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
}

type Program struct {
	ProgramID   uint       `gorm:"primaryKey;column:program_id" json:"program_id"`
	CollegeID   uint       `gorm:"column:college_id" json:"college_id"`
	ProgramName string     `gorm:"column:program_name" json:"program_name"`
	ProgramCode string     `gorm:"column:program_code;unique" json:"program_code"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	College *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
}

type Project struct {
	ProjectID   uint       `gorm:"primaryKey;column:project_id" json:"project_id"`
	ProgramID   uint       `gorm:"column:program_id" json:"program_id"`
	ProjectName string     `gorm:"column:project_name" json:"project_name"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// TableName overrides
func (Campus) TableName() string {
	return "campuses"
}

func (College) TableName() string {
	return "colleges"
}

func (Department) TableName() string {
	return "departments"
}

func (Program) TableName() string {
	return "programs"
}

func (Project) TableName() string {
	return "projects"
}
