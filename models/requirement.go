package models

import "time"

type PublicationType struct {
	PubTypeID   uint       `gorm:"primaryKey;column:pub_type_id" json:"pub_type_id"`
	TypeName    string     `gorm:"column:type_name;unique" json:"type_name"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

type InnovationType struct {
	InnoTypeID  uint       `gorm:"primaryKey;column:inno_type_id" json:"inno_type_id"`
	TypeName    string     `gorm:"column:type_name;unique" json:"type_name"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// RequirementMaster is a checklist document the office may demand for a
// submission, linked to publication/innovation types through the join rows
// below.
type RequirementMaster struct {
	RequirementID   uint       `gorm:"primaryKey;column:requirement_id" json:"requirement_id"`
	RequirementName string     `gorm:"column:requirement_name;unique" json:"requirement_name"`
	Description     *string    `gorm:"column:description" json:"description,omitempty"`
	IsActive        bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

type PubTypeRequirement struct {
	PubTypeRequirementID uint `gorm:"primaryKey;column:pub_type_requirement_id" json:"pub_type_requirement_id"`
	PubTypeID            uint `gorm:"column:pub_type_id" json:"pub_type_id"`
	RequirementID        uint `gorm:"column:requirement_id" json:"requirement_id"`
	IsMandatory          bool `gorm:"column:is_mandatory" json:"is_mandatory"`
	OrderSequence        int  `gorm:"column:order_sequence" json:"order_sequence"`

	Requirement *RequirementMaster `gorm:"foreignKey:RequirementID" json:"requirement,omitempty"`
}

type InnoTypeRequirement struct {
	InnoTypeRequirementID uint `gorm:"primaryKey;column:inno_type_requirement_id" json:"inno_type_requirement_id"`
	InnoTypeID            uint `gorm:"column:inno_type_id" json:"inno_type_id"`
	RequirementID         uint `gorm:"column:requirement_id" json:"requirement_id"`
	IsMandatory           bool `gorm:"column:is_mandatory" json:"is_mandatory"`
	OrderSequence         int  `gorm:"column:order_sequence" json:"order_sequence"`

	Requirement *RequirementMaster `gorm:"foreignKey:RequirementID" json:"requirement,omitempty"`
}

// TableName overrides
func (PublicationType) TableName() string {
	return "publication_types"
}

func (InnovationType) TableName() string {
	return "innovation_types"
}

func (RequirementMaster) TableName() string {
	return "requirements_master"
}

func (PubTypeRequirement) TableName() string {
	return "pub_type_requirements"
}

func (InnoTypeRequirement) TableName() string {
	return "inno_type_requirements"
}
