package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ProjectType is the closed set of demand sources a project can ingest from.
// Parsers are registered per type at startup, so an unsupported type is a
// configuration error long before any upload reaches the server.
type ProjectType string

const (
	ProjectTypeMDU ProjectType = "MDU"
	ProjectTypeTAP ProjectType = "TAP"
	ProjectTypeNAP ProjectType = "NAP"
)

// ParseProjectType resolves a stored or user-supplied type name,
// case-insensitively, to a known ProjectType.
func ParseProjectType(s string) (ProjectType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ProjectTypeMDU):
		return ProjectTypeMDU, nil
	case string(ProjectTypeTAP):
		return ProjectTypeTAP, nil
	case string(ProjectTypeNAP):
		return ProjectTypeNAP, nil
	}
	return "", fmt.Errorf("unknown project type %q", s)
}

// Project is a workflow template: a named, typed container of assignments.
type Project struct {
	ID          string       `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Type        string       `gorm:"type:varchar(16);not null" json:"type"`
	Assignments []Assignment `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	CreatedAt   time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name
func (Project) TableName() string {
	return "projects"
}

// Validate checks the project before persistence.
func (p *Project) Validate() error {
	if p.ID == "" {
		return errors.New("project ID is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("project name is required")
	}
	if _, err := ParseProjectType(p.Type); err != nil {
		return err
	}
	return nil
}

// FindAssignment returns the project's assignment with the given id, or nil.
func (p *Project) FindAssignment(assignmentID string) *Assignment {
	for i := range p.Assignments {
		if p.Assignments[i].ID == assignmentID {
			return &p.Assignments[i]
		}
	}
	return nil
}
