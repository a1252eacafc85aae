package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// AssignedUser is one user allowed to work a stage, optionally scoped to
// a set of regionais.
type AssignedUser struct {
	UserID    string   `json:"userId"`
	Name      string   `json:"name"`
	Regionais []string `json:"regionais,omitempty"`
}

// Position is an assignment's 2D coordinate on the board. Cosmetic only.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Assignment is a stage/queue of a project's workflow. Normalized into its
// own table, referencing the owning project, instead of living embedded in
// the project document.
type Assignment struct {
	ID            string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ProjectID     string         `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_assignments_project_name" json:"projectId"`
	Name          string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_assignments_project_name" json:"name"`
	AssignedUsers datatypes.JSON `gorm:"type:jsonb" json:"assignedUsers,omitempty"` // []AssignedUser
	Transitions   datatypes.JSON `gorm:"type:jsonb" json:"transitions,omitempty"`   // []string of assignment ids, board metadata
	SortConfig    datatypes.JSON `gorm:"type:jsonb" json:"sortConfig,omitempty"`    // []SortField
	Position      datatypes.JSON `gorm:"type:jsonb" json:"position,omitempty"`      // Position
	CreatedAt     time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name
func (Assignment) TableName() string {
	return "assignments"
}

// Validate checks the assignment before persistence.
func (a *Assignment) Validate() error {
	if a.ID == "" {
		return errors.New("assignment ID is required")
	}
	if a.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("assignment name is required")
	}
	return nil
}

// SortCriteria decodes the configured claim ordering. Empty or absent
// configuration yields nil; the caller applies the deployment default.
func (a *Assignment) SortCriteria() ([]SortField, error) {
	if len(a.SortConfig) == 0 {
		return nil, nil
	}
	var fields []SortField
	if err := json.Unmarshal(a.SortConfig, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Users decodes the assigned-user list.
func (a *Assignment) Users() ([]AssignedUser, error) {
	if len(a.AssignedUsers) == 0 {
		return nil, nil
	}
	var users []AssignedUser
	if err := json.Unmarshal(a.AssignedUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Ref returns the status snapshot stamped onto tasks entering this stage.
func (a *Assignment) Ref() StatusRef {
	return StatusRef{ID: a.ID, Name: a.Name}
}
