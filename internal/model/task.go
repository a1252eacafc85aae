package model

import (
	"errors"
	"time"
)

// Task is the unit of work flowing through a project's assignments, uniquely
// identified by its IDDEMANDA business key. Tasks are created exclusively by
// the ingestion pipeline and never hard-deleted by the flow engine.
//
// Project and status are denormalized snapshots, not live foreign keys, so a
// task keeps rendering even after its project definition changes.
type Task struct {
	ID        string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	IDDemanda string `gorm:"column:id_demanda;type:varchar(64);not null;uniqueIndex" json:"idDemanda"`

	// Enrichment from the city reference table, keyed by operator code.
	CodOperadora     string `gorm:"type:varchar(32);index" json:"codOperadora,omitempty"`
	EnderecoVistoria string `gorm:"type:text" json:"enderecoVistoria,omitempty"`
	Cidade           string `gorm:"type:varchar(128)" json:"cidade,omitempty"`
	UF               string `gorm:"column:uf;type:varchar(2)" json:"uf,omitempty"`
	Regional         string `gorm:"type:varchar(64)" json:"regional,omitempty"`
	Base             string `gorm:"type:varchar(64)" json:"base,omitempty"`

	ProjectID   string `gorm:"type:varchar(64);not null;index" json:"projectId"`
	ProjectName string `gorm:"type:varchar(255);not null" json:"projectName"`

	// Current stage snapshot. Changes only through Transition.
	StatusID   string `gorm:"type:varchar(64);not null;index" json:"statusId"`
	StatusName string `gorm:"type:varchar(255);not null" json:"statusName"`

	// Claim holder. NULL means available to claim.
	AssignedToID   *string `gorm:"type:varchar(64);index" json:"assignedToId"`
	AssignedToName *string `gorm:"type:varchar(255)" json:"assignedToName"`

	// CreatedAt is the business date parsed from the source spreadsheet,
	// not the insertion time. NULL when the sheet carried no usable date.
	CreatedAt *time.Time `gorm:"autoCreateTime:false;index" json:"createdAt"`
	// UpdatedAt doubles as the claim timestamp and the default ordering
	// tiebreak; claim and transition advance it explicitly.
	UpdatedAt time.Time `gorm:"not null;index" json:"updatedAt"`
}

// TableName specifies the table name
func (Task) TableName() string {
	return "tasks"
}

// Validate checks the task before persistence.
func (t *Task) Validate() error {
	if t.ID == "" {
		return errors.New("task ID is required")
	}
	if t.IDDemanda == "" {
		return errors.New("id_demanda is required")
	}
	if t.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if t.StatusID == "" {
		return errors.New("status ID is required")
	}
	return nil
}

// Claimed reports whether the task is currently held by a user.
func (t *Task) Claimed() bool {
	return t.AssignedToID != nil
}

// Status returns the current stage snapshot.
func (t *Task) Status() StatusRef {
	return StatusRef{ID: t.StatusID, Name: t.StatusName}
}
