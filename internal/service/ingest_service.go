package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/marcosfaria19/clarohub-sub000/internal/metrics"
	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"github.com/marcosfaria19/clarohub-sub000/internal/parser"
	"github.com/marcosfaria19/clarohub-sub000/internal/repository"
	"github.com/marcosfaria19/clarohub-sub000/internal/ws"
	"github.com/xuri/excelize/v2"
)

// IngestSummary reports one ingestion run. All counts come from set
// arithmetic over the intermediate row collections.
type IngestSummary struct {
	Total      int `json:"total"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// IngestService turns uploaded demand spreadsheets into tasks sitting in the
// target assignment.
type IngestService interface {
	Ingest(ctx context.Context, data []byte, projectID, assignmentID string, actor model.UserRef) (*IngestSummary, error)
}

type ingestService struct {
	registry    *parser.Registry
	projects    repository.ProjectRepository
	assignments repository.AssignmentRepository
	tasks       repository.TaskRepository
	hub         *ws.Hub
}

// NewIngestService creates the ingestion pipeline. hub may be nil in tests.
func NewIngestService(
	registry *parser.Registry,
	projects repository.ProjectRepository,
	assignments repository.AssignmentRepository,
	tasks repository.TaskRepository,
	hub *ws.Hub,
) IngestService {
	return &ingestService{
		registry:    registry,
		projects:    projects,
		assignments: assignments,
		tasks:       tasks,
		hub:         hub,
	}
}

func (s *ingestService) Ingest(ctx context.Context, data []byte, projectID, assignmentID string, actor model.UserRef) (*IngestSummary, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignments.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.ProjectID != project.ID {
		return nil, fmt.Errorf("assignment %s in project %s: %w", assignmentID, projectID, model.ErrNotFound)
	}

	projectType, err := model.ParseProjectType(project.Type)
	if err != nil {
		return nil, err
	}
	rowParser, err := s.registry.Get(projectType)
	if err != nil {
		return nil, err
	}

	rows, err := decodeFirstSheet(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &IngestSummary{}, nil
	}

	// Validation happens entirely before any write.
	candidates, err := rowParser.Parse(rows, project, assignment)
	if err != nil {
		return nil, err
	}

	demandIDs := make([]string, 0, len(candidates))
	for _, task := range candidates {
		demandIDs = append(demandIDs, task.IDDemanda)
	}
	existing, err := s.tasks.ExistingDemandIDs(ctx, demandIDs)
	if err != nil {
		return nil, err
	}

	fresh := make([]model.Task, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	duplicates := 0
	for _, task := range candidates {
		if existing[task.IDDemanda] || seen[task.IDDemanda] {
			duplicates++
			continue
		}
		seen[task.IDDemanda] = true
		fresh = append(fresh, task)
	}

	inserted, err := s.tasks.BulkInsert(ctx, fresh)
	if err != nil {
		return nil, err
	}

	summary := &IngestSummary{
		Total:      len(rows),
		Inserted:   int(inserted),
		Duplicates: duplicates,
		Invalid:    len(rows) - len(candidates),
	}

	metrics.RecordIngest(project.Type, summary.Inserted, summary.Duplicates)
	if depth, derr := s.tasks.CountInStage(ctx, assignment.ID); derr == nil {
		metrics.UpdateQueueDepth(assignment.Name, float64(depth))
	}
	if s.hub != nil && summary.Inserted > 0 {
		s.hub.PublishBoardEvent(ws.BoardEvent{
			Type:           ws.EventTasksIngested,
			ProjectID:      project.ID,
			AssignmentID:   assignment.ID,
			AssignmentName: assignment.Name,
			UserName:       actor.Name,
			Count:          summary.Inserted,
		})
	}
	return summary, nil
}

// decodeFirstSheet reads the first worksheet into header-keyed rows. Raw
// cell values are kept so date cells arrive as spreadsheet serials, not as
// whatever display format the sheet happened to use.
func decodeFirstSheet(data []byte) ([]parser.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}

	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(raw) < 2 {
		return nil, nil
	}

	header := raw[0]
	rows := make([]parser.Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(parser.Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(cells) {
				row[name] = cells[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
