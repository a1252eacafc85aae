package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marcosfaria19/clarohub-sub000/internal/model"
)

// Column names as they appear in the source spreadsheets. The decoder
// preserves original headers exactly, so these are load-bearing strings.
const (
	ColIDDemanda        = "IDDEMANDA"
	ColCodOperadora     = "COD_OPERADORA"
	ColEnderecoVistoria = "ENDERECO_VISTORIA"
	ColFila             = "FILA"
	ColTipoDemanda      = "TIPO_DEMANDA"
	ColCodBaixa         = "COD_BAIXA"
	ColDataInicio       = "DATA_INICIO"
)

// Row is one spreadsheet row keyed by column header.
type Row map[string]string

// SchemaError reports required columns absent from a non-empty dataset.
// The upload is rejected before any parsing or persistence happens.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("spreadsheet is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RowParser validates, filters and normalizes spreadsheet rows into tasks
// entering the given assignment of the given project.
type RowParser interface {
	Parse(rows []Row, project *model.Project, assignment *model.Assignment) ([]model.Task, error)
}

// Registry holds one parser per supported project type, built once at
// startup. An unknown type is a configuration error at lookup time, never a
// silent nil at request time.
type Registry struct {
	parsers map[model.ProjectType]RowParser
}

// NewRegistry builds the parser set against the loaded city table.
func NewRegistry(cities CityTable) *Registry {
	return &Registry{
		parsers: map[model.ProjectType]RowParser{
			model.ProjectTypeMDU: newMDUParser(cities),
			model.ProjectTypeTAP: newTAPParser(cities),
			model.ProjectTypeNAP: newNAPParser(cities),
		},
	}
}

// Get resolves the parser for a project type.
func (r *Registry) Get(t model.ProjectType) (RowParser, error) {
	p, ok := r.parsers[t]
	if !ok {
		return nil, fmt.Errorf("no parser registered for project type %q", t)
	}
	return p, nil
}

// pipelineConfig is the per-project-type filter configuration applied to
// every row that survives the schema check.
type pipelineConfig struct {
	requiredColumns []string
	// COD_BAIXA values that mark a demand as already dispositioned.
	excludedDispositions map[string]bool
	// TIPO_DEMANDA values that never enter the flow.
	excludedDemandTypes map[string]bool
	// FILA allow-list keyed by lowercased target assignment name. An
	// assignment without an entry accepts any queue.
	queuesByAssignment map[string][]string
}

// rowPipeline is the shared validate/filter/enrich implementation behind the
// MDU, TAP and NAP parsers.
type rowPipeline struct {
	cfg    pipelineConfig
	cities CityTable
}

func (p *rowPipeline) Parse(rows []Row, project *model.Project, assignment *model.Assignment) ([]model.Task, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if err := p.checkSchema(rows[0]); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		if !p.accept(row, assignment) {
			continue
		}
		task := model.Task{
			ID:               uuid.NewString(),
			IDDemanda:        strings.TrimSpace(row[ColIDDemanda]),
			CodOperadora:     strings.TrimSpace(row[ColCodOperadora]),
			EnderecoVistoria: strings.TrimSpace(row[ColEnderecoVistoria]),
			ProjectID:        project.ID,
			ProjectName:      project.Name,
			StatusID:         assignment.ID,
			StatusName:       assignment.Name,
			CreatedAt:        ParseBusinessDate(row[ColDataInicio]),
			UpdatedAt:        now,
		}
		if city, ok := p.cities.Lookup(task.CodOperadora); ok {
			task.Cidade = city.Cidade
			task.UF = city.UF
			task.Regional = city.Regional
			task.Base = city.Base
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// checkSchema fails with a SchemaError naming every missing required column.
func (p *rowPipeline) checkSchema(sample Row) error {
	var missing []string
	for _, col := range p.cfg.requiredColumns {
		if _, ok := sample[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &SchemaError{Missing: missing}
	}
	return nil
}

// accept applies the business filter chain to one row.
func (p *rowPipeline) accept(row Row, assignment *model.Assignment) bool {
	if row[ColIDDemanda] == "" || strings.TrimSpace(row[ColIDDemanda]) == "" {
		return false
	}
	if p.cfg.excludedDispositions[strings.TrimSpace(row[ColCodBaixa])] {
		return false
	}
	if p.cfg.excludedDemandTypes[strings.ToUpper(strings.TrimSpace(row[ColTipoDemanda]))] {
		return false
	}
	if allowed, ok := p.cfg.queuesByAssignment[strings.ToLower(assignment.Name)]; ok {
		if !containsFold(allowed, strings.TrimSpace(row[ColFila])) {
			return false
		}
	}
	if strings.TrimSpace(row[ColEnderecoVistoria]) == "" {
		return false
	}
	return true
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
