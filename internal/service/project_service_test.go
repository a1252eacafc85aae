package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"github.com/marcosfaria19/clarohub-sub000/internal/repository"
	"github.com/marcosfaria19/clarohub-sub000/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProjectService_Create tests project creation and type validation.
func TestProjectService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project, err := f.flow.Create(ctx, &service.CreateProjectRequest{Name: "  Ocorrências TAP  ", Type: "tap"})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "Ocorrências TAP", project.Name)
	assert.Equal(t, "TAP", project.Type)

	_, err = f.flow.Create(ctx, &service.CreateProjectRequest{Name: "x", Type: "FTTH"})
	assert.Error(t, err)
}

// TestProjectService_Update tests renaming.
func TestProjectService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedFlow(t)

	updated, err := f.flow.Update(ctx, project.ID, &service.UpdateProjectRequest{Name: "Ocorrências MDU SP"})
	require.NoError(t, err)
	assert.Equal(t, "Ocorrências MDU SP", updated.Name)

	_, err = f.flow.Update(ctx, "missing", &service.UpdateProjectRequest{Name: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// TestProjectService_AddAssignment tests stage creation on a missing project.
func TestProjectService_AddAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.flow.AddAssignment(ctx, "missing", &service.AddAssignmentRequest{Name: "Análise"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// TestProjectService_EditAssignment tests partial stage updates.
func TestProjectService_EditAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedFlow(t)
	analise := &project.Assignments[0]

	name := "Análise Técnica"
	err := f.flow.EditAssignment(ctx, project.ID, analise.ID, &service.EditAssignmentRequest{
		Name:        &name,
		Transitions: []string{project.Assignments[1].ID},
		SortConfig:  []model.SortField{{Field: "regional", Direction: "asc"}},
	})
	require.NoError(t, err)

	reloaded, err := f.flow.Get(ctx, project.ID)
	require.NoError(t, err)
	edited := reloaded.FindAssignment(analise.ID)
	require.NotNil(t, edited)
	assert.Equal(t, "Análise Técnica", edited.Name)

	criteria, err := edited.SortCriteria()
	require.NoError(t, err)
	require.Len(t, criteria, 1)
	assert.Equal(t, "regional", criteria[0].Field)

	blank := "   "
	err = f.flow.EditAssignment(ctx, project.ID, analise.ID, &service.EditAssignmentRequest{Name: &blank})
	assert.Error(t, err)

	err = f.flow.EditAssignment(ctx, project.ID, "missing", &service.EditAssignmentRequest{Name: &name})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// TestProjectService_DeleteAssignment tests the non-empty-stage guard.
func TestProjectService_DeleteAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedFlow(t)
	analise, tratamento := &project.Assignments[0], &project.Assignments[1]

	f.seedTask(t, "t1", "D-1", project, analise, time.Now().UTC())

	err := f.flow.DeleteAssignment(ctx, project.ID, analise.ID)
	assert.ErrorIs(t, err, model.ErrStageNotEmpty)

	// The empty stage deletes cleanly.
	require.NoError(t, f.flow.DeleteAssignment(ctx, project.ID, tratamento.ID))

	reloaded, err := f.flow.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Assignments, 1)
}

// TestProjectService_BulkAssignUsers tests the lenient bulk overwrite.
func TestProjectService_BulkAssignUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedFlow(t)
	analise := &project.Assignments[0]

	err := f.flow.BulkAssignUsers(ctx, project.ID, []service.BulkAssignEntry{
		{AssignmentID: analise.ID, AssignedUsers: []model.AssignedUser{{UserID: "u1", Name: "Ana"}}},
		{AssignmentID: "", AssignedUsers: []model.AssignedUser{{UserID: "u2", Name: "Bia"}}},
		{AssignmentID: "a-x"}, // no user list
	})
	require.NoError(t, err)

	reloaded, err := f.flow.Get(ctx, project.ID)
	require.NoError(t, err)
	users, err := reloaded.FindAssignment(analise.ID).Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].UserID)
}

// TestProjectService_SaveLayout tests board position persistence.
func TestProjectService_SaveLayout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedFlow(t)
	analise := &project.Assignments[0]

	err := f.flow.SaveLayout(ctx, project.ID, []service.LayoutEntry{
		{AssignmentID: analise.ID, Position: model.Position{X: 10, Y: 20}},
		{AssignmentID: ""},
	})
	require.NoError(t, err)

	reloaded, err := f.flow.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":10,"y":20}`, string(reloaded.FindAssignment(analise.ID).Position))
}

// TestProjectService_ResolveSortCriteria tests the configured-or-default
// resolution, including the injected deployment default.
func TestProjectService_ResolveSortCriteria(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedFlow(t)
	analise := &project.Assignments[0]

	// No config anywhere: built-in default.
	got := f.flow.ResolveSortCriteria(ctx, analise.ID)
	assert.Equal(t, model.DefaultSort(), got)

	// Unknown assignment: still the default, never an error.
	got = f.flow.ResolveSortCriteria(ctx, "missing")
	assert.Equal(t, model.DefaultSort(), got)

	// Assignment config wins once present.
	err := f.flow.EditAssignment(ctx, project.ID, analise.ID, &service.EditAssignmentRequest{
		SortConfig: []model.SortField{{Field: "base", Direction: "desc"}},
	})
	require.NoError(t, err)
	got = f.flow.ResolveSortCriteria(ctx, analise.ID)
	require.Len(t, got, 1)
	assert.Equal(t, "base", got[0].Field)

	// An injected deployment default replaces the built-in one.
	custom := []model.SortField{{Field: "regional", Direction: "asc"}}
	flow := service.NewProjectService(
		repository.NewProjectRepository(f.db),
		repository.NewAssignmentRepository(f.db),
		repository.NewTaskRepository(f.db),
		custom,
	)
	got = flow.ResolveSortCriteria(ctx, "missing")
	assert.Equal(t, custom, got)
}

// TestProjectService_SetDefaultSort tests swapping the deployment default at
// runtime, as the config watcher does on file changes.
func TestProjectService_SetDefaultSort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	swapped := []model.SortField{{Field: "cidade", Direction: "desc"}}
	f.flow.SetDefaultSort(swapped)
	assert.Equal(t, swapped, f.flow.ResolveSortCriteria(ctx, "missing"))

	// An empty list falls back to the built-in default rather than leaving
	// claims unordered.
	f.flow.SetDefaultSort(nil)
	assert.Equal(t, model.DefaultSort(), f.flow.ResolveSortCriteria(ctx, "missing"))
}
