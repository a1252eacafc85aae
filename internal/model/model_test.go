package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseProjectType tests the closed type set, case-insensitively.
func TestParseProjectType(t *testing.T) {
	for _, input := range []string{"MDU", "mdu", " Mdu "} {
		got, err := ParseProjectType(input)
		require.NoError(t, err)
		assert.Equal(t, ProjectTypeMDU, got)
	}

	_, err := ParseProjectType("FTTH")
	assert.Error(t, err)
	_, err = ParseProjectType("")
	assert.Error(t, err)
}

// TestProject_Validate tests project invariants.
func TestProject_Validate(t *testing.T) {
	valid := &Project{ID: "p1", Name: "Ocorrências", Type: "TAP"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&Project{Name: "x", Type: "TAP"}).Validate())
	assert.Error(t, (&Project{ID: "p1", Name: "  ", Type: "TAP"}).Validate())
	assert.Error(t, (&Project{ID: "p1", Name: "x", Type: "FTTH"}).Validate())
}

// TestProject_FindAssignment tests stage lookup by id.
func TestProject_FindAssignment(t *testing.T) {
	project := &Project{
		ID:   "p1",
		Name: "x",
		Type: "MDU",
		Assignments: []Assignment{
			{ID: "a1", ProjectID: "p1", Name: "Análise"},
			{ID: "a2", ProjectID: "p1", Name: "Tratamento"},
		},
	}

	found := project.FindAssignment("a2")
	require.NotNil(t, found)
	assert.Equal(t, "Tratamento", found.Name)

	assert.Nil(t, project.FindAssignment("missing"))
}

// TestSortField_Column tests the sort whitelist in both naming conventions.
func TestSortField_Column(t *testing.T) {
	col, ok := SortField{Field: "updatedAt"}.Column()
	require.True(t, ok)
	assert.Equal(t, "updated_at", col)

	col, ok = SortField{Field: "updated_at"}.Column()
	require.True(t, ok)
	assert.Equal(t, "updated_at", col)

	col, ok = SortField{Field: "idDemanda"}.Column()
	require.True(t, ok)
	assert.Equal(t, "id_demanda", col)

	// Anything outside the whitelist never reaches SQL.
	_, ok = SortField{Field: "updated_at; DROP TABLE tasks"}.Column()
	assert.False(t, ok)
	_, ok = SortField{Field: "assigned_to_id"}.Column()
	assert.False(t, ok)
}

// TestSortField_Desc tests direction parsing.
func TestSortField_Desc(t *testing.T) {
	assert.True(t, SortField{Direction: "desc"}.Desc())
	assert.True(t, SortField{Direction: "DESC"}.Desc())
	assert.False(t, SortField{Direction: "asc"}.Desc())
	assert.False(t, SortField{Direction: ""}.Desc())
}

// TestAssignment_SortCriteria tests decoding of the stored sort config.
func TestAssignment_SortCriteria(t *testing.T) {
	raw, err := json.Marshal([]SortField{
		{Field: "regional", Direction: "asc"},
		{Field: "updatedAt", Direction: "desc"},
	})
	require.NoError(t, err)

	assignment := &Assignment{ID: "a1", ProjectID: "p1", Name: "Análise", SortConfig: raw}
	fields, err := assignment.SortCriteria()
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "regional", fields[0].Field)
	assert.True(t, fields[1].Desc())

	// Absent config means "use the deployment default", not an error.
	empty := &Assignment{ID: "a2", ProjectID: "p1", Name: "Tratamento"}
	fields, err = empty.SortCriteria()
	require.NoError(t, err)
	assert.Nil(t, fields)
}

// TestTask_Claimed tests the claim predicate.
func TestTask_Claimed(t *testing.T) {
	task := &Task{ID: "t1", IDDemanda: "D-1", ProjectID: "p1", StatusID: "a1"}
	assert.False(t, task.Claimed())

	userID := "u1"
	task.AssignedToID = &userID
	assert.True(t, task.Claimed())
}

// TestTaskHistory_Validate tests audit row invariants.
func TestTaskHistory_Validate(t *testing.T) {
	valid := &TaskHistory{ID: "h1", TaskID: "t1", ToStatusID: "a2", UserID: "u1"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&TaskHistory{TaskID: "t1", ToStatusID: "a2", UserID: "u1"}).Validate())
	assert.Error(t, (&TaskHistory{ID: "h1", ToStatusID: "a2", UserID: "u1"}).Validate())
	assert.Error(t, (&TaskHistory{ID: "h1", TaskID: "t1", UserID: "u1"}).Validate())
	assert.Error(t, (&TaskHistory{ID: "h1", TaskID: "t1", ToStatusID: "a2"}).Validate())
}
