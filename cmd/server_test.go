package cmd

import (
	"testing"

	"github.com/marcosfaria19/clarohub-sub000/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "server"}
	cmd.Flags().String("host", "0.0.0.0", "Server host")
	cmd.Flags().Int("port", 8080, "Server port")
	return cmd
}

// TestApplyServerFlags tests that --host and --port override the loaded
// config only when explicitly set on the command line.
func TestApplyServerFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "10.0.0.5"
	cfg.Server.Port = 9090

	// Flags left at their defaults: the config file values stand.
	cmd := newFlagCmd()
	applyServerFlags(cmd, cfg)
	assert.Equal(t, "10.0.0.5", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)

	// Explicit flags win over the file.
	cmd = newFlagCmd()
	require.NoError(t, cmd.Flags().Set("host", "127.0.0.1"))
	require.NoError(t, cmd.Flags().Set("port", "3000"))
	applyServerFlags(cmd, cfg)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
}

// TestDefaultSortFromConfig tests that configured sort fields survive the
// whitelist and unknown columns are dropped.
func TestDefaultSortFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Flow.DefaultSort = []config.SortFieldConfig{
		{Field: "idDemanda", Direction: "desc"},
		{Field: "drop table tasks", Direction: "asc"},
		{Field: "regional", Direction: "asc"},
	}

	got := defaultSortFromConfig(cfg)
	require.Len(t, got, 2)
	assert.Equal(t, "idDemanda", got[0].Field)
	assert.True(t, got[0].Desc())
	assert.Equal(t, "regional", got[1].Field)
}
