package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "stackup", cmd.Use)
	assert.Equal(t, "Provision a containerized developer toolchain on this host", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"up",
		"render",
		"report",
		"version",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
}

func TestUp_Flags(t *testing.T) {
	cmd := Up()

	require.NotNil(t, cmd.Flags().Lookup("config"))
	require.NotNil(t, cmd.Flags().Lookup("domains"))
	assert.Equal(t, "c", cmd.Flags().Lookup("config").Shorthand)
}

func TestRender_Flags(t *testing.T) {
	cmd := Render()

	require.NotNil(t, cmd.Flags().Lookup("config"))
	require.NotNil(t, cmd.Flags().Lookup("output"))
	assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
}
