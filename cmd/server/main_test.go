package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRejectsUnknownAction(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "sideways"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestRootRegistersCommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"serve", "migrate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}
