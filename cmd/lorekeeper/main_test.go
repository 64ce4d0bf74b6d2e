package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorekeeper/internal/engine"
	"lorekeeper/internal/save"
	"lorekeeper/internal/session"
)

func TestParseParamPairs(t *testing.T) {
	params, err := parseParamPairs([]string{"1=alpha", " 2 = beta ", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "alpha", "2": "beta"}, params)

	_, err = parseParamPairs([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseParamPairs([]string{"=x"})
	assert.Error(t, err)
}

func TestInitCreatesProjectAndSave(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	configPath = defaultConfigPath

	require.NoError(t, runInit("test-campaign", "Ash", true))

	_, err := os.Stat(filepath.Join(dir, "lorekeeper.yaml"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "sections.yaml"))
	require.NoError(t, err)

	p, err := loadProject()
	require.NoError(t, err)
	require.NotNil(t, p.sections)

	file, err := save.Read(p.cfg.Save)
	require.NoError(t, err)
	require.NotNil(t, file.Data.Player)
	assert.Equal(t, "Ash", file.Data.Player.Name)
	assert.Len(t, file.Header.SessionID, 26)

	assert.Error(t, runInit("test-campaign", "Ash", false), "config already exists")
}

func TestPrintTurn(t *testing.T) {
	result := &session.TurnResult{
		BatchID: "b1",
		Report: engine.Report{
			Outcomes: []engine.Outcome{
				{Index: 0, Kind: "npc_spawn", Status: engine.StatusApplied},
				{Index: 1, Kind: "npc_update", Status: engine.StatusRejected, Code: engine.CodeUnknownID, Message: "unknown npc ghost"},
			},
			Counts: engine.Counts{Applied: 1, Rejected: 1},
		},
	}

	var buf bytes.Buffer
	printTurn(&buf, result, false)

	out := buf.String()
	assert.Contains(t, out, "Batch b1: 1 applied, 1 rejected, 0 deferred")
	assert.Contains(t, out, "[1] npc_update rejected: unknown npc ghost (unknown_id)")
	assert.NotContains(t, out, "npc_spawn")
}
