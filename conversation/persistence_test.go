package conversation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/ragpipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	log := NewLog()
	log.AddMessage(core.RoleHuman, "Q1")
	log.AddMessage(core.RoleAssistant, "A1")
	log.AddMessage(core.RoleHuman, "Q2")
	before := log.Turns()

	require.NoError(t, log.Save(path))
	log.Clear()
	require.Zero(t, log.Len())
	require.NoError(t, log.Load(path))

	after := log.Turns()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Role, after[i].Role)
		assert.Equal(t, before[i].Contents, after[i].Contents)
		assert.True(t, before[i].Timestamp.Equal(after[i].Timestamp))
	}
}

func TestLoadReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	saved := NewLog()
	saved.AddMessage(core.RoleHuman, "from file")
	require.NoError(t, saved.Save(path))

	log := NewLog()
	log.AddMessage(core.RoleHuman, "in memory")
	log.AddMessage(core.RoleAssistant, "also in memory")
	require.NoError(t, log.Load(path))

	turns := log.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "from file", turns[0].Contents)
}

func TestLoadAppliesRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	saved := NewLog()
	for _, contents := range []string{"Q1", "A1", "Q2", "A2", "Q3", "A3"} {
		saved.AddMessage(core.RoleHuman, contents)
	}
	require.NoError(t, saved.Save(path))

	bounded := NewLog(WithRetention(3))
	require.NoError(t, bounded.Load(path))

	turns := bounded.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "A2", turns[0].Contents)
	assert.Equal(t, "Q3", turns[1].Contents)
	assert.Equal(t, "A3", turns[2].Contents)
}

func TestLoadFailureLeavesStateUnchanged(t *testing.T) {
	log := NewLog()
	log.AddMessage(core.RoleHuman, "keep me")

	t.Run("missing file", func(t *testing.T) {
		err := log.Load(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Equal(t, core.CodeHistoryLoad, core.CodeOf(err))
		assert.Equal(t, 1, log.Len())
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		err := log.Load(path)
		require.Error(t, err)
		assert.Equal(t, core.CodeHistoryLoad, core.CodeOf(err))
		assert.Equal(t, 1, log.Len())
		assert.Equal(t, "keep me", log.Turns()[0].Contents)
	})
}

func TestSaveFailure(t *testing.T) {
	log := NewLog()
	log.AddMessage(core.RoleHuman, "hello")

	err := log.Save(filepath.Join(t.TempDir(), "missing-dir", "history.json"))
	require.Error(t, err)
	assert.Equal(t, core.CodeHistorySave, core.CodeOf(err))
}
