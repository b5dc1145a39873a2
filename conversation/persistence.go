package conversation

import (
	"encoding/json"
	"os"

	"github.com/poiesic/ragpipe/core"
)

// Save writes the log to filename as a JSON array of
// {role, content, timestamp} records, oldest first.
func (l *Log) Save(filename string) error {
	turns := l.Turns()

	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return core.NewHistorySaveError(filename, err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return core.NewHistorySaveError(filename, err)
	}
	return nil
}

// Load replaces the in-memory log wholesale with the contents of filename.
// On any failure the in-memory log is left unchanged.
func (l *Log) Load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return core.NewHistoryLoadError(filename, err)
	}

	var turns []core.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return core.NewHistoryLoadError(filename, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.retention > 0 && len(turns) > l.retention {
		turns = turns[len(turns)-l.retention:]
	}
	l.turns = turns
	return nil
}
