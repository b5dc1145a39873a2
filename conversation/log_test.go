package conversation

import (
	"sync"
	"testing"
	"time"

	"github.com/poiesic/ragpipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMessageOrdering(t *testing.T) {
	log := NewLog()
	log.AddMessage(core.RoleHuman, "Q1")
	log.AddMessage(core.RoleAssistant, "A1")
	log.AddMessage(core.RoleHuman, "Q2")

	assert.Equal(t, "human: Q1\nassistant: A1\nhuman: Q2", log.FormatHistory())

	turns := log.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "Q1", turns[0].Contents)
	assert.Equal(t, "A1", turns[1].Contents)
	assert.Equal(t, "Q2", turns[2].Contents)
}

func TestAddMessageTimestamps(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	log := NewLog(withClock(func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}))

	log.AddMessage(core.RoleHuman, "first")
	log.AddMessage(core.RoleAssistant, "second")

	turns := log.Turns()
	require.Len(t, turns, 2)
	assert.True(t, turns[0].Timestamp.Before(turns[1].Timestamp))
}

func TestFormatHistoryWindow(t *testing.T) {
	log := NewLog()
	log.AddMessage(core.RoleHuman, "one")
	log.AddMessage(core.RoleAssistant, "two")
	log.AddMessage(core.RoleHuman, "three")
	log.AddMessage(core.RoleAssistant, "four")
	log.AddMessage(core.RoleHuman, "five")
	log.AddMessage(core.RoleAssistant, "six")

	// Only the last five turns are rendered; the full log is retained.
	assert.Equal(t,
		"assistant: two\nhuman: three\nassistant: four\nhuman: five\nassistant: six",
		log.FormatHistory())
	assert.Equal(t, 6, log.Len())
}

func TestFormatHistoryCustomWindow(t *testing.T) {
	log := NewLog(WithWindow(2))
	log.AddMessage(core.RoleHuman, "a")
	log.AddMessage(core.RoleAssistant, "b")
	log.AddMessage(core.RoleHuman, "c")

	assert.Equal(t, "assistant: b\nhuman: c", log.FormatHistory())
}

func TestFormatHistoryEmpty(t *testing.T) {
	assert.Empty(t, NewLog().FormatHistory())
}

func TestRetention(t *testing.T) {
	log := NewLog(WithRetention(3))
	for _, msg := range []string{"1", "2", "3", "4", "5"} {
		log.AddMessage(core.RoleHuman, msg)
	}

	assert.Equal(t, 3, log.Len())
	turns := log.Turns()
	assert.Equal(t, "3", turns[0].Contents)
	assert.Equal(t, "5", turns[2].Contents)
}

func TestClear(t *testing.T) {
	log := NewLog()
	log.AddMessage(core.RoleHuman, "hello")
	log.Clear()

	assert.Zero(t, log.Len())
	assert.Empty(t, log.FormatHistory())
}

func TestConcurrentAppends(t *testing.T) {
	log := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.AddMessage(core.RoleHuman, "msg")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, log.Len())
}
