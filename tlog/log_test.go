package tlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogBuffersUntilFlush(t *testing.T) {
	defer SetHandler(nil)
	var got []Entry
	SetHandler(func(e Entry) { got = append(got, e) })

	Log("worker-0", Info, "started")
	Log("worker-1", Warning, "too slow")
	assert.Equal(t, 2, Pending())
	assert.Empty(t, got)

	Flush()
	assert.Equal(t, 0, Pending())
	assert.Len(t, got, 2)
}

func TestFlushWithoutHandlerDropsSilently(t *testing.T) {
	defer SetHandler(nil)
	SetHandler(nil)
	Log("gravity", ErrorLevel, "game over")
	assert.NotPanics(t, Flush)
	assert.Equal(t, 0, Pending())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "INFO", Info.String())
	assert.Equal(t, "WARN", Warning.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
}
