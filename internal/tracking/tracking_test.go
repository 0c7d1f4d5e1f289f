package tracking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisabledTrackerIsNoop(t *testing.T) {
	tr := New("", "test")
	assert.False(t, tr.Enabled())

	tr.CaptureException(errors.New("boom"), map[string]string{"path": "/api/tasks"})
	assert.True(t, tr.Flush(time.Millisecond))
	tr.Close()
}

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	assert.False(t, tr.Enabled())
	tr.CaptureException(errors.New("boom"), nil)
	assert.True(t, tr.Flush(time.Millisecond))
}
