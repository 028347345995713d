package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	SetLevel("debug")
	defer SetLevel("info")

	Debugf("drag %d", 3)
	Error("seek failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "drag 3")
	assert.Contains(t, out, "seek failed")
	assert.Contains(t, out, "boom")
}

func TestSetLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	SetLevel("warn")
	defer SetLevel("info")

	Infof("hidden")
	Warnf("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
