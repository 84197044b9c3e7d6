package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseToggle(t *testing.T) {
	SetVerbose(false)
	assert.False(t, verbose.Load())

	SetVerbose(true)
	assert.True(t, verbose.Load())

	SetVerbose(false)
}

func TestLoggerComponent(t *testing.T) {
	l := New("github")
	assert.Equal(t, "github", l.component)
}
