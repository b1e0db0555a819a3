package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "Nagaland trip planner v0.1.0")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(60)
	out, err := render("# Kohima\n\nCapital city.")
	require.NoError(t, err)
	assert.Contains(t, out, "Kohima")
	assert.Contains(t, out, "Capital city.")
}
