package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{JSON: true, Out: &buf})

	l.Info().Str("phase", "targets").Msg("planning")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "planning", rec["message"])
	assert.Equal(t, "targets", rec["phase"])
	assert.Len(t, rec["run_id"], 36)
}

func TestNew_LevelFollowsDebug(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		visible bool
	}{
		{"info level hides debug", false, false},
		{"debug level shows debug", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Options{Debug: tt.debug, JSON: true, Out: &buf})
			l.Debug().Msg("detail")
			assert.Equal(t, tt.visible, strings.Contains(buf.String(), "detail"))
		})
	}
}

func TestNew_ConsoleWriterWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{NoColor: true, Out: &buf})

	l.Warn().Msg("both --confirm and --dryrun given")

	out := buf.String()
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "both --confirm and --dryrun given")
	assert.NotContains(t, out, "\x1b[")
}

func TestInit_ReplacesGlobal(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{JSON: true, Out: &buf})
	t.Cleanup(func() { Init(Options{JSON: true, Out: &bytes.Buffer{}}) })

	Warn().Msg("hello")

	assert.Contains(t, buf.String(), `"message":"hello"`)
}
