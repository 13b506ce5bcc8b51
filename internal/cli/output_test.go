package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/rsvp"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(map[string]string{"joined": "c1"}, nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"joined": "c1"}, resp.Data)
}

func TestOutputFormatter_YAMLUsesWireNames(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "yaml", Writer: buf}

	ev := model.Event{ID: "e1", Title: "Picnic", Organizer: model.RefOf[model.User]("u1")}
	require.NoError(t, formatter.Success(ev, nil))

	var doc struct {
		Status string         `yaml:"status"`
		Data   map[string]any `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "ok", doc.Status)
	assert.Equal(t, "e1", doc.Data["_id"])
	assert.Equal(t, "u1", doc.Data["organizer"])
}

func TestOutputFormatter_TextUsesRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Success("ignored", func(w io.Writer) error {
		_, err := io.WriteString(w, "rendered\n")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "rendered\n", buf.String())
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}

	require.NoError(t, formatter.Error("rejected", "Event is full", []string{"capacity reached"}))
	assert.Empty(t, out.String())
	assert.Equal(t, "Error [rejected]: Event is full\n  - capacity reached\n", errOut.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}

	formatter.VerboseLog("hidden %d", 1)
	formatter.Verbose = true
	formatter.VerboseLog("shown %d", 2)

	assert.Empty(t, out.String())
	assert.Equal(t, "shown 2\n", errOut.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "failed")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", WrapExitError(ExitCommandError, "config", io.EOF))))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New(`unknown command "nope"`)))
}

func TestReport(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"usage", usagef("bad flag"), ExitCommandError, "usage"},
		{"rejected", &api.Error{Op: "rsvp.set", Status: 400, Message: "Event is full"}, ExitFailure, "rejected"},
		{"unauthorized", &api.Error{Op: "rsvp.set", Status: 401}, ExitFailure, "unauthorized"},
		{"network", fmt.Errorf("events.list: %w", api.ErrTransport), ExitFailure, "network"},
		{"cooling down", rsvp.ErrCoolingDown, ExitFailure, "busy"},
		{"blank code", rsvp.ErrEmptyCode, ExitCommandError, "usage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: buf}

			err := report(formatter, tt.err)
			assert.Equal(t, tt.wantCode, GetExitCode(err))
			assert.ErrorIs(t, err, tt.err)

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantKind, resp.Error.Code)
		})
	}

	t.Run("bare exit error is not printed twice", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := report(&OutputFormatter{Format: "json", Writer: buf}, NewExitError(ExitFailure, "some check-ins failed"))
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Empty(t, buf.String())
	})

	t.Run("backend message wins", func(t *testing.T) {
		buf := &bytes.Buffer{}
		_ = report(&OutputFormatter{Format: "json", Writer: buf},
			&api.Error{Op: "rsvp.set", Status: 400, Message: "Validation failed", Errors: []string{"status is required"}})

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "Validation failed", resp.Error.Message)
		assert.Equal(t, []string{"status is required"}, resp.Error.Details)
	})
}
