package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, data []byte) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(data, &resp), "not one JSON document:\n%s", data)
	return resp
}

func TestOutputFormatter_JSON(t *testing.T) {
	tests := []struct {
		name       string
		write      func(f *OutputFormatter) error
		wantStatus string
		wantCode   string
		wantDetail bool
	}{
		{
			name:       "success",
			write:      func(f *OutputFormatter) error { return f.Success(map[string]int{"cases": 29}) },
			wantStatus: "ok",
		},
		{
			name:       "error",
			write:      func(f *OutputFormatter) error { return f.Error("E005", "catalog directory not found", nil) },
			wantStatus: "error",
			wantCode:   "E005",
		},
		{
			name: "error with details",
			write: func(f *OutputFormatter) error {
				return f.Error("E006", "expected '}'", map[string]string{"file": "math.cue", "line": "12"})
			},
			wantStatus: "error",
			wantCode:   "E006",
			wantDetail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, tt.write(&OutputFormatter{Format: "json", Writer: buf}))

			resp := decodeResponse(t, buf.Bytes())
			assert.Equal(t, tt.wantStatus, resp.Status)
			if tt.wantCode == "" {
				assert.Nil(t, resp.Error)
				assert.NotNil(t, resp.Data)
				return
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantDetail, resp.Error.Details != nil)
		})
	}
}

func TestOutputFormatter_Text(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		write   func(f *OutputFormatter) error
		want    []string
		absent  []string
	}{
		{
			name:  "success prints data",
			write: func(f *OutputFormatter) error { return f.Success("All catalogs valid") },
			want:  []string{"All catalogs valid"},
		},
		{
			name:   "error hides details",
			write:  func(f *OutputFormatter) error { return f.Error("E104", "floats are not allowed", "math.cue") },
			want:   []string{"Error [E104]: floats are not allowed"},
			absent: []string{"Details:"},
		},
		{
			name:    "verbose error shows details",
			verbose: true,
			write:   func(f *OutputFormatter) error { return f.Error("E104", "floats are not allowed", "math.cue") },
			want:    []string{"Error [E104]", "Details: math.cue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, tt.write(&OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, buf.String(), a)
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		t.Run(fmt.Sprintf("verbose=%v", verbose), func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: verbose}

			f.VerboseLog("Compiled category: %s", "Mathematical Operations")

			assert.Empty(t, out.String())
			if verbose {
				assert.Equal(t, "Compiled category: Mathematical Operations\n", errOut.String())
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestOutputFormatter_GetErrWriterFallsBack(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out, Verbose: true}
	assert.Same(t, out, f.GetErrWriter())

	f.VerboseLog("found %d file(s)", 2)
	assert.Equal(t, "found 2 file(s)\n", out.String())
}

func TestOutputFormatter_PrintfSilentInJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}
	f.Printf("Starting Kitty run with %d submission(s)...\n", 2)
	assert.Empty(t, buf.String())

	f.Format = "text"
	f.Printf("Starting Kitty run with %d submission(s)...\n", 2)
	assert.Equal(t, "Starting Kitty run with 2 submission(s)...\n", buf.String())
}

func TestOutputFormatter_EncodeKeepsHTML(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, f.Success("a<b>&c"))
	assert.Contains(t, buf.String(), "a<b>&c")
}

func TestCLIResponse_RunIDRoundTrip(t *testing.T) {
	data, err := json.Marshal(CLIResponse{
		Status: "error",
		RunID:  "run-1",
		Error:  &CLIError{Code: "E_CASES_FAILED", Message: "1 submission(s) with failing cases, 0 skipped"},
	})
	require.NoError(t, err)

	resp := decodeResponse(t, data)
	assert.Equal(t, "run-1", resp.RunID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_CASES_FAILED", resp.Error.Code)
	assert.NotContains(t, string(data), `"data"`)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
		{"failure", NewExitError(ExitFailure, "cases failed"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "bad config"), ExitCommandError},
		{"wrapped", fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "db", errors.New("locked"))), ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	err := WrapExitError(ExitCommandError, "failed to open database", errors.New("locked"))
	assert.Equal(t, "failed to open database: locked", err.Error())
	assert.ErrorContains(t, errors.Unwrap(err), "locked")
	assert.Equal(t, "no submissions to run", NewExitError(ExitCommandError, "no submissions to run").Error())
}
