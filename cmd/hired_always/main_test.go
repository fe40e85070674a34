package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hired-always/internal/jobinfo"
	"github.com/jonathan/hired-always/internal/platform"
	"github.com/jonathan/hired-always/internal/tracker"
)

const applyPage = `<html><head><title>Staff Engineer - Acme</title></head><body>
<h1>Staff Engineer</h1>
<form>
	<label for="first">First Name</label><input id="first">
	<label for="last">Last Name</label><input id="last">
	<label for="email">Email</label><input id="email" type="email">
</form></body></html>`

const postingURL = "https://boards.greenhouse.io/acme/jobs/1"

// env is an isolated working area: its own profile, tracker and no secrets.
type env struct {
	dir  string
	page string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HIRED_TOKEN", "")
	e := &env{dir: t.TempDir()}
	e.page = filepath.Join(e.dir, "apply.html")
	require.NoError(t, os.WriteFile(e.page, []byte(applyPage), 0644))
	return e
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := e.runAll(t, args...)
	return stdout, err
}

func (e *env) runAll(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args,
		"--profile", filepath.Join(e.dir, "profile.yaml"),
		"--tracker", filepath.Join(e.dir, "tracker.db"),
	))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func TestFieldsCommand(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "fields", "--html", e.page, "--page-url", postingURL)

	var got fieldsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, postingURL, got.URL)
	assert.Equal(t, platform.Greenhouse, got.Platform)
	require.Len(t, got.Fields, 3)
	assert.Equal(t, "First Name", got.Fields[0].Label)
	assert.Empty(t, got.Frames)
}

func TestExtractCommand(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "extract", "--html", e.page, "--page-url", postingURL)
	var info jobinfo.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "Staff Engineer", info.Position)
	assert.Equal(t, "Acme", info.Company)

	out = e.mustRun(t, "extract", "--html", e.page, "--page-url", postingURL, "--track")
	var tracked tracker.Application
	require.NoError(t, json.Unmarshal([]byte(out), &tracked))
	assert.Equal(t, "Acme", tracked.Company)
	assert.Equal(t, postingURL, tracked.JobURL)
	assert.Equal(t, tracker.StatusApplied, tracked.Status)
}

func TestExtractCommand_Verbose(t *testing.T) {
	e := newEnv(t)

	stdout, stderr, err := e.runAll(t, "extract", "--html", e.page, "--page-url", postingURL, "-v")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "{"), "JSON stays on stdout")
	assert.Contains(t, stderr, "EXTRACTED JOB")
	assert.Contains(t, stderr, "Company:  Acme")
	assert.Contains(t, stderr, "level=DEBUG", "verbose enables debug logging")
}

func TestFillCommand_Offline(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "profile", "init", "--first-name", "Jane", "--last-name", "Doe", "--email", "jane@example.com")

	filled := filepath.Join(e.dir, "filled.html")
	out := e.mustRun(t, "fill", "--html", e.page, "--page-url", postingURL, "--out", filled)
	assert.Contains(t, out, "Found 3 fields")
	assert.Contains(t, out, "Filled 3 of 3 fields")

	data, err := os.ReadFile(filled)
	require.NoError(t, err)
	assert.Contains(t, string(data), `value="Jane"`)
	assert.Contains(t, string(data), `value="jane@example.com"`)
}

func TestProfileCommands(t *testing.T) {
	e := newEnv(t)

	e.mustRun(t, "profile", "init", "--first-name", "Jane", "--last-name", "Doe", "--city", "Austin")
	out := e.mustRun(t, "profile", "check")
	assert.Contains(t, out, "is valid (4 answers)")
	assert.Contains(t, out, "  fullName: Jane Doe\n")

	_, err := e.run(t, "profile", "init", "--first-name", "Jo", "--last-name", "Roe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = e.run(t, "profile", "init", "--first-name", "Jo", "--last-name", "Roe", "--email", "nope", "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
}

func TestTrackCommands(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "track", "add", "--company", "Acme", "--position", "Staff Engineer", "--date", "2024-03-01")
	var added tracker.Application
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	e.mustRun(t, "track", "add", "--company", "Globex", "--position", "Analyst", "--status", "offer")

	out = e.mustRun(t, "track", "status", added.ID.String(), "interview", "--note", "Onsite next week")
	var moved tracker.Application
	require.NoError(t, json.Unmarshal([]byte(out), &moved))
	assert.Equal(t, tracker.StatusInterview, moved.Status)

	out = e.mustRun(t, "track", "list")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Interview")
	assert.Contains(t, out, "2 total, 1 active, 1 interviewing, 1 offers")

	out = e.mustRun(t, "track", "list", "--json", "--search", "glob")
	var listed []tracker.Application
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Globex", listed[0].Company)

	export := filepath.Join(e.dir, "export.json")
	e.mustRun(t, "track", "export", "--out", export)
	out = e.mustRun(t, "track", "delete", added.ID.String())
	assert.Equal(t, "Deleted "+added.ID.String()+"\n", out)

	out = e.mustRun(t, "track", "import", export)
	assert.Equal(t, "Imported 2 applications\n", out)
	out = e.mustRun(t, "track", "list", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed, 3)
}

func TestCommand_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{name: "fields without source", args: []string{"fields"}, errorString: "either --html or --url"},
		{name: "fields with both sources", args: []string{"fields", "--html", "a.html", "--url", "https://x.test"},
			errorString: "none of the others can be"},
		{name: "fill without target", args: []string{"fill"}, errorString: "exactly one of --url or --html"},
		{name: "fill html without out", args: []string{"fill", "--html", "a.html"}, errorString: "--out is required"},
		{name: "track add missing company", args: []string{"track", "add", "--position", "x"},
			errorString: `required flag(s) "company" not set`},
		{name: "track status bad id", args: []string{"track", "status", "abc", "offer"},
			errorString: `invalid application id "abc"`},
		{name: "track status bad status", args: []string{"track", "status", "9b2f6c1e-3f53-4c1a-9e43-0d8f7a1d2b3c", "ghosted"},
			errorString: "ghosted"},
		{name: "track list bad sort", args: []string{"track", "list", "--sort", "salary"}, errorString: "unknown sort"},
		{name: "bad timeout", args: []string{"fields", "--timeout", "soon"}, errorString: "Timeout"},
		{name: "missing config", args: []string{"fields", "--config", "/nonexistent/config.json"},
			errorString: "failed to load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			_, err := e.run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfigFile_FlagsWin(t *testing.T) {
	e := newEnv(t)
	cfgPath := filepath.Join(e.dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"timeout": "soon"}`), 0644))

	_, err := e.run(t, "fields", "--html", e.page, "--config", cfgPath)
	require.Error(t, err, "invalid file value is rejected")

	out, err := e.run(t, "fields", "--html", e.page, "--config", cfgPath, "--timeout", "5s")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"))
}
