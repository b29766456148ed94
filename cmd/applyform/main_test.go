package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-applyform/pkg/submit"
	"github.com/goliatone/go-applyform/pkg/submit/submittest"
)

const validApplication = `firstName: Jane
lastName: Doe
email: jane@doe.com
phone: "+44 1234 567890"
qualification: Bachelor's Degree
grade: First
preferredUniversities:
  - University of Oxford
  - Sorbonne
desiredCourse: Law
justification: I have excelled academically for years.
benefit: It will let me study at a world class university.
`

func setupEnv(t *testing.T, submitURL string) {
	t.Helper()
	t.Setenv("APPLYFORM_SUBMIT_URL", submitURL)
	t.Setenv("APPLYFORM_SUBMIT_PATH", "")
	t.Setenv("APPLYFORM_SUBMIT_FORMAT", "")
	t.Setenv("APPLYFORM_CATALOG_DIR", "")
	t.Setenv("APPLYFORM_VALIDATE_CONTRACT", "true")
	t.Setenv("APPLYFORM_FORM_ID", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENVIRONMENT", "test")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	setupEnv(t, "http://localhost:3000")

	out, err := run(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "courses")
	assert.Contains(t, out, "universities")
	assert.Contains(t, out, "qualifications")

	out, err = run(t, "catalog", "courses", "--search", "ENG")
	require.NoError(t, err)
	assert.Equal(t, "Engineering\n", out)

	_, err = run(t, "catalog", "missing")
	require.ErrorContains(t, err, `unknown catalog "missing"`)
}

func TestValidateCommand(t *testing.T) {
	setupEnv(t, "http://localhost:3000")

	path := writeFile(t, "app.yaml", validApplication)
	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := writeFile(t, "bad.json", `{"firstName": "Jane", "email": "nope", "preferredUniversities": []}`)
	out, err = run(t, "validate", bad)
	require.ErrorIs(t, err, errInvalidApplication)
	assert.Contains(t, out, "Email: Enter a valid email address")
	assert.Contains(t, out, "Last Name: Last Name is required")
	assert.Contains(t, out, "At least one university must be selected")
}

func TestValidateCommandRejectsUnknownFields(t *testing.T) {
	setupEnv(t, "http://localhost:3000")

	path := writeFile(t, "app.yaml", validApplication+"nickname: JD\n")
	_, err := run(t, "validate", path)
	require.ErrorContains(t, err, "nickname")
}

func TestSubmitCommandDryRun(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	path := writeFile(t, "app.yaml", validApplication)
	out, err := run(t, "submit", "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[success] Successfully applied!")
	assert.Contains(t, out, "dry run: application/json")
	assert.Contains(t, out, "preferredUniversities: University of Oxford, Sorbonne")
	assert.Contains(t, out, "formId: scholarship.apply")
	assert.Contains(t, out, "source: applyform-cli")
	assert.Contains(t, out, "Thank you, Jane!")
}

func TestSubmitCommandDryRunFormEncoding(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")
	t.Setenv("APPLYFORM_SUBMIT_FORMAT", "form")

	path := writeFile(t, "app.yaml", validApplication)
	out, err := run(t, "submit", "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "dry run: application/x-www-form-urlencoded")
	assert.Contains(t, out, "preferredUniversities: University of Oxford, Sorbonne")
	assert.Contains(t, out, "source: applyform-cli")
}

func TestSubmitCommandRejected(t *testing.T) {
	srv := submittest.NewServer(submittest.WithResponder(submittest.Reject()))
	t.Cleanup(srv.Close)
	setupEnv(t, srv.URL)

	path := writeFile(t, "app.yaml", validApplication)
	out, err := run(t, "submit", path)
	require.Error(t, err)
	assert.True(t, submit.IsRejected(err))
	assert.Contains(t, out, "[error] Submission failed. Please try again.")

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "applyform-cli", reqs[0].Payload["source"])
	assert.Equal(t, "scholarship.apply", reqs[0].Payload["formId"])
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "applyform dev")
}
