package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGradeCmd_JSON(t *testing.T) {
	path := writeFile(t, `[
		{"claim":"a","verdict":"True"},
		{"claim":"b","verdict":"Approximately True"}
	]`)

	out, err := execute(t, "", "grade", path, "--json")
	require.NoError(t, err)

	var got jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "B", got.Report.Letter)
	assert.Equal(t, "8.8", got.Report.ScoreLabel)
	require.Len(t, got.Chart, 2)
	assert.Equal(t, "Approx. True", got.Chart[1].Label)
}

func TestGradeCmd_LegacyFieldFromStdin(t *testing.T) {
	doc := `{"results":[{"claim":"a","verification":"False"}]}`

	out, err := execute(t, doc, "grade", "-", "--field", "verification", "--json")
	require.NoError(t, err)
	var got jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "F", got.Report.Letter)

	out, err = execute(t, doc, "grade", "-", "--field", "verdict", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "N/A", got.Report.Letter)
}

func TestGradeCmd_NonStringVerdicts(t *testing.T) {
	path := writeFile(t, `{"results":[{"claim":"a","verdict":"False"},{"claim":"b","verdict":false}]}`)

	out, err := execute(t, "", "grade", path, "--json")
	require.NoError(t, err)
	var got jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "F", got.Report.Letter)
	assert.Equal(t, 2, got.Report.Total)
	assert.Equal(t, 1, got.Report.Verifiable)
}

func TestGradeCmd_Render(t *testing.T) {
	path := writeFile(t, `[{"claim":"Water boils at 100C","verdict":"True"}]`)
	out, err := execute(t, "", "grade", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Water boils at 100C")
	assert.Contains(t, out, "10.0/10")
}

func TestGradeCmd_BadPolicy(t *testing.T) {
	path := writeFile(t, `[]`)
	_, err := execute(t, "", "grade", path, "--policy", "coin-flip")
	assert.Error(t, err)
}

func TestCheckCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/fact-check", r.URL.Path)
		_, _ = w.Write([]byte(`[{"claim":"Pi is 3.14","verdict":"Approximately True"}]`))
	}))
	defer srv.Close()

	out, err := execute(t, "Pi is 3.14 and more", "check", "--api", srv.URL, "--json")
	require.NoError(t, err)
	var got jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "B", got.Report.Letter)
	require.Len(t, got.Results, 1)
}

func TestCheckCmd_NoText(t *testing.T) {
	_, err := execute(t, "   ", "check", "-")
	assert.EqualError(t, err, "no text to check")
}
