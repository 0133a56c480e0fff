package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-layout-analyzer/internal/pdf"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdftest"
)

func fixture() pdftest.Doc {
	return pdftest.Doc{
		Pages: []pdftest.Page{pdftest.Letter(
			pdftest.Text(72, 700, 12, "a. Name") +
				pdftest.Grid(50, 400, []float64{100, 100}, []float64{30, 30, 30}),
		)},
		Fields: []pdftest.Field{
			{Name: "name", Type: "Tx", Value: "(John)", Widget: &pdftest.Widget{Page: 0, Rect: [4]float64{150, 698, 350, 718}}},
		},
	}
}

type decodedResult struct {
	FilePath string `json:"file_path"`
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Result   *struct {
		FileName string              `json:"file_name"`
		Summary  pdf.AnalysisSummary `json:"analysis_summary"`
	} `json:"result"`
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run("pdf_analyze", args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_JSON(t *testing.T) {
	path := fixture().WriteFile(t, "form.pdf")

	code, stdout, stderr := runCLI(t, path)
	require.Equal(t, 0, code, stderr)

	var results []decodedResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	require.NotNil(t, results[0].Result)
	assert.Equal(t, "form.pdf", results[0].Result.FileName)
	assert.Equal(t, pdf.AnalysisSummary{
		HasAcroForm:           true,
		InteractiveFieldCount: 1,
		PageCount:             1,
		TableCount:            1,
	}, results[0].Result.Summary)
}

func TestRun_Text(t *testing.T) {
	path := fixture().WriteFile(t, "form.pdf")

	code, stdout, stderr := runCLI(t, "--format=text", "--diagnostic", path)
	require.Equal(t, 0, code, stderr)

	for _, want := range []string{
		"pages: 1",
		"acroform: true (1 fields)",
		"interactive fields: 1",
		"tables: 1",
		"table 3x2",
		`name (text) = "John"`,
		"diagnostics: none",
	} {
		assert.Contains(t, stdout, want)
	}
}

func TestRun_DirectoryKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	data := fixture().Bytes()
	for _, name := range []string{"c.pdf", "a.pdf", "b.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	code, stdout, stderr := runCLI(t, "--concurrency=2", dir)
	require.Equal(t, 0, code, stderr)

	var results []decodedResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 3)
	assert.Equal(t, "a.pdf", filepath.Base(results[0].FilePath))
	assert.Equal(t, "b.PDF", filepath.Base(results[1].FilePath))
	assert.Equal(t, "c.pdf", filepath.Base(results[2].FilePath))
}

func TestRun_FailedFile(t *testing.T) {
	good := fixture().WriteFile(t, "good.pdf")
	bad := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("%PDF-1.4 truncated"), 0o644))

	code, stdout, _ := runCLI(t, good, bad)
	assert.Equal(t, 1, code)

	var results []decodedResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)
	assert.Nil(t, results[1].Result)
}

func TestRun_UsageErrors(t *testing.T) {
	path := fixture().WriteFile(t, "form.pdf")

	tests := []struct {
		name    string
		args    []string
		code    int
		wantErr string
	}{
		{name: "no inputs", args: nil, code: 2, wantErr: "no input files"},
		{name: "bad format", args: []string{"--format=xml", path}, code: 2, wantErr: "unsupported output format"},
		{name: "bad concurrency", args: []string{"--concurrency=0", path}, code: 2, wantErr: "concurrency"},
		{name: "unknown flag", args: []string{"--nope", path}, code: 2, wantErr: "unknown flag"},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "missing.pdf")}, code: 1, wantErr: "cannot access"},
		{name: "empty directory", args: []string{t.TempDir()}, code: 1, wantErr: "no PDF files found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "Usage: pdf_analyze")
}
