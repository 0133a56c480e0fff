package mcp

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-layout-analyzer/internal/config"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/extraction"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdftest"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Mode:         config.ModeStdio,
		Host:         "127.0.0.1",
		Port:         8080,
		PDFDirectory: dir,
		Version:      "1.0.0",
		ServerName:   "test-server",
		LogLevel:     "info",
		MaxFileSize:  1024 * 1024,
	}
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := testConfig(dir)

	pdfService, err := pdf.NewService(cfg.MaxFileSize, dir, nil, false)
	require.NoError(t, err)

	server, err := NewServer(cfg, pdfService)
	require.NoError(t, err)
	return server, dir
}

func writeFormFixture(t *testing.T, dir, name string) string {
	t.Helper()
	doc := pdftest.Doc{
		Pages: []pdftest.Page{pdftest.Letter(
			pdftest.Text(72, 700, 12, "b. Signature") + pdftest.Line(160, 698, 360, 698),
		)},
		Fields: []pdftest.Field{
			{Name: "signer", Type: "Tx", Value: "(Grace)", Widget: &pdftest.Widget{Page: 0, Rect: [4]float64{160, 698, 360, 716}}},
		},
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, doc.Bytes(), 0o644))
	return path
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	dir := t.TempDir()
	pdfService, err := pdf.NewService(1024, dir, nil, false)
	require.NoError(t, err)

	tests := []struct {
		name      string
		config    *config.Config
		service   *pdf.Service
		wantError bool
	}{
		{name: "stdio mode", config: testConfig(dir), service: pdfService},
		{name: "server mode", config: func() *config.Config {
			c := testConfig(dir)
			c.Mode = config.ModeServer
			return c
		}(), service: pdfService},
		{name: "nil config", config: nil, service: pdfService, wantError: true},
		{name: "nil service", config: testConfig(dir), service: nil, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewServer(tt.config, tt.service)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, server)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.config, server.config)
			assert.Same(t, tt.service, server.pdfService)
			assert.NotNil(t, server.mcpServer)
		})
	}
}

func TestServer_HandlePDFAnalyzeLayout(t *testing.T) {
	server, dir := newTestServer(t)
	writeFormFixture(t, dir, "form.pdf")

	result, err := server.handlePDFAnalyzeLayout(context.Background(), callRequest(map[string]interface{}{
		"path": "form.pdf",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	var decoded struct {
		FileName       string                  `json:"file_name"`
		Summary        pdf.AnalysisSummary     `json:"analysis_summary"`
		TextContent    extraction.TextContent  `json:"text_content"`
		VisualElements []extraction.PageShapes `json:"visual_elements"`
	}
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &decoded))

	assert.Equal(t, "form.pdf", decoded.FileName)
	assert.Equal(t, pdf.AnalysisSummary{
		HasAcroForm:           true,
		InteractiveFieldCount: 1,
		PageCount:             1,
		TableCount:            0,
	}, decoded.Summary)
	require.Len(t, decoded.TextContent.Pages, 1)
	tokens := decoded.TextContent.Pages[0].TextAndCoords
	require.NotEmpty(t, tokens)
	assert.Equal(t, "b.", tokens[0].Text)
	assert.True(t, tokens[0].IsListMarker)
	require.Len(t, decoded.VisualElements, 1)
	assert.Len(t, decoded.VisualElements[0].Lines, 1)
}

func TestServer_HandlePDFAnalyzeLayout_Errors(t *testing.T) {
	server, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake.pdf"), []byte("not a pdf at all"), 0o644))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{name: "missing path", args: map[string]interface{}{}},
		{name: "missing file", args: map[string]interface{}{"path": "nope.pdf"}},
		{name: "outside directory", args: map[string]interface{}{"path": "/etc/passwd"}},
		{name: "not a pdf", args: map[string]interface{}{"path": "fake.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handlePDFAnalyzeLayout(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestServer_HandlePDFValidateFile(t *testing.T) {
	server, dir := newTestServer(t)
	writeFormFixture(t, dir, "form.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.pdf"), make([]byte, 1024), 0o644))

	tests := []struct {
		name     string
		path     string
		contains string
	}{
		{name: "valid", path: "form.pdf", contains: "is valid and readable (1 pages)"},
		{name: "zero bytes content", path: "test.pdf", contains: "PDF validation failed"},
		{name: "outside directory", path: "/etc/hosts", contains: "security validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handlePDFValidateFile(context.Background(), callRequest(map[string]interface{}{
				"path": tt.path,
			}))
			require.NoError(t, err)
			assert.Contains(t, extractTextFromResult(result), tt.contains)
		})
	}
}

func TestServer_HandlePDFServerInfo(t *testing.T) {
	server, dir := newTestServer(t)
	writeFormFixture(t, dir, "form.pdf")

	result, err := server.handlePDFServerInfo(context.Background(), callRequest(nil))
	require.NoError(t, err)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "test-server v1.0.0")
	assert.Contains(t, text, "1. form.pdf")
	for _, tool := range []string{"pdf_analyze_layout", "pdf_validate_file", "pdf_server_info"} {
		assert.Contains(t, text, tool)
	}
	assert.Contains(t, text, "Usage Guide")
}

func TestFormatPDFServerInfoResult_Truncates(t *testing.T) {
	server, _ := newTestServer(t)

	files := make([]pdf.FileInfo, 12)
	for i := range files {
		files[i] = pdf.FileInfo{Name: "f.pdf", Size: 10}
	}
	text := server.formatPDFServerInfoResult(&pdf.PDFServerInfoResult{
		ServerName:        "s",
		Version:           "1",
		MaxFileSize:       2 * 1024 * 1024,
		DirectoryContents: files,
	})

	assert.Contains(t, text, "Max File Size: 2 MB")
	assert.Contains(t, text, "(12 PDF files found)")
	assert.Contains(t, text, "... and 2 more files")
}

func TestServer_Run_ServerModeShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	server, _ := newTestServer(t)
	server.config.Mode = config.ModeServer
	server.config.Port = port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// Helper function to extract text from a CallToolResult
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
