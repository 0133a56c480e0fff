package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a3tai/pdf-layout-analyzer/internal/pdftest"
)

func TestValidator_ValidateFile(t *testing.T) {
	validator := NewValidator(1024 * 1024) // 1MB limit

	tempDir := t.TempDir()
	validPath := pdftest.Doc{Pages: []pdftest.Page{pdftest.Letter(""), pdftest.Letter("")}}.WriteFile(t, "valid.pdf")
	fakePath := filepath.Join(tempDir, "fake.pdf")
	if err := os.WriteFile(fakePath, []byte("This is not a PDF file"), 0o644); err != nil {
		t.Fatalf("failed to create fake PDF: %v", err)
	}

	tests := []struct {
		name        string
		req         PDFValidateFileRequest
		expectValid bool
		expectPages int
	}{
		{
			name: "empty path",
			req: PDFValidateFileRequest{
				Path: "",
			},
			expectValid: false,
		},
		{
			name: "non-existent file",
			req: PDFValidateFileRequest{
				Path: "/non/existent/file.pdf",
			},
			expectValid: false,
		},
		{
			name: "PDF extension but not PDF content",
			req: PDFValidateFileRequest{
				Path: fakePath,
			},
			expectValid: false,
		},
		{
			name: "valid PDF",
			req: PDFValidateFileRequest{
				Path: validPath,
			},
			expectValid: true,
			expectPages: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(tt.req)
			if err != nil {
				t.Errorf("unexpected error: %v", err) // ValidateFile doesn't return processing errors
			}

			if result == nil {
				t.Fatalf("result should not be nil")
			}

			if result.Valid != tt.expectValid {
				t.Errorf("expected Valid=%v but got %v (%s)", tt.expectValid, result.Valid, result.Message)
			}

			if result.Path != tt.req.Path {
				t.Errorf("expected Path=%s but got %s", tt.req.Path, result.Path)
			}

			if result.Pages != tt.expectPages {
				t.Errorf("expected Pages=%d but got %d", tt.expectPages, result.Pages)
			}

			if !tt.expectValid && result.Message == "" {
				t.Errorf("expected validation message for invalid file")
			}
		})
	}
}

func TestValidator_ValidateFileInfo(t *testing.T) {
	validator := NewValidator(1024 * 1024) // 1MB limit

	// Create a temporary directory and files for testing
	tempDir, err := os.MkdirTemp("", "pdf_validator_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Create test files
	validPDFPath := filepath.Join(tempDir, "valid.pdf")
	largePDFPath := filepath.Join(tempDir, "large.pdf")
	emptyPDFPath := filepath.Join(tempDir, "empty.pdf")
	nonPDFPath := filepath.Join(tempDir, "document.txt")

	// Create files with different sizes
	if err := os.WriteFile(validPDFPath, make([]byte, 1024), 0o644); err != nil {
		t.Fatalf("failed to create valid PDF: %v", err)
	}
	if err := os.WriteFile(largePDFPath, make([]byte, 2*1024*1024), 0o644); err != nil {
		t.Fatalf("failed to create large PDF: %v", err)
	}
	if err := os.WriteFile(emptyPDFPath, []byte{}, 0o644); err != nil {
		t.Fatalf("failed to create empty PDF: %v", err)
	}
	if err := os.WriteFile(nonPDFPath, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("failed to create non-PDF: %v", err)
	}

	tests := []struct {
		name        string
		filePath    string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid PDF file",
			filePath:    validPDFPath,
			expectError: false,
		},
		{
			name:        "large PDF file",
			filePath:    largePDFPath,
			expectError: true,
			errorMsg:    "file too large",
		},
		{
			name:        "empty PDF file",
			filePath:    emptyPDFPath,
			expectError: true,
			errorMsg:    "file is empty",
		},
		{
			name:        "non-PDF file",
			filePath:    nonPDFPath,
			expectError: true,
			errorMsg:    "file is not a PDF",
		},
		{
			name:        "directory instead of file",
			filePath:    tempDir,
			expectError: true,
			errorMsg:    "path is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileInfo, err := os.Stat(tt.filePath)
			if err != nil {
				t.Fatalf("failed to stat file: %v", err)
			}

			err = validator.ValidateFileInfo(tt.filePath, fileInfo)

			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.expectError && tt.errorMsg != "" {
				if err == nil || err.Error() == "" {
					t.Errorf("expected error message containing '%s'", tt.errorMsg)
				}
			}
		})
	}
}

func TestValidator_ReadFile(t *testing.T) {
	validator := NewValidator(1024) // Small limit for testing

	tempDir := t.TempDir()
	smallPath := filepath.Join(tempDir, "small.pdf")
	bigPath := filepath.Join(tempDir, "big.pdf")
	if err := os.WriteFile(smallPath, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("failed to setup test file: %v", err)
	}
	if err := os.WriteFile(bigPath, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("failed to setup test file: %v", err)
	}

	tests := []struct {
		name        string
		filePath    string
		expectError bool
		errorMsg    string
	}{
		{name: "empty path", filePath: "", expectError: true, errorMsg: "path cannot be empty"},
		{name: "missing file", filePath: filepath.Join(tempDir, "missing.pdf"), expectError: true, errorMsg: "file does not exist"},
		{name: "too large", filePath: bigPath, expectError: true, errorMsg: "file too large"},
		{name: "directory", filePath: tempDir, expectError: true, errorMsg: "path is a directory"},
		{name: "readable", filePath: smallPath, expectError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := validator.ReadFile(tt.filePath)

			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != "%PDF-1.4" {
				t.Errorf("unexpected contents %q", data)
			}
		})
	}
}

func TestNewValidator(t *testing.T) {
	maxFileSize := int64(2 * 1024 * 1024) // 2MB
	validator := NewValidator(maxFileSize)

	if validator == nil {
		t.Fatal("NewValidator returned nil")
	}

	if validator.maxFileSize != maxFileSize {
		t.Errorf("expected maxFileSize=%d but got %d", maxFileSize, validator.maxFileSize)
	}
}

func BenchmarkValidator_ValidateFileInfo(b *testing.B) {
	validator := NewValidator(1024 * 1024)

	// Create a temporary file for benchmarking
	tempDir, err := os.MkdirTemp("", "pdf_validator_bench")
	if err != nil {
		b.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	testFile := filepath.Join(tempDir, "test.pdf")
	if err := os.WriteFile(testFile, make([]byte, 1024), 0o644); err != nil {
		b.Fatalf("failed to create test file: %v", err)
	}

	fileInfo, err := os.Stat(testFile)
	if err != nil {
		b.Fatalf("failed to stat file: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = validator.ValidateFileInfo(testFile, fileInfo)
	}
}
