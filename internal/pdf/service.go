package pdf

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/a3tai/pdf-layout-analyzer/internal/descriptions"
	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/security"
)

// directoryScanLimit caps the listing returned by server info.
const directoryScanLimit = 100

// Service handles PDF file operations by orchestrating the analyzer and its
// supporting components
type Service struct {
	maxFileSize   int64
	validator     *Validator
	analyzer      *Analyzer
	finder        *Finder
	pathValidator *security.PathValidator
}

// NewService creates a new PDF service rooted at configuredDirectory. The
// logger receives analyzer output; pass nil to silence it.
func NewService(maxFileSize int64, configuredDirectory string, logger *log.Logger, debug bool) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	validator := NewValidator(maxFileSize)
	s := &Service{
		maxFileSize:   maxFileSize,
		validator:     validator,
		analyzer:      NewAnalyzer(WithLogger(logger), WithDebug(debug)),
		finder:        NewFinder(validator, 30*time.Second),
		pathValidator: pathValidator,
	}
	if err := s.ValidateConfiguration(); err != nil {
		return nil, err
	}
	return s, nil
}

// PDFAnalyzeLayout analyzes the layout of a PDF file inside the configured
// directory. The result's file name is the base name of the path.
func (s *Service) PDFAnalyzeLayout(req PDFAnalyzeLayoutRequest) (*AnalysisResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput,
			fmt.Errorf("security validation failed: %w", err))
	}

	data, err := s.validator.ReadFile(path)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, err).WithFile(filepath.Base(path))
	}

	return s.analyzer.Analyze(data, filepath.Base(path))
}

// PDFValidateFile reports whether a file inside the configured directory can
// be analyzed
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return &PDFValidateFileResult{
			Path:    req.Path,
			Message: fmt.Sprintf("security validation failed: %v", err),
		}, nil
	}

	result, err := s.validator.ValidateFile(PDFValidateFileRequest{Path: path})
	if result != nil {
		result.Path = req.Path
	}
	return result, err
}

// PDFServerInfo returns server information and usage guidance
func (s *Service) PDFServerInfo(_ PDFServerInfoRequest, serverName, version,
	defaultDirectory string,
) (*PDFServerInfoResult, error) {
	validatedDir, err := s.pathValidator.ValidateDirectory(defaultDirectory)
	if err != nil {
		// Use the configured directory if validation fails
		validatedDir = s.pathValidator.Root()
	}

	directoryContents, err := s.finder.FindPDFs(validatedDir, directoryScanLimit)
	if err != nil {
		// Don't fail completely if directory scan fails, just return empty contents
		directoryContents = []FileInfo{}
	}

	availableTools := []ToolInfo{
		{
			Name:        "pdf_analyze_layout",
			Description: "Describe the form and visual layout of a PDF file",
			Usage: "Use this tool to get AcroForm values, widget fields with coordinates, word tokens " +
				"with list-marker flags, underline and box shapes, and ruled tables as JSON.",
			Parameters: "path (required): Path to the PDF file, absolute or relative to the default directory",
		},
		{
			Name:        "pdf_validate_file",
			Description: "Validate if a file is a readable PDF",
			Usage:       "Use this tool to check if a file can be analyzed before running pdf_analyze_layout.",
			Parameters:  "path (required): Path to the PDF file, absolute or relative to the default directory",
		},
		{
			Name:        "pdf_server_info",
			Description: "Get server information and the PDFs available in the default directory",
			Usage:       "Use this tool first to discover files and the limits of this server.",
			Parameters:  "none",
		},
	}

	result := &PDFServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  validatedDir,
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    availableTools,
		DirectoryContents: directoryContents,
		UsageGuidance:     descriptions.UsageGuidance(s.maxFileSize),
	}

	return result, nil
}

// ValidateConfiguration validates the service configuration
func (s *Service) ValidateConfiguration() error {
	if s.maxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be greater than 0")
	}

	if s.maxFileSize > 1024*1024*1024 { // 1GB limit
		return fmt.Errorf("maxFileSize cannot exceed 1GB")
	}

	return nil
}
