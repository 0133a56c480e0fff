package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrDocumentOpen marks a document that could not be opened at all.
// It is the only error class that aborts a whole analysis run.
var ErrDocumentOpen = stderrors.New("document could not be opened")

// PDFError describes a failure that happened while analyzing a PDF. Extraction
// failures are collected as diagnostics next to the partial result instead of
// being returned to the caller.
type PDFError struct {
	Type        ErrorType `json:"type"`
	Extractor   string    `json:"extractor,omitempty"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`
	FileName    string    `json:"-"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"-"`
	Err         error     `json:"-"`
}

// ErrorType represents different categories of analysis errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidInput
	ErrorTypeDocumentOpen
	ErrorTypeExtraction
	ErrorTypeMalformedPage
	ErrorTypeInvalidForm
	ErrorTypeInvalidAnnotation
	ErrorTypePanic
)

// Error implements the error interface
func (e *PDFError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Type.String())
	if e.Extractor != "" {
		prefix += " " + e.Extractor
	}
	if e.PageNumber > 0 {
		prefix += fmt.Sprintf(" (page %d)", e.PageNumber)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s: %s", prefix, e.Message, e.Context)
	}
	return fmt.Sprintf("%s %s", prefix, e.Message)
}

// Unwrap exposes the underlying cause
func (e *PDFError) Unwrap() error {
	if e.Type == ErrorTypeDocumentOpen && e.Err == nil {
		return ErrDocumentOpen
	}
	return e.Err
}

// Is lets errors.Is(err, ErrDocumentOpen) match every open failure.
func (e *PDFError) Is(target error) bool {
	return target == ErrDocumentOpen && e.Type == ErrorTypeDocumentOpen
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidInput:
		return "INVALID_INPUT"
	case ErrorTypeDocumentOpen:
		return "DOCUMENT_OPEN"
	case ErrorTypeExtraction:
		return "EXTRACTION"
	case ErrorTypeMalformedPage:
		return "MALFORMED_PAGE"
	case ErrorTypeInvalidForm:
		return "INVALID_FORM"
	case ErrorTypeInvalidAnnotation:
		return "INVALID_ANNOTATION"
	case ErrorTypePanic:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the type by name in JSON output.
func (et ErrorType) MarshalText() ([]byte, error) {
	return []byte(et.String()), nil
}

// IsRecoverable reports whether analysis can continue past this error type
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeDocumentOpen, ErrorTypeInvalidInput:
		return false
	case ErrorTypeUnknown:
		return false
	default:
		return true
	}
}

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
		Timestamp:   time.Now(),
	}
}

// WrapError wraps a standard error as a PDFError
func WrapError(errorType ErrorType, err error) *PDFError {
	return &PDFError{
		Type:        errorType,
		Message:     err.Error(),
		Recoverable: errorType.IsRecoverable(),
		Timestamp:   time.Now(),
		Err:         err,
	}
}

// WithContext adds context to an existing PDFError
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithCause sets the underlying error without changing the message
func (e *PDFError) WithCause(err error) *PDFError {
	e.Err = err
	return e
}

// WithExtractor records which extractor produced the error
func (e *PDFError) WithExtractor(name string) *PDFError {
	e.Extractor = name
	return e
}

// WithFile adds the analyzed file name
func (e *PDFError) WithFile(fileName string) *PDFError {
	e.FileName = fileName
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// ErrorCollection gathers the diagnostics of one analysis run
type ErrorCollection struct {
	Errors   []*PDFError `json:"errors"`
	FileName string      `json:"file_name,omitempty"`
}

// NewErrorCollection creates a new error collection
func NewErrorCollection(fileName string) *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*PDFError, 0),
		FileName: fileName,
	}
}

// Add appends an error, stamping the collection's file name when missing
func (ec *ErrorCollection) Add(err *PDFError) {
	if err == nil {
		return
	}
	if err.FileName == "" && ec.FileName != "" {
		err.FileName = ec.FileName
	}
	ec.Errors = append(ec.Errors, err)
}

// ForExtractor returns the errors reported by one extractor
func (ec *ErrorCollection) ForExtractor(name string) []*PDFError {
	var out []*PDFError
	for _, err := range ec.Errors {
		if err.Extractor == name {
			out = append(out, err)
		}
	}
	return out
}

// Count returns the number of collected errors
func (ec *ErrorCollection) Count() int {
	return len(ec.Errors)
}

// Summary returns a text summary of the collected errors
func (ec *ErrorCollection) Summary() string {
	if len(ec.Errors) == 0 {
		return "No errors"
	}
	return fmt.Sprintf("Found %d extraction error(s)", len(ec.Errors))
}
