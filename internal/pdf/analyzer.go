package pdf

import (
	"log"
	"os"
	"time"

	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/extraction"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/wrapper"
)

// OpenFunc opens a document from its raw bytes.
type OpenFunc func(data []byte) (wrapper.Document, error)

// AnalysisSummary holds counts derived from the other result sections.
type AnalysisSummary struct {
	HasAcroForm           bool `json:"has_acroform"`
	InteractiveFieldCount int  `json:"interactive_field_count"`
	PageCount             int  `json:"page_count"`
	TableCount            int  `json:"table_count"`
}

// AnalysisResult is the layout description of one document.
type AnalysisResult struct {
	FileName          string                        `json:"file_name"`
	AcroFormFields    extraction.FormFields         `json:"acroform_fields"`
	InteractiveFields []extraction.InteractiveField `json:"interactive_fields"`
	TextContent       *extraction.TextContent       `json:"text_content"`
	VisualElements    []extraction.PageShapes       `json:"visual_elements"`
	Tables            []extraction.TableRegion      `json:"tables"`
	Summary           AnalysisSummary               `json:"analysis_summary"`
	Diagnostics       []*pdferrors.PDFError         `json:"diagnostics,omitempty"`
}

// Analyzer runs every extractor over a document and aggregates the results.
// An Analyzer holds no per-run state and may be shared between goroutines.
type Analyzer struct {
	open      OpenFunc
	logger    *log.Logger
	debug     bool
	recoverer *pdferrors.Recoverer
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithOpener replaces the function used to open documents.
func WithOpener(open OpenFunc) AnalyzerOption {
	return func(a *Analyzer) { a.open = open }
}

// WithLogger sets the logger. A nil logger silences the analyzer.
func WithLogger(logger *log.Logger) AnalyzerOption {
	return func(a *Analyzer) { a.logger = logger }
}

// WithDebug enables per-extractor timing and stack traces in the log.
func WithDebug(debug bool) AnalyzerOption {
	return func(a *Analyzer) { a.debug = debug }
}

// NewAnalyzer creates an Analyzer that opens documents with wrapper.Open.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		open:   wrapper.Open,
		logger: log.New(os.Stderr, "[Analyzer] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.recoverer = pdferrors.NewRecoverer(a.logger, a.debug)
	return a
}

// Analyze opens data and extracts form fields, interactive fields, text,
// shapes and tables. Only a document that cannot be opened fails the run; the
// returned error is then a *PDFError of type ErrorTypeDocumentOpen and matches
// ErrDocumentOpen. Any other failure degrades the
// affected section and is listed in Diagnostics.
func (a *Analyzer) Analyze(data []byte, fileName string) (*AnalysisResult, error) {
	doc, err := a.open(data)
	if err != nil {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeDocumentOpen, "failed to open "+fileName).
			WithContext(err.Error()).
			WithFile(fileName).
			WithCause(err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			a.logf("failed to close %s: %v", fileName, cerr)
		}
	}()

	diags := pdferrors.NewErrorCollection(fileName)
	result := &AnalysisResult{
		FileName:          fileName,
		InteractiveFields: []extraction.InteractiveField{},
		TextContent:       &extraction.TextContent{Pages: []extraction.PageText{}},
		VisualElements:    []extraction.PageShapes{},
		Tables:            []extraction.TableRegion{},
	}

	a.run(diags, extraction.ExtractorFormFields, func() error {
		fields, err := extraction.ExtractFormFields(doc)
		if err != nil {
			return err
		}
		result.AcroFormFields = fields
		return nil
	})

	a.run(diags, extraction.ExtractorInteractiveFields, func() error {
		fields, err := extraction.ExtractInteractiveFields(doc, diags)
		if err != nil {
			return err
		}
		result.InteractiveFields = fields
		return nil
	})

	a.run(diags, extraction.ExtractorText, func() error {
		content, err := extraction.ExtractText(doc, diags)
		if err != nil {
			return err
		}
		result.TextContent = content
		return nil
	})

	a.run(diags, extraction.ExtractorVisualElements, func() error {
		elements, err := extraction.ExtractVisualElements(doc, diags)
		if err != nil {
			return err
		}
		result.VisualElements = elements
		return nil
	})

	a.run(diags, extraction.ExtractorTables, func() error {
		tables, err := extraction.ExtractTables(doc, diags)
		if err != nil {
			return err
		}
		result.Tables = tables
		return nil
	})

	result.Summary = summarize(result)
	if diags.Count() > 0 {
		result.Diagnostics = diags.Errors
		a.logf("%s: %s", fileName, diags.Summary())
	}
	return result, nil
}

// run executes one extractor, recording a failure or panic on diags.
func (a *Analyzer) run(diags *pdferrors.ErrorCollection, extractor string, fn func() error) {
	start := time.Now()
	if failure := a.recoverer.Run(extractor, fn); failure != nil {
		diags.Add(failure)
	}
	if a.debug {
		a.logf("%s finished in %v", extractor, time.Since(start))
	}
}

func summarize(r *AnalysisResult) AnalysisSummary {
	summary := AnalysisSummary{
		HasAcroForm:           len(r.AcroFormFields) > 0,
		InteractiveFieldCount: len(r.InteractiveFields),
		TableCount:            len(r.Tables),
	}
	if r.TextContent != nil {
		summary.PageCount = len(r.TextContent.Pages)
	}
	return summary
}

func (a *Analyzer) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
