// Command pdf_analyze runs the layout analyzer over PDF files from the command
// line and prints the results as JSON or as a short text report.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/pdf-layout-analyzer/internal/config"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/extraction"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// options holds the parsed command line.
type options struct {
	format      string
	concurrency int
	diagnostic  bool
	verbose     bool
	maxFileSize int64
	inputs      []string
}

// fileResult is the outcome of analyzing one file.
type fileResult struct {
	FilePath string              `json:"file_path"`
	Success  bool                `json:"success"`
	Error    string              `json:"error,omitempty"`
	Result   *pdf.AnalysisResult `json:"result,omitempty"`
}

func main() {
	os.Exit(run(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit; it returns the exit code.
func run(program string, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(program, args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	files, err := collectFiles(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "no PDF files found")
		return 1
	}

	var logger *log.Logger
	if opts.verbose {
		logger = log.New(stderr, "[Analyzer] ", log.LstdFlags)
	}
	analyzer := pdf.NewAnalyzer(pdf.WithLogger(logger), pdf.WithDebug(opts.verbose))
	results := analyzeAll(analyzer, pdf.NewValidator(opts.maxFileSize), files, opts.concurrency)

	switch opts.format {
	case formatJSON:
		err = writeJSON(stdout, results)
	default:
		err = writeText(stdout, results, opts.diagnostic)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	for _, r := range results {
		if !r.Success {
			return 1
		}
	}
	return 0
}

func parseArgs(program string, args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	flags := pflag.NewFlagSet(program, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json or text")
	flags.IntVarP(&opts.concurrency, "concurrency", "c", runtime.NumCPU(), "Number of files analyzed in parallel")
	flags.BoolVar(&opts.diagnostic, "diagnostic", false, "Include extractor diagnostics in text output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log extractor progress to stderr")
	flags.Int64Var(&opts.maxFileSize, "maxfilesize", config.DefaultMaxFileSize, "Maximum PDF file size in bytes")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [OPTIONS] <file.pdf|directory>...\n\n", program)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if opts.format != formatJSON && opts.format != formatText {
		return nil, fmt.Errorf("unsupported output format: %s", opts.format)
	}
	if opts.concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1")
	}
	opts.inputs = flags.Args()
	if len(opts.inputs) == 0 {
		flags.Usage()
		return nil, fmt.Errorf("no input files")
	}
	return opts, nil
}

// collectFiles expands directories into the PDF files below them.
func collectFiles(opts *options) ([]string, error) {
	finder := pdf.NewFinder(pdf.NewValidator(opts.maxFileSize), 0)

	var files []string
	for _, input := range opts.inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", input, err)
		}
		if !info.IsDir() {
			files = append(files, input)
			continue
		}
		found, err := finder.FindPDFs(input, 0)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			files = append(files, f.Path)
		}
	}
	return files, nil
}

// analyzeAll analyzes files with at most limit running at once. Results keep
// the order of files.
func analyzeAll(analyzer *pdf.Analyzer, validator *pdf.Validator, files []string, limit int) []fileResult {
	results := make([]fileResult, len(files))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			results[i] = analyzeFile(analyzer, validator, path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func analyzeFile(analyzer *pdf.Analyzer, validator *pdf.Validator, path string) fileResult {
	r := fileResult{FilePath: path}
	if abs, err := filepath.Abs(path); err == nil {
		r.FilePath = abs
	}

	data, err := validator.ReadFile(path)
	if err != nil {
		r.Error = err.Error()
		return r
	}

	result, err := analyzer.Analyze(data, filepath.Base(path))
	if err != nil {
		r.Error = err.Error()
		return r
	}

	r.Success = true
	r.Result = result
	return r
}

func writeJSON(w io.Writer, results []fileResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func writeText(w io.Writer, results []fileResult, diagnostic bool) error {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", r.FilePath)
		if !r.Success {
			fmt.Fprintf(w, "  analysis failed: %s\n", r.Error)
			continue
		}

		res := r.Result
		var words, markers, lines, boxes int
		for _, page := range res.TextContent.Pages {
			words += len(page.TextAndCoords)
			for _, token := range page.TextAndCoords {
				if token.IsListMarker {
					markers++
				}
			}
		}
		for _, page := range res.VisualElements {
			lines += len(page.Lines)
			boxes += len(page.Boxes)
		}

		fmt.Fprintf(w, "  pages: %d\n", res.Summary.PageCount)
		fmt.Fprintf(w, "  acroform: %t (%d fields)\n", res.Summary.HasAcroForm, len(res.AcroFormFields))
		fmt.Fprintf(w, "  interactive fields: %d\n", res.Summary.InteractiveFieldCount)
		fmt.Fprintf(w, "  words: %d (%d list markers)\n", words, markers)
		fmt.Fprintf(w, "  lines: %d, boxes: %d\n", lines, boxes)
		fmt.Fprintf(w, "  tables: %d\n", res.Summary.TableCount)
		writeFields(w, res.InteractiveFields)
		writeTables(w, res.Tables)

		if diagnostic {
			if len(res.Diagnostics) == 0 {
				fmt.Fprintln(w, "  diagnostics: none")
			}
			for _, d := range res.Diagnostics {
				fmt.Fprintf(w, "  diagnostic: %s\n", d.Error())
			}
		}
	}
	return nil
}

func writeFields(w io.Writer, fields []extraction.InteractiveField) {
	for _, f := range fields {
		fmt.Fprintf(w, "    [p%d] %s (%s) = %q at (%.1f, %.1f, %.1f, %.1f)\n",
			f.PageNumber, f.Name, f.Type, f.Value, f.BBox[0], f.BBox[1], f.BBox[2], f.BBox[3])
	}
}

func writeTables(w io.Writer, tables []extraction.TableRegion) {
	for _, t := range tables {
		fmt.Fprintf(w, "    [p%d] table %dx%d at (%.1f, %.1f, %.1f, %.1f)\n",
			t.PageNumber, t.RowCount, t.ColCount, t.BBox[0], t.BBox[1], t.BBox[2], t.BBox[3])
	}
}
