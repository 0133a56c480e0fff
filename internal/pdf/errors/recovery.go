package errors

import (
	"fmt"
	"log"
	"runtime/debug"
)

// Recoverer turns failures of a single extractor into diagnostics so the
// remaining extractors can still run.
type Recoverer struct {
	logger *log.Logger
	debug  bool
}

// NewRecoverer creates a Recoverer. A nil logger disables logging; stack
// traces are only logged in debug mode.
func NewRecoverer(logger *log.Logger, debug bool) *Recoverer {
	return &Recoverer{logger: logger, debug: debug}
}

// Run calls fn and converts a returned error or a panic into a PDFError
// attributed to extractor. A returned *PDFError keeps its type; other errors
// become ErrorTypeExtraction. It returns nil when fn succeeds.
func (r *Recoverer) Run(extractor string, fn func() error) (failure *PDFError) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		failure = NewPDFError(ErrorTypePanic, fmt.Sprintf("extractor panicked: %v", rec)).
			WithExtractor(extractor)
		r.logf("PANIC in %s: %v", extractor, rec)
		if r.debug {
			r.logf("Stack trace: %s", debug.Stack())
		}
	}()

	if err := fn(); err != nil {
		r.logf("%s failed: %v", extractor, err)
		if typed, ok := err.(*PDFError); ok {
			return typed.WithExtractor(extractor)
		}
		return WrapError(ErrorTypeExtraction, err).WithExtractor(extractor)
	}
	return nil
}

func (r *Recoverer) logf(format string, args ...interface{}) {
	if r == nil || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
