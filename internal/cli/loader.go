package cli

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/engine"
	"github.com/roach88/timesheet/internal/journal"
	"github.com/roach88/timesheet/internal/loader"
)

// Error codes reported in JSON output.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNotFound      = "E002" // Document or linked timesheet missing
	ErrCodeUnsupported   = "E003" // Unknown document extension
	ErrCodeParseFailed   = "E004" // Document could not be parsed
	ErrCodeInvalidDoc    = "E005" // Parsed but not a usable document
	ErrCodeLinkFailed    = "E006" // Linked timesheet could not be inlined
	ErrCodeJournal       = "E007" // Journal open/read/write failure
	ErrCodeUnknownTarget = "E008" // Unknown container, element or index
	ErrCodeInvalidFlag   = "E009" // Malformed flag value
)

var loadErrorCodes = map[loader.LoadErrorCode]string{
	loader.ErrCodeNotFound:    ErrCodeNotFound,
	loader.ErrCodeUnsupported: ErrCodeUnsupported,
	loader.ErrCodeParse:       ErrCodeParseFailed,
	loader.ErrCodeInvalid:     ErrCodeInvalidDoc,
	loader.ErrCodeLink:        ErrCodeLinkFailed,
}

// errorCode maps an error from the lower layers onto a CLI error code.
func errorCode(err error) string {
	var le *loader.LoadError
	if errors.As(err, &le) {
		if code, ok := loadErrorCodes[le.Code]; ok {
			return code
		}
	}
	if engine.IsUnknownTarget(err) || engine.IsSessionError(err, engine.ErrCodeIndexOutOfRange) {
		return ErrCodeUnknownTarget
	}
	var fe *flagError
	if errors.As(err, &fe) {
		return ErrCodeInvalidFlag
	}
	if errors.Is(err, errJournal) {
		return ErrCodeJournal
	}
	return ErrCodeGeneric
}

// flagError reports a flag value that parsed as a string but means nothing.
type flagError struct {
	Flag  string
	Value string
	Why   string
}

func (e *flagError) Error() string {
	return "--" + e.Flag + " " + e.Value + ": " + e.Why
}

var errJournal = errors.New("journal")

func journalError(err error) error {
	return errors.Join(errJournal, err)
}

// openDocument loads a document in any supported format.
func openDocument(path string) (*dom.Document, error) {
	return loader.Load(path)
}

// documentName is how a document is recorded in the journal.
func documentName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// sessionOptions translates configuration into engine options. The journal
// may be nil.
func sessionOptions(opts *RootOptions, path string, j *journal.Journal) []engine.SessionOption {
	cfg := opts.settings()
	out := []engine.SessionOption{
		engine.WithDocumentName(documentName(path)),
		engine.WithTickRate(cfg.TickRate),
		engine.WithSeekEpsilon(cfg.SeekEpsilon),
		engine.WithMaxDispatchDepth(cfg.MaxDispatchDepth),
		engine.WithSessionLogger(opts.logger()),
	}
	if j != nil {
		out = append(out, engine.WithSessionJournal(j))
	}
	return out
}
