package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/timesheet/internal/dom"
)

// Format identifies a host document encoding.
type Format string

const (
	FormatHTML Format = "html"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".cue":
		return FormatCUE, true
	}
	return "", false
}

// LoadErrorCode classifies loader failures.
type LoadErrorCode string

const (
	// ErrCodeNotFound indicates the document or a linked timesheet is missing.
	ErrCodeNotFound LoadErrorCode = "NOT_FOUND"

	// ErrCodeUnsupported indicates an extension no loader handles.
	ErrCodeUnsupported LoadErrorCode = "UNSUPPORTED_FORMAT"

	// ErrCodeParse indicates the bytes are not valid in the declared format.
	ErrCodeParse LoadErrorCode = "PARSE_FAILED"

	// ErrCodeInvalid indicates a structurally valid file that does not
	// describe a document (missing tag, bad tag name).
	ErrCodeInvalid LoadErrorCode = "INVALID_DOCUMENT"

	// ErrCodeLink indicates a linked timesheet could not be inlined.
	ErrCodeLink LoadErrorCode = "LINK_FAILED"
)

// LoadError reports why a document could not be loaded.
type LoadError struct {
	Code    LoadErrorCode
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is a LoadError with the given code.
func IsLoadError(err error, code LoadErrorCode) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == code
}

// Load reads the document at path in the format implied by its extension.
func Load(path string) (*dom.Document, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, &LoadError{Code: ErrCodeUnsupported, Path: path, Message: "unrecognised extension " + filepath.Ext(path)}
	}
	if format == FormatCUE {
		return LoadCUEFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(path, err)
	}
	return Parse(data, format, filepath.Dir(path))
}

// Parse decodes an in-memory document. Linked timesheets in HTML documents
// are resolved against dir; an empty dir leaves links in place.
func Parse(data []byte, format Format, dir string) (*dom.Document, error) {
	switch format {
	case FormatHTML:
		return ParseHTML(data, dir)
	case FormatYAML:
		return ParseYAML(data)
	case FormatCUE:
		return ParseCUE(data, "document.cue")
	}
	return nil, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unknown format %q", format)}
}

func readError(path string, err error) *LoadError {
	code := ErrCodeParse
	if errors.Is(err, os.ErrNotExist) {
		code = ErrCodeNotFound
	}
	return &LoadError{Code: code, Path: path, Message: "failed to read file", Err: err}
}
