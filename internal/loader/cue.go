package loader

import (
	"fmt"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"

	"github.com/roach88/timesheet/internal/dom"
)

// LoadCUEFile loads a CUE document through the CUE loader, so package
// clauses and imports behave as they do for the cue command.
func LoadCUEFile(path string) (*dom.Document, error) {
	cfg := &load.Config{Dir: filepath.Dir(path)}
	instances := load.Instances([]string{"./" + filepath.Base(path)}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: "loading CUE file", Err: inst.Err}
	}
	v := cuecontext.New().BuildInstance(inst)
	doc, err := decodeCUE(v)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// ParseCUE compiles CUE source held in memory.
func ParseCUE(data []byte, filename string) (*dom.Document, error) {
	v := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	return decodeCUE(v)
}

func decodeCUE(v cue.Value) (*dom.Document, error) {
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "building CUE value", Err: formatCUEError(err)}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "document is not concrete", Err: formatCUEError(err)}
	}
	if !v.LookupPath(cue.ParsePath("body")).Exists() {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "body is required"}
	}
	var src Source
	if err := v.Decode(&src); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "decoding document", Err: formatCUEError(err)}
	}
	return src.Document()
}

// formatCUEError keeps the first error with its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if pos := first.Position(); pos.IsValid() {
		return fmt.Errorf("%s:%d:%d: %s", filepath.Base(pos.Filename()), pos.Line(), pos.Column(), first.Error())
	}
	return first
}
