package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is one harness test case.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Document is inline HTML. Exactly one of Document and DocumentFile is set.
	Document string `yaml:"document,omitempty"`

	// DocumentFile is a path to an HTML, YAML or CUE document, relative to
	// the scenario file.
	DocumentFile string `yaml:"document_file,omitempty"`

	// SessionID fixes the session id. Empty means "test-session-default".
	SessionID string `yaml:"session_id,omitempty"`

	Steps      []Step      `yaml:"steps,omitempty"`
	Assertions []Assertion `yaml:"assertions"`

	// dir is the directory the scenario was loaded from.
	dir string
}

// Step is one command. Exactly one field is set.
type Step struct {
	// Advance moves virtual time forward by this many seconds.
	Advance *float64 `yaml:"advance,omitempty"`

	// AdvanceTo moves virtual time to this many seconds after the start.
	AdvanceTo *float64 `yaml:"advance_to,omitempty"`

	Select   *SelectStep  `yaml:"select,omitempty"`
	Navigate string       `yaml:"navigate,omitempty"`
	Trigger  *TriggerStep `yaml:"trigger,omitempty"`
	Seek     *SeekStep    `yaml:"seek,omitempty"`
}

type SelectStep struct {
	Container string `yaml:"container"`
	Index     int    `yaml:"index"`
}

type TriggerStep struct {
	// Element is the target id; empty addresses the document.
	Element string `yaml:"element,omitempty"`
	Event   string `yaml:"event"`
}

type SeekStep struct {
	Container string  `yaml:"container"`
	Time      float64 `yaml:"time"`
}

// Assertion checks the session after all steps ran.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Element   string `yaml:"element,omitempty"`
	Container string `yaml:"container,omitempty"`

	// Expect is a state name (state), an integer (current_index,
	// active_count) or a fragment string (fragment).
	Expect any `yaml:"expect,omitempty"`

	// Events is the expected relative order (event_order).
	Events []string `yaml:"events,omitempty"`

	// Event and Count are used by event_count.
	Event string `yaml:"event,omitempty"`
	Count *int   `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertState        = "state"
	AssertCurrentIndex = "current_index"
	AssertActiveCount  = "active_count"
	AssertEventOrder   = "event_order"
	AssertEventCount   = "event_count"
	AssertFragment     = "fragment"
)

// LoadScenario reads a scenario file. Unknown fields are rejected so typos
// fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	s.dir = filepath.Dir(path)
	if s.DocumentFile != "" {
		if _, err := os.Stat(s.documentPath()); err != nil {
			return nil, fmt.Errorf("invalid scenario: document file not found: %s", s.DocumentFile)
		}
	}
	return s, nil
}

// ParseScenario decodes and validates a scenario held in memory. Relative
// document files are resolved against the working directory.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func (s *Scenario) documentPath() string {
	if filepath.IsAbs(s.DocumentFile) || s.dir == "" {
		return s.DocumentFile
	}
	return filepath.Join(s.dir, s.DocumentFile)
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	switch {
	case s.Document == "" && s.DocumentFile == "":
		return fmt.Errorf("document or document_file is required")
	case s.Document != "" && s.DocumentFile != "":
		return fmt.Errorf("document and document_file are mutually exclusive")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st Step) error {
	set := 0
	if st.Advance != nil {
		set++
		if *st.Advance < 0 {
			return fmt.Errorf("steps[%d]: advance must be non-negative", index)
		}
	}
	if st.AdvanceTo != nil {
		set++
	}
	if st.Select != nil {
		set++
		if st.Select.Container == "" {
			return fmt.Errorf("steps[%d]: select.container is required", index)
		}
	}
	if st.Navigate != "" {
		set++
	}
	if st.Trigger != nil {
		set++
		if st.Trigger.Event == "" {
			return fmt.Errorf("steps[%d]: trigger.event is required", index)
		}
	}
	if st.Seek != nil {
		set++
		if st.Seek.Container == "" {
			return fmt.Errorf("steps[%d]: seek.container is required", index)
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one command is required, found %d", index, set)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	switch a.Type {
	case AssertState:
		if a.Element == "" {
			return fmt.Errorf("assertions[%d]: element is required for state", index)
		}
		if _, ok := a.Expect.(string); !ok {
			return fmt.Errorf("assertions[%d]: expect must be a state name for state", index)
		}
	case AssertCurrentIndex, AssertActiveCount:
		if a.Container == "" {
			return fmt.Errorf("assertions[%d]: container is required for %s", index, a.Type)
		}
		if _, ok := a.Expect.(int); !ok {
			return fmt.Errorf("assertions[%d]: expect must be an integer for %s", index, a.Type)
		}
	case AssertEventOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for event_order", index)
		}
	case AssertEventCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for event_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertFragment:
		if _, ok := a.Expect.(string); !ok {
			return fmt.Errorf("assertions[%d]: expect must be a string for fragment", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
