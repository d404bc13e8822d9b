package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/seq_basic.yaml")
	require.NoError(t, err)

	assert.Equal(t, "seq_basic", s.Name)
	assert.Equal(t, "seq-basic", s.SessionID)
	require.Len(t, s.Steps, 1)
	require.NotNil(t, s.Steps[0].AdvanceTo)
	assert.Equal(t, 5.0, *s.Steps[0].AdvanceTo)
	require.Len(t, s.Assertions, 5)
	assert.Equal(t, -1, s.Assertions[2].Expect)
	assert.Equal(t, 1, *s.Assertions[4].Count)
}

func TestLoadScenario_DocumentFileRelativeToScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/deep_link.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "documents", "chapters.html"), filepath.Clean(s.documentPath()))
}

func TestLoadScenario_MissingDocumentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: x
description: d
document_file: nope.html
assertions:
  - {type: fragment, expect: ""}
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document file not found")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(`name: x
description: d
document: "<p></p>"
flow_token: nope
assertions:
  - {type: fragment, expect: ""}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "description: d\ndocument: x\nassertions: [{type: fragment, expect: ''}]",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: n\ndocument: x\nassertions: [{type: fragment, expect: ''}]",
			want: "description is required",
		},
		{
			name: "no document",
			yaml: "name: n\ndescription: d\nassertions: [{type: fragment, expect: ''}]",
			want: "document or document_file is required",
		},
		{
			name: "both documents",
			yaml: "name: n\ndescription: d\ndocument: x\ndocument_file: y\nassertions: [{type: fragment, expect: ''}]",
			want: "mutually exclusive",
		},
		{
			name: "no assertions",
			yaml: "name: n\ndescription: d\ndocument: x",
			want: "assertions list is required",
		},
		{
			name: "two commands in one step",
			yaml: "name: n\ndescription: d\ndocument: x\nsteps: [{advance: 1, navigate: '#a'}]\nassertions: [{type: fragment, expect: ''}]",
			want: "steps[0]: exactly one command is required, found 2",
		},
		{
			name: "empty step",
			yaml: "name: n\ndescription: d\ndocument: x\nsteps: [{}]\nassertions: [{type: fragment, expect: ''}]",
			want: "found 0",
		},
		{
			name: "negative advance",
			yaml: "name: n\ndescription: d\ndocument: x\nsteps: [{advance: -1}]\nassertions: [{type: fragment, expect: ''}]",
			want: "advance must be non-negative",
		},
		{
			name: "trigger without event",
			yaml: "name: n\ndescription: d\ndocument: x\nsteps: [{trigger: {element: b}}]\nassertions: [{type: fragment, expect: ''}]",
			want: "trigger.event is required",
		},
		{
			name: "unknown assertion",
			yaml: "name: n\ndescription: d\ndocument: x\nassertions: [{type: vibes}]",
			want: `unknown assertion type "vibes"`,
		},
		{
			name: "state without element",
			yaml: "name: n\ndescription: d\ndocument: x\nassertions: [{type: state, expect: active}]",
			want: "element is required for state",
		},
		{
			name: "index expects integer",
			yaml: "name: n\ndescription: d\ndocument: x\nassertions: [{type: current_index, container: c, expect: one}]",
			want: "expect must be an integer",
		},
		{
			name: "event_count without count",
			yaml: "name: n\ndescription: d\ndocument: x\nassertions: [{type: event_count, event: a.begin}]",
			want: "count must be non-negative",
		},
		{
			name: "event_order without events",
			yaml: "name: n\ndescription: d\ndocument: x\nassertions: [{type: event_order}]",
			want: "events list is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
