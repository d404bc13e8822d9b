package cli

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_Text(t *testing.T) {
	out, err := execute(t, NewInspectCommand, "text", "testdata/deck.html")
	require.NoError(t, err)

	assert.Contains(t, out, "Document: deck")
	assert.Contains(t, out, "#deck seq (internal clock)")
	assert.Regexp(t, `#s1\s+active\s+\[0s, 2s\) \(0s-2s\)`, out)
	assert.Regexp(t, `#s2\s+idle\s+\[2s, 4s\)`, out)
}

func TestInspect_JSON(t *testing.T) {
	out, err := execute(t, NewInspectCommand, "json", "testdata/deck.html")
	require.NoError(t, err)

	var result InspectResult
	decodeData(t, out, &result)
	require.Len(t, result.Containers, 1)
	deck := result.Containers[0]
	assert.Equal(t, "#deck", deck.Node)
	assert.Equal(t, "seq", deck.Kind)
	assert.Equal(t, "internal", deck.Clock)
	require.Len(t, deck.Children, 3)
	assert.Equal(t, "#s3", deck.Children[2].Node)
	assert.Equal(t, "4s", deck.Children[2].Begin)
	assert.Equal(t, "6s", deck.Children[2].End)
	assert.Empty(t, result.Issues)
}

func TestInspect_MissingDocument(t *testing.T) {
	out, err := execute(t, NewInspectCommand, "json", "testdata/nope.html")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeNotFound, decodeError(t, out).Code)
}

func TestInspect_UnsupportedFormat(t *testing.T) {
	out, err := execute(t, NewInspectCommand, "json", "testdata/deck.txt")
	require.Error(t, err)
	assert.Equal(t, ErrCodeUnsupported, decodeError(t, out).Code)
}

func TestFormatBound(t *testing.T) {
	assert.Equal(t, "1.5s", formatBound(1.5))
	assert.Equal(t, "0s", formatBound(0))
	assert.Equal(t, "indefinite", formatBound(math.Inf(1)))
	assert.Equal(t, "unresolved", formatBound(math.NaN()))
}
