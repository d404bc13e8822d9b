package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigate_ActivatesTarget(t *testing.T) {
	out, err := execute(t, NewNavigateCommand, "json", "testdata/deck.html", "#s2")
	require.NoError(t, err)

	var result NavigateResult
	decodeData(t, out, &result)
	assert.True(t, result.Activated)
	assert.Equal(t, []string{"#s2"}, result.Active)
	assert.Equal(t, []string{"#deck=1"}, result.Selection)
}

func TestNavigate_AddsHash(t *testing.T) {
	out, err := execute(t, NewNavigateCommand, "text", "testdata/deck.html", "s3", "--at", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#s3 activated at 1s")
	assert.Contains(t, out, "Active: #s3")
}

func TestNavigate_UnknownTargetIsNotAnError(t *testing.T) {
	out, err := execute(t, NewNavigateCommand, "json", "testdata/deck.html", "#ghost", "--at", "3")
	require.NoError(t, err)

	var result NavigateResult
	decodeData(t, out, &result)
	assert.False(t, result.Activated)
	assert.Equal(t, []string{"#s2"}, result.Active, "time still advanced to --at")
}

func TestNavigate_RejectsNegativeAt(t *testing.T) {
	out, err := execute(t, NewNavigateCommand, "json", "testdata/deck.html", "#s2", "--at", "-1")
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidFlag, decodeError(t, out).Code)
}
