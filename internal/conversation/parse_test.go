package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoutePattern(t *testing.T) {
	origin, destination, err := ParseRoutePattern("Paris - Lyon")
	require.NoError(t, err)
	assert.Equal(t, "Paris", origin)
	assert.Equal(t, "Lyon", destination)

	// Whitespace is trimmed
	origin, destination, err = ParseRoutePattern("  Paris-Lyon  ")
	require.NoError(t, err)
	assert.Equal(t, "Paris", origin)
	assert.Equal(t, "Lyon", destination)

	// Missing separator
	_, _, err = ParseRoutePattern("Paris Lyon")
	assert.Error(t, err)

	// Too many separators
	_, _, err = ParseRoutePattern("Paris - Lyon - Nice")
	assert.Error(t, err)

	// Empty sides
	_, _, err = ParseRoutePattern(" - Lyon")
	assert.Error(t, err)
	_, _, err = ParseRoutePattern("Paris - ")
	assert.Error(t, err)
	_, _, err = ParseRoutePattern("-")
	assert.Error(t, err)
}

func TestParsePositiveDecimal(t *testing.T) {
	value, err := ParsePositiveDecimal("7.5")
	require.NoError(t, err)
	assert.InDelta(t, 7.5, value, 0.001)

	// Comma decimal separator is accepted
	value, err = ParsePositiveDecimal("7,5")
	require.NoError(t, err)
	assert.InDelta(t, 7.5, value, 0.001)

	value, err = ParsePositiveDecimal(" 6 ")
	require.NoError(t, err)
	assert.InDelta(t, 6.0, value, 0.001)

	_, err = ParsePositiveDecimal("abc")
	assert.Error(t, err)

	_, err = ParsePositiveDecimal("0")
	assert.Error(t, err)

	_, err = ParsePositiveDecimal("-3")
	assert.Error(t, err)

	_, err = ParsePositiveDecimal("")
	assert.Error(t, err)
}
