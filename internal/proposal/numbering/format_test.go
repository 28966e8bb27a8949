package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var formatNow = time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC)

func TestFormat_PrefixYearAndNumber(t *testing.T) {
	tokens := []Token{
		{Prefix: "PROP-", Parameter: ParamYear},
		{Prefix: "-", Parameter: ParamNumber},
	}

	assert.Equal(t, "PROP-2024-1", Format(1, 1, tokens, formatNow))
	assert.Equal(t, "PROP-2024-42", Format(42, 1, tokens, formatNow))
}

func TestFormat_StartingValueOffsetsDisplayedNumber(t *testing.T) {
	tokens := []Token{{Parameter: ParamNumber}}

	// Displayed number is startingValue + seq - 1.
	assert.Equal(t, "100", Format(1, 100, tokens, formatNow))
	assert.Equal(t, "104", Format(5, 100, tokens, formatNow))
}

func TestFormat_NoTokensFallsBackToBareNumber(t *testing.T) {
	assert.Equal(t, "7", Format(3, 5, nil, formatNow))
	assert.Equal(t, "3", Format(3, 0, nil, formatNow))
}

func TestFormat_DatePartsArePadded(t *testing.T) {
	tokens := []Token{
		{Parameter: ParamDay},
		{Prefix: "/", Parameter: ParamMonth},
		{Prefix: " ", Parameter: ParamTime},
	}

	assert.Equal(t, "07/03 0905", Format(1, 1, tokens, formatNow))
}

func TestFormat_UnknownParameterRendersStaticOnly(t *testing.T) {
	tokens := []Token{
		{Prefix: "A-", Parameter: "semana", Suffix: "-Z"},
	}

	assert.Equal(t, "A--Z", Format(1, 1, tokens, formatNow))
}

func TestFormat_WhitespaceOnlyResultFallsBackToBareNumber(t *testing.T) {
	tokens := []Token{
		{Prefix: "  ", Parameter: ParamNone, Suffix: " "},
	}

	assert.Equal(t, "4", Format(4, 1, tokens, formatNow))
}

func TestFormat_NonPositiveStartingValueDefaultsToOne(t *testing.T) {
	tokens := []Token{{Parameter: ParamNumber}}

	assert.Equal(t, "2", Format(2, 0, tokens, formatNow))
	assert.Equal(t, "2", Format(2, -3, tokens, formatNow))
}
