package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gestios/internal/proposal/totals"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestLineItems_MixedValueEncodings(t *testing.T) {
	p := Proposal{Items: datatypes.JSON(`[
		{"descricao": "survey", "valor": "100.50"},
		{"descricao": "install", "valor": 49.5},
		{"descricao": "warranty"},
		{"descricao": "extras", "valor": "not-a-number"}
	]`)}

	items := p.LineItems()

	assert.Len(t, items, 4)
	assert.Equal(t, "100.50", items[0].Value.StringFixed(2))
	assert.Equal(t, "49.50", items[1].Value.StringFixed(2))
	assert.True(t, items[2].Value.IsZero())
	assert.True(t, items[3].Value.IsZero())
}

func TestLineItems_MalformedJSON(t *testing.T) {
	p := Proposal{Items: datatypes.JSON(`{"not": "an array"`)}
	assert.Nil(t, p.LineItems())

	empty := Proposal{}
	assert.Nil(t, empty.LineItems())
}

func TestApplyTotals(t *testing.T) {
	p := Proposal{
		Items:         datatypes.JSON(`[{"descricao": "a", "valor": "100.005"}, {"descricao": "b", "valor": "50"}]`),
		DiscountMode:  totals.DiscountPercent,
		DiscountInput: decimal.NewFromInt(10),
	}

	p.ApplyTotals()

	assert.Equal(t, "150.01", p.Subtotal.StringFixed(2))
	assert.Equal(t, "15.00", p.DiscountValue.StringFixed(2))
	assert.Equal(t, "135.01", p.Total.StringFixed(2))
}

func TestNumberingConfig(t *testing.T) {
	var missing *ProposalSettings
	assert.Nil(t, missing.NumberingConfig())

	settings := &ProposalSettings{
		StartingValue: 10,
		FormatTokens:  datatypes.JSON(`[{"prefixo": "PROP-", "param": "ano", "sufixo": ""}]`),
	}
	cfg := settings.NumberingConfig()
	assert.NotNil(t, cfg)
	assert.Equal(t, int64(10), cfg.StartingValue)
	assert.Len(t, cfg.Tokens, 1)
	assert.Equal(t, "PROP-", cfg.Tokens[0].Prefix)

	// Malformed token JSON degrades to an empty token list.
	broken := &ProposalSettings{StartingValue: 2, FormatTokens: datatypes.JSON(`{bad`)}
	cfg = broken.NumberingConfig()
	assert.NotNil(t, cfg)
	assert.Empty(t, cfg.Tokens)
}
