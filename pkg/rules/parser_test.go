package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/model"
)

func TestParse_DateComponents(t *testing.T) {
	p := NewParser(zap.NewNop())

	tests := []struct {
		name      string
		remarks   string
		component model.DateComponent
	}{
		{"day", "Take the day number from date", model.ComponentDay},
		{"day short", "day from date", model.ComponentDay},
		{"month", "Month from the date", model.ComponentMonth},
		{"year", "YEAR FROM DATE", model.ComponentYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directives := p.Parse(tt.remarks)
			require.Len(t, directives, 1)
			assert.Equal(t, model.DirectiveExtractDate, directives[0].Kind)
			assert.Equal(t, tt.component, directives[0].Component)
		})
	}
}

func TestParse_MarkNA(t *testing.T) {
	p := NewParser(zap.NewNop())

	for _, remarks := range []string{
		`mark it "NA"`,
		`Mark it NA`,
		`mark as NA`,
		"mark it “NA”",
	} {
		directives := p.Parse(remarks)
		require.Len(t, directives, 1, "remarks: %s", remarks)
		assert.Equal(t, model.DirectiveMarkNA, directives[0].Kind)
	}
}

func TestParse_Multiply(t *testing.T) {
	p := NewParser(zap.NewNop())

	directives := p.Parse("multiply Price Including VAT with quantity for respective order id")
	require.Len(t, directives, 1)
	assert.Equal(t, model.DirectiveMultiply, directives[0].Kind)
	assert.Equal(t, "quantity", directives[0].OtherColumn)
}

func TestParse_MultiplyWithoutTrailer(t *testing.T) {
	p := NewParser(zap.NewNop())

	directives := p.Parse("Multiply Item Price with Quantity")
	require.Len(t, directives, 1)
	assert.Equal(t, model.DirectiveMultiply, directives[0].Kind)
	assert.Equal(t, "Quantity", directives[0].OtherColumn)
}

func TestParse_Conditional(t *testing.T) {
	p := NewParser(zap.NewNop())

	tests := []struct {
		name    string
		remarks string
		field   string
		value   string
		then    string
	}{
		{
			name:    "channel",
			remarks: `if Channel is "B2B" then Wholesale`,
			field:   "Channel",
			value:   "B2B",
			then:    "Wholesale",
		},
		{
			name:    "sales channel phrasing",
			remarks: "if sales channel is B2B then it should be Wholesale",
			field:   "sales channel",
			value:   "B2B",
			then:    "Wholesale",
		},
		{
			name:    "contract phrasing",
			remarks: "if the contract is MPABANC then consider it as noon KSA",
			field:   "contract",
			value:   "MPABANC",
			then:    "noon KSA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directives := p.Parse(tt.remarks)
			require.Len(t, directives, 1)
			d := directives[0]
			assert.Equal(t, model.DirectiveConditional, d.Kind)
			assert.Equal(t, tt.field, d.ConditionField)
			assert.Equal(t, tt.value, d.ConditionValue)
			assert.Equal(t, tt.then, d.ThenValue)
		})
	}
}

func TestParse_MultipleDirectivesKeepTextualOrder(t *testing.T) {
	p := NewParser(zap.NewNop())

	directives := p.Parse(`Take the day number from date, if Channel is "B2B" then Wholesale`)
	require.Len(t, directives, 2)
	assert.Equal(t, model.DirectiveExtractDate, directives[0].Kind)
	assert.Equal(t, model.DirectiveConditional, directives[1].Kind)

	reversed := p.Parse(`if Channel is "B2B" then Wholesale. Take the day number from date`)
	require.Len(t, reversed, 2)
	assert.Equal(t, model.DirectiveConditional, reversed[0].Kind)
	assert.Equal(t, model.DirectiveExtractDate, reversed[1].Kind)
}

func TestParse_AdvisoryTextYieldsNothing(t *testing.T) {
	p := NewParser(zap.NewNop())

	for _, remarks := range []string{
		"",
		"   ",
		"check with finance before the month close",
		"same as the noon column",
		"TBD",
	} {
		assert.Empty(t, p.Parse(remarks), "remarks: %q", remarks)
	}
}
