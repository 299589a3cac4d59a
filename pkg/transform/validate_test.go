package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revent-data/report-merger/pkg/model"
)

func mappingWith(field string, fm model.FieldMapping) *model.ColumnMapping {
	return model.NewColumnMapping(
		[]model.CanonicalField{{Name: field, Ordinal: 0}},
		map[model.Source]map[string]model.FieldMapping{
			model.SourceAmazon: {field: fm},
			model.SourceNoon:   {},
		},
	)
}

func TestValidateReferences_DirectiveColumnPresent(t *testing.T) {
	m := mappingWith("Value", model.FieldMapping{
		SourceColumn: "item-price",
		Directives: []model.Directive{
			{Kind: model.DirectiveMultiply, OtherColumn: "quantity"},
		},
	})

	err := ValidateReferences(m, model.SourceAmazon, []string{"item-price", "Quantity"})
	assert.NoError(t, err)
}

func TestValidateReferences_MissingMultiplyColumnFails(t *testing.T) {
	m := mappingWith("Value", model.FieldMapping{
		SourceColumn: "item-price",
		Directives: []model.Directive{
			{Kind: model.DirectiveMultiply, OtherColumn: "quantity"},
		},
	})

	err := ValidateReferences(m, model.SourceAmazon, []string{"item-price"})
	require.Error(t, err)

	var cfgErr *model.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Value", cfgErr.Field)
	assert.Equal(t, model.SourceAmazon, cfgErr.Source)
	assert.Contains(t, cfgErr.Reason, "quantity")
}

func TestValidateReferences_MissingConditionFieldFails(t *testing.T) {
	m := mappingWith("Type", model.FieldMapping{
		Directives: []model.Directive{
			{
				Kind:           model.DirectiveConditional,
				ConditionField: "Channel",
				ConditionValue: "B2B",
				ThenValue:      "Wholesale",
			},
		},
	})

	err := ValidateReferences(m, model.SourceAmazon, []string{"sku"})
	require.Error(t, err)
}

func TestValidateReferences_MappedColumnAbsenceIsNotStructural(t *testing.T) {
	// A mapped-but-absent source column resolves to empty per row; only
	// directive references are structural.
	m := mappingWith("SKU", model.FieldMapping{SourceColumn: "partner_sku"})

	err := ValidateReferences(m, model.SourceAmazon, []string{"sku"})
	assert.NoError(t, err)
}
