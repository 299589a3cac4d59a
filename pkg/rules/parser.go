// pkg/rules/parser.go
package rules

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/model"
)

// Remarks cells are advisory business annotation, not a strict grammar.
// The parser recognizes a fixed set of case-insensitive keyword patterns and
// turns them into directives; anything else yields no directive, never an
// error. Parsing happens once at load time.
var (
	dayPattern   = regexp.MustCompile(`(?i)\bday(?:\s+number)?\s+from(?:\s+the)?\s+date\b`)
	monthPattern = regexp.MustCompile(`(?i)\bmonth(?:\s+number)?\s+from(?:\s+the)?\s+date\b`)
	yearPattern  = regexp.MustCompile(`(?i)\byear(?:\s+number)?\s+from(?:\s+the)?\s+date\b`)

	// e.g. `mark it "NA"`, `mark as NA`
	naPattern = regexp.MustCompile(`(?i)\bmark\s+(?:it|as|it\s+as)\s+["'\x{201c}\x{201d}]?NA["'\x{201c}\x{201d}]?`)

	// e.g. `multiply Price Including VAT with quantity for respective order id`
	// Group 1 is the first operand (normally the mapped column itself, kept only
	// for logging); group 2 is the second operand read from the same row.
	multiplyPattern = regexp.MustCompile(`(?i)\bmultiply\s+(?:the\s+)?(.+?)\s+with\s+(?:the\s+)?([^,.;]+?)(?:\s+for\s+.*)?(?:[,.;]|$)`)

	// e.g. `if sales channel is B2B then Wholesale`,
	//      `if the contract is MPABANC then it should be noon KSA`
	conditionalPattern = regexp.MustCompile(`(?i)\bif\s+(?:the\s+)?(.+?)\s+is\s+["'\x{201c}\x{201d}]?([^,"'\x{201c}\x{201d}]+?)["'\x{201c}\x{201d}]?\s*,?\s*(?:&[^,]*,?\s*)?then\s+(?:it\s+should\s+be\s+(?:marked\s+as\s+)?|consider\s+(?:it\s+)?(?:as\s+)?)?["'\x{201c}\x{201d}]?([^,."'\x{201c}\x{201d}]+)`)
)

// Parser converts free-text remarks cells into executable directives
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a new remarks parser
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger.Named("rules")}
}

// positioned pairs a parsed directive with its match offset in the remarks
// text, so one cell encoding several directives keeps textual order
type positioned struct {
	offset    int
	directive model.Directive
}

// Parse returns the directives encoded in a remarks cell, in left-to-right
// textual order. Empty, whitespace, or unrecognized text yields an empty
// slice and no error.
func (p *Parser) Parse(remarks string) []model.Directive {
	text := strings.TrimSpace(remarks)
	if text == "" {
		return nil
	}

	var found []positioned

	for _, m := range dayPattern.FindAllStringIndex(text, -1) {
		found = append(found, positioned{m[0], model.Directive{
			Kind:      model.DirectiveExtractDate,
			Component: model.ComponentDay,
		}})
	}
	for _, m := range monthPattern.FindAllStringIndex(text, -1) {
		found = append(found, positioned{m[0], model.Directive{
			Kind:      model.DirectiveExtractDate,
			Component: model.ComponentMonth,
		}})
	}
	for _, m := range yearPattern.FindAllStringIndex(text, -1) {
		found = append(found, positioned{m[0], model.Directive{
			Kind:      model.DirectiveExtractDate,
			Component: model.ComponentYear,
		}})
	}

	for _, m := range naPattern.FindAllStringIndex(text, -1) {
		found = append(found, positioned{m[0], model.Directive{Kind: model.DirectiveMarkNA}})
	}

	for _, m := range multiplyPattern.FindAllStringSubmatchIndex(text, -1) {
		other := strings.TrimSpace(text[m[4]:m[5]])
		if other == "" {
			continue
		}
		found = append(found, positioned{m[0], model.Directive{
			Kind:        model.DirectiveMultiply,
			OtherColumn: other,
		}})
	}

	for _, m := range conditionalPattern.FindAllStringSubmatchIndex(text, -1) {
		field := strings.TrimSpace(text[m[2]:m[3]])
		value := strings.TrimSpace(text[m[4]:m[5]])
		then := strings.TrimSpace(text[m[6]:m[7]])
		if field == "" || value == "" || then == "" {
			continue
		}
		found = append(found, positioned{m[0], model.Directive{
			Kind:           model.DirectiveConditional,
			ConditionField: field,
			ConditionValue: value,
			ThenValue:      then,
		}})
	}

	if len(found) == 0 {
		p.logger.Debug("Remarks text produced no directives",
			zap.String("remarks", text))
		return nil
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].offset < found[j].offset
	})

	directives := make([]model.Directive, 0, len(found))
	for _, f := range found {
		directives = append(directives, f.directive)
	}
	return directives
}
