package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/usecase/report"
)

// CSVFormat describes a header-driven CSV statement layout.
// Columns are located by header name, so column order does not matter.
type CSVFormat struct {
	Name         string
	DateLayout   string
	Delimiter    rune
	DecimalComma bool // "1.234,56" instead of "1,234.56"

	DateHeaders        []string
	DescriptionHeaders []string
	AmountHeaders      []string // Signed: negative is a debit

	// Rows whose folded description starts with one of these are skipped
	SkipPrefixes []string
}

// GenericCSV is an ISO dated, comma separated export with English headers
var GenericCSV = CSVFormat{
	Name:               "csv",
	DateLayout:         "2006-01-02",
	Delimiter:          ',',
	DateHeaders:        []string{"date", "posting date", "transaction date", "data"},
	DescriptionHeaders: []string{"description", "memo", "payee", "descricao", "historico"},
	AmountHeaders:      []string{"amount", "value", "valor"},
	SkipPrefixes:       []string{"opening balance", "closing balance"},
}

// BrazilianCSV is the semicolon separated layout common to Brazilian banks
var BrazilianCSV = CSVFormat{
	Name:               "csv-br",
	DateLayout:         "02/01/2006",
	Delimiter:          ';',
	DecimalComma:       true,
	DateHeaders:        []string{"data", "data lancamento", "data movimento", "date"},
	DescriptionHeaders: []string{"descricao", "historico", "lancamento", "description"},
	AmountHeaders:      []string{"valor", "valor (r$)", "amount"},
	SkipPrefixes:       []string{"saldo"},
}

// CSVParser parses statements laid out as Format
type CSVParser struct {
	Layout CSVFormat
}

// NewCSVParser creates a parser for format
func NewCSVParser(format CSVFormat) *CSVParser {
	return &CSVParser{Layout: format}
}

// Format returns the parser name
func (p *CSVParser) Format() string { return p.Layout.Name }

type csvColumns struct {
	date, desc, amount int
}

// Parse reads the statement and returns one Line per movement row.
// Zero amounts and balance rows are skipped.
func (p *CSVParser) Parse(r io.Reader) ([]Line, error) {
	f := p.Layout
	cr := csv.NewReader(r)
	cr.Comma = f.Delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s statement: %w", f.Name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := f.locate(records[0])
	if err != nil {
		return nil, err
	}

	var lines []Line
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		line, skip, err := f.parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if !skip {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (f CSVFormat) locate(header []string) (csvColumns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := report.Fold(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	find := func(what string, names []string) (int, error) {
		for _, n := range names {
			if i, ok := index[report.Fold(n)]; ok {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%s statement has no %s column (want one of %s)", f.Name, what, strings.Join(names, ", "))
	}

	var cols csvColumns
	var err error
	if cols.date, err = find("date", f.DateHeaders); err != nil {
		return cols, err
	}
	if cols.desc, err = find("description", f.DescriptionHeaders); err != nil {
		return cols, err
	}
	if cols.amount, err = find("amount", f.AmountHeaders); err != nil {
		return cols, err
	}
	return cols, nil
}

func (f CSVFormat) parseRow(rec []string, cols csvColumns) (Line, bool, error) {
	get := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	desc := get(cols.desc)
	folded := report.Fold(desc)
	for _, prefix := range f.SkipPrefixes {
		if strings.HasPrefix(folded, report.Fold(prefix)) {
			return Line{}, true, nil
		}
	}

	rawDate := get(cols.date)
	date, err := parseCivilDate(f.DateLayout, rawDate)
	if err != nil {
		return Line{}, false, fmt.Errorf("parsing date %q: %w", rawDate, err)
	}

	rawAmount := get(cols.amount)
	amount, err := f.parseAmount(rawAmount)
	if err != nil {
		return Line{}, false, fmt.Errorf("parsing amount %q: %w", rawAmount, err)
	}
	if amount.IsZero() {
		return Line{}, true, nil
	}

	kind := domain.MovementCredit
	if amount.IsNegative() {
		kind = domain.MovementDebit
	}

	return Line{
		Date:        date,
		Description: desc,
		Value:       amount.Abs(),
		Kind:        kind,
	}, false, nil
}

func (f CSVFormat) parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}

	if f.DecimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func parseCivilDate(layout, s string) (civil.Date, error) {
	if layout == "" || layout == "2006-01-02" {
		return civil.ParseDate(s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return civil.Date{}, err
	}
	return civil.DateOf(t), nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
