package report

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// Bucket is an income statement line
type Bucket string

const (
	BucketRevenue          Bucket = "revenue"
	BucketDeductions       Bucket = "deductions"
	BucketCostOfGoods      Bucket = "cost_of_goods"
	BucketOperatingExpense Bucket = "operating_expense"
	BucketFinancial        Bucket = "financial"
	BucketNonOperating     Bucket = "non_operating"
	BucketTaxes            Bucket = "taxes"
)

// KeywordRule routes category names containing any keyword to a bucket
type KeywordRule struct {
	Bucket   Bucket
	Keywords []string
}

// DefaultRules is the income statement keyword table. Rules are evaluated in
// order and the first rule with a matching keyword wins.
var DefaultRules = []KeywordRule{
	{Bucket: BucketTaxes, Keywords: []string{"imposto", "taxa", "tributo", "irpj", "csll", "simples nacional", "icms", "cofins"}},
	{Bucket: BucketDeductions, Keywords: []string{"devolucao", "abatimento", "desconto concedido", "estorno de venda"}},
	{Bucket: BucketCostOfGoods, Keywords: []string{"mercadoria", "frete", "fornecedor", "materia prima", "insumo", "cmv", "custo"}},
	{Bucket: BucketFinancial, Keywords: []string{"juros", "tarifa banc", "rendimento", "aplicacao", "iof", "multa", "financeir"}},
	{Bucket: BucketNonOperating, Keywords: []string{"nao operacional", "venda de ativo", "venda de imobilizado", "indenizacao", "doacao"}},
}

// DefaultVariableCostKeywords marks categories that scale with sales.
// Keywords are stems so plurals match too.
var DefaultVariableCostKeywords = []string{
	"mercadoria", "frete", "fornecedor", "materia prima", "insumo", "cmv", "comiss", "embalag",
}

// Classifier buckets category names with case and accent insensitive
// substring matching
type Classifier struct {
	rules    []KeywordRule
	variable []string
}

// NewClassifier creates a classifier from a keyword table
func NewClassifier(rules []KeywordRule, variableCost []string) *Classifier {
	c := &Classifier{
		rules:    make([]KeywordRule, 0, len(rules)),
		variable: foldAll(variableCost),
	}
	for _, r := range rules {
		c.rules = append(c.rules, KeywordRule{Bucket: r.Bucket, Keywords: foldAll(r.Keywords)})
	}
	return c
}

// DefaultClassifier uses DefaultRules and DefaultVariableCostKeywords
func DefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules, DefaultVariableCostKeywords)
}

// Classify returns the bucket for a category name. Names matching no keyword
// fall back to revenue for credits and operating expense for debits.
func (c *Classifier) Classify(categoryName string, kind domain.MovementKind) Bucket {
	name := Fold(categoryName)
	if name != "" {
		for _, r := range c.rules {
			if containsAny(name, r.Keywords) {
				return r.Bucket
			}
		}
	}
	if kind == domain.MovementCredit {
		return BucketRevenue
	}
	return BucketOperatingExpense
}

// IsVariableCost reports whether a category name is in the variable cost set
func (c *Classifier) IsVariableCost(categoryName string) bool {
	name := Fold(categoryName)
	return name != "" && containsAny(name, c.variable)
}

var separators = strings.NewReplacer("-", " ", "_", " ")

// Fold lowercases s and strips diacritics, so "Devolução" folds to "devolucao".
// Hyphens and underscores become spaces: "Matéria-prima" folds to "materia prima".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(separators.Replace(out)))
}

func foldAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if f := Fold(k); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func containsAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}
