package importer

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

const rulesYAML = `
rules:
  - keyword: energia
    category: Energia Elétrica
    kind: debit
  - keyword: pix recebido
    category: Receita de Serviços
    kind: credit
    priority: -1
categories:
  - name: Tarifas Bancárias
    keywords: [tarifa, "pacote de serviços"]
  - name: Fornecedores
    kind: DEBIT
    priority: 5
    keywords: [fornecedor]
`

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte(rulesYAML))
	require.NoError(t, err)
	require.Len(t, rules, 5)

	assert.Equal(t, "energia", rules[0].Keyword)
	assert.Equal(t, domain.MovementDebit, rules[0].Kind)
	assert.Equal(t, "Tarifas Bancárias", rules[2].CategoryName)
	assert.Equal(t, "pacote de serviços", rules[3].Keyword)
	assert.Equal(t, domain.MovementKind(""), rules[3].Kind)
}

func TestParseRules_KindAliases(t *testing.T) {
	rules, err := ParseRules([]byte(`
rules:
  - keyword: pix recebido
    category: Receita de Serviços
    kind: receita
  - keyword: boleto
    category: Fornecedores
    kind: expense
categories:
  - name: Vendas
    kind: Income
    keywords: [venda]
`))
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, domain.MovementCredit, rules[0].Kind)
	assert.Equal(t, domain.MovementDebit, rules[1].Kind)
	assert.Equal(t, domain.MovementCredit, rules[2].Kind)

	_, err = ParseRules([]byte("categories:\n  - name: y\n    kind: sideways\n    keywords: [x]\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseRules_Invalid(t *testing.T) {
	_, err := ParseRules([]byte("rules:\n  - keyword: x\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParseRules([]byte("rules:\n  - keyword: x\n    category: y\n    kind: sideways\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParseRules([]byte("rules: [[["))
	assert.Error(t, err)
}

func TestRuleClassifier_Classify(t *testing.T) {
	rules, err := ParseRules([]byte(rulesYAML))
	require.NoError(t, err)
	c := NewRuleClassifier(rules)

	tests := []struct {
		desc     string
		kind     domain.MovementKind
		want     string
		wantFind bool
	}{
		{"PAGTO ENERGIA CPFL", domain.MovementDebit, "Energia Elétrica", true},
		{"Estorno ENERGIA", domain.MovementCredit, "", false},
		{"PIX RECEBIDO CLIENTE", domain.MovementCredit, "Receita de Serviços", true},
		{"TARIFA BANCÁRIA", domain.MovementDebit, "Tarifas Bancárias", true},
		{"Pacote de Servicos", domain.MovementDebit, "Tarifas Bancárias", true},
		{"unknown", domain.MovementDebit, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := c.Classify(tt.desc, tt.kind)
			assert.Equal(t, tt.wantFind, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleClassifier_Priority(t *testing.T) {
	c := NewRuleClassifier([]domain.CategoryRule{
		{Keyword: "fornecedor", CategoryName: "Fornecedores", Priority: 5},
		{Keyword: "fornecedor energia", CategoryName: "Energia", Priority: 1},
		{Keyword: "fornecedor", CategoryName: "Ignored", Priority: 5},
	})

	got, ok := c.Classify("FORNECEDOR ENERGIA SA", domain.MovementDebit)
	require.True(t, ok)
	assert.Equal(t, "Energia", got)

	got, _ = c.Classify("Fornecedor X", domain.MovementDebit)
	assert.Equal(t, "Fornecedores", got, "ties keep file order")
}

func TestRuleClassifier_Assign(t *testing.T) {
	rules, err := ParseRules([]byte(rulesYAML))
	require.NoError(t, err)
	c := NewRuleClassifier(rules)

	bankID := uuid.New()
	energy := &domain.Category{ID: uuid.New(), Name: "energia eletrica"}
	lines := []Line{
		{Date: civil.Date{Year: 2024, Month: 3, Day: 5}, Description: "PAGTO ENERGIA", Value: decimal.NewFromFloat(89.9), Kind: domain.MovementDebit},
		{Date: civil.Date{Year: 2024, Month: 3, Day: 6}, Description: "TARIFA", Value: decimal.NewFromInt(10), Kind: domain.MovementDebit},
		{Date: civil.Date{Year: 2024, Month: 3, Day: 7}, Description: "TARIFA 2", Value: decimal.NewFromInt(10), Kind: domain.MovementDebit},
		{Date: civil.Date{Year: 2024, Month: 3, Day: 8}, Description: "SOMETHING", Value: decimal.NewFromInt(1), Kind: domain.MovementCredit},
	}

	got := c.Assign(bankID, lines, []*domain.Category{energy})

	require.Len(t, got.Candidates, 4)
	assert.Equal(t, 1, got.Classified)
	assert.Equal(t, []string{"Tarifas Bancárias"}, got.Unknown)
	require.NotNil(t, got.Candidates[0].CategoryID)
	assert.Equal(t, energy.ID, *got.Candidates[0].CategoryID)
	assert.Nil(t, got.Candidates[1].CategoryID)
	for _, cand := range got.Candidates {
		assert.Equal(t, bankID, cand.BankAccountID)
		assert.NoError(t, cand.Validate())
	}
}
