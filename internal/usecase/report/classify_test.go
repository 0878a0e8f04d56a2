package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "devolucao de vendas", Fold("  Devolução de Vendas "))
	assert.Equal(t, "materia prima", Fold("MATÉRIA PRIMA"))
	assert.Equal(t, "materia prima", Fold("Matéria-prima"))
	assert.Equal(t, "posting date", Fold("Posting_Date"))
	assert.Equal(t, "", Fold(""))
}

func TestClassifier_Classify(t *testing.T) {
	c := DefaultClassifier()

	tests := []struct {
		name     string
		category string
		kind     domain.MovementKind
		want     Bucket
	}{
		{"tax keyword", "Impostos sobre vendas", domain.MovementDebit, BucketTaxes},
		{"fee as tax", "Taxa municipal", domain.MovementDebit, BucketTaxes},
		{"simples nacional", "DAS Simples Nacional", domain.MovementDebit, BucketTaxes},
		{"deduction with accent", "Devolução de clientes", domain.MovementDebit, BucketDeductions},
		{"goods", "Compra de Mercadorias", domain.MovementDebit, BucketCostOfGoods},
		{"freight", "FRETE", domain.MovementDebit, BucketCostOfGoods},
		{"supplier", "Fornecedores", domain.MovementDebit, BucketCostOfGoods},
		{"interest", "Juros pagos", domain.MovementDebit, BucketFinancial},
		{"yield is financial credit", "Rendimento de aplicação", domain.MovementCredit, BucketFinancial},
		{"non operating", "Venda de imobilizado", domain.MovementCredit, BucketNonOperating},
		{"unknown credit", "Vendas", domain.MovementCredit, BucketRevenue},
		{"unknown debit", "Aluguel", domain.MovementDebit, BucketOperatingExpense},
		{"uncategorized credit", "", domain.MovementCredit, BucketRevenue},
		{"uncategorized debit", "", domain.MovementDebit, BucketOperatingExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.category, tt.kind))
		})
	}
}

func TestClassifier_RuleOrder(t *testing.T) {
	c := NewClassifier([]KeywordRule{
		{Bucket: BucketFinancial, Keywords: []string{"juros"}},
		{Bucket: BucketTaxes, Keywords: []string{"Multa"}},
	}, nil)

	assert.Equal(t, BucketFinancial, c.Classify("Multa e juros", domain.MovementDebit))
	assert.Equal(t, BucketTaxes, c.Classify("multa", domain.MovementDebit))
}

func TestClassifier_IsVariableCost(t *testing.T) {
	c := DefaultClassifier()

	assert.True(t, c.IsVariableCost("Comissão de vendedores"))
	assert.True(t, c.IsVariableCost("Embalagens"))
	assert.True(t, c.IsVariableCost("Comissões"))
	assert.True(t, c.IsVariableCost("Comissão"))
	assert.True(t, c.IsVariableCost("Matéria-prima"))
	assert.True(t, c.IsVariableCost("MATÉRIA PRIMA importada"))
	assert.False(t, c.IsVariableCost("Aluguel"))
	assert.False(t, c.IsVariableCost(""))
}
