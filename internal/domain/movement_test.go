package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseMovementKind(t *testing.T) {
	tests := []struct {
		in      string
		want    MovementKind
		wantErr bool
	}{
		{"CREDIT", MovementCredit, false},
		{"credit", MovementCredit, false},
		{" Receita ", MovementCredit, false},
		{"DEBIT", MovementDebit, false},
		{"despesa", MovementDebit, false},
		{"Saída", MovementDebit, false},
		{"", "", true},
		{"credito ou debito", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMovementKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMovementKind_Signed(t *testing.T) {
	v := decimal.NewFromInt(50)
	assert.True(t, MovementCredit.Signed(v).Equal(decimal.NewFromInt(50)))
	assert.True(t, MovementDebit.Signed(v).Equal(decimal.NewFromInt(-50)))
}
