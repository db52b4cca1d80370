package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/receipt"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":         "0,00",
		"30":        "30,00",
		"69.98":     "69,98",
		"1234567.5": "1.234.567,50",
		"-1000.005": "-1.000,01",
		"999.999":   "1.000,00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestReceiptGenerator_Generate(t *testing.T) {
	email := "ana@example.com"
	doc := receipt.Document{
		Order: &entity.Order{
			ID: 12, ClientID: 1, Status: entity.OrderStatusPaid,
			TotalValue: decimal.RequireFromString("69.98"),
			CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Client: &entity.Client{ID: 1, Name: "Ana", Email: &email},
		Lines: []receipt.Line{
			{ProductName: "A", Quantity: 3, UnitPrice: decimal.RequireFromString("19.99"), Subtotal: decimal.RequireFromString("59.97")},
			{ProductName: "B", Quantity: 2, UnitPrice: decimal.RequireFromString("5.005"), Subtotal: decimal.RequireFromString("10.01")},
		},
	}
	out, err := NewReceiptGenerator("Back-office").Generate(context.Background(), doc)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))

	_, err = NewReceiptGenerator("x").Generate(context.Background(), receipt.Document{})
	assert.Error(t, err)
}
