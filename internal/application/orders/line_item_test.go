package orders_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/orders"
	"github.com/jhoicas/backoffice-api/internal/domain"
)

func TestParseLineItem(t *testing.T) {
	tests := []struct {
		raw     string
		want    orders.LineItem
		message string
	}{
		{raw: "3,2", want: orders.LineItem{ProductID: 3, Quantity: 2}},
		{raw: " 3 , 2 ", want: orders.LineItem{ProductID: 3, Quantity: 2}},
		{raw: "3", message: `invalid item: "3"`},
		{raw: "3,2,1", message: `invalid item: "3,2,1"`},
		{raw: "x,2", message: `invalid item: "x,2"`},
		{raw: "3,1.5", message: `invalid item: "3,1.5"`},
		{raw: "3,0", message: "quantity must be >= 1"},
		{raw: "3,-4", message: "quantity must be >= 1"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := orders.ParseLineItem(tt.raw)
			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Equal(t, tt.message, domain.Message(err))
		})
	}
}
