package orders

import (
	"strconv"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

// LineItem ítem solicitado: producto y cantidad.
type LineItem struct {
	ProductID int64
	Quantity  int
}

// ParseLineItem interpreta "productId,quantity". Los espacios alrededor de cada parte se ignoran.
func ParseLineItem(raw string) (LineItem, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return LineItem{}, domain.Validation("invalid item: %q", raw)
	}
	pid, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return LineItem{}, domain.Validation("invalid item: %q", raw)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return LineItem{}, domain.Validation("invalid item: %q", raw)
	}
	if qty < 1 {
		return LineItem{}, domain.Validation("quantity must be >= 1")
	}
	return LineItem{ProductID: pid, Quantity: qty}, nil
}
