package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Normalize convierte un valor de campo a su forma serializable y comparable:
// decimal -> json.Number con los dígitos exactos (nunca float64), punteros -> valor o nil,
// enteros -> int64, time.Time -> RFC 3339 en UTC.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return json.Number(x.String())
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return json.Number(x.String())
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *int64:
		if x == nil {
			return nil
		}
		return *x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil || x.IsZero() {
			return nil
		}
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}

// Snapshot captura todos los campos normalizados de la entidad.
func Snapshot(e Entity) map[string]any {
	fields := e.Fields()
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = Normalize(v)
	}
	return out
}

// SameValue compara dos valores de campo tras normalizarlos.
func SameValue(a, b any) bool {
	na, nb := Normalize(a), Normalize(b)
	// json.Number puede venir con ceros a la derecha distintos ("10" vs "10.00").
	if da, ok := na.(json.Number); ok {
		if db, ok := nb.(json.Number); ok {
			x, errA := decimal.NewFromString(string(da))
			y, errB := decimal.NewFromString(string(db))
			if errA == nil && errB == nil {
				return x.Equal(y)
			}
		}
	}
	if m, ok := na.(map[string]any); ok {
		n, ok := nb.(map[string]any)
		if !ok {
			return false
		}
		ja, _ := json.Marshal(m)
		jb, _ := json.Marshal(n)
		return string(ja) == string(jb)
	}
	return na == nb
}
