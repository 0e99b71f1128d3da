package enrich

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float convierte cualquier escalar en un float64 finito. Nil, texto no
// numérico, NaN, infinitos y tipos desconocidos dan 0.
func Float(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case json.Number:
		return parse(string(x))
	case string:
		return parse(x)
	case *float64:
		if x == nil {
			return 0
		}
		f = *x
	case *string:
		if x == nil {
			return 0
		}
		return parse(*x)
	default:
		return 0
	}
	return finite(f)
}

func parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
