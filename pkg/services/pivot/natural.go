package pivot

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/maruel/natural"
)

// FormatKey renders a group key value as text. Whole floats drop their fraction.
func FormatKey(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// NaturalLess is a total order over group keys. Finite numbers sort first by value;
// all other keys follow in natural order, so "TERMINAL 2" sorts before "TERMINAL 10".
// Keys that compare equal under either rule fall back to byte order.
func NaturalLess(a, b string) bool {
	fa, numA := finite(a)
	fb, numB := finite(b)
	switch {
	case numA && numB:
		if fa != fb {
			return fa < fb
		}
	case numA != numB:
		return numA
	default:
		if natural.Less(a, b) {
			return true
		}
		if natural.Less(b, a) {
			return false
		}
	}
	return a < b
}

func finite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
