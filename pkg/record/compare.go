package record

import "fmt"

// CompareValues imposes a total order over record field values so sorting is
// deterministic across mixed-type columns: nil sorts first, then booleans
// (false before true), then numbers, then strings, then everything else by
// its formatted representation. Within numbers all integer and float widths
// compare by value.
func CompareValues(a, b any) int {
	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		return cmpInt(ra, rb)
	}
	switch ra {
	case rankNil:
		return 0
	case rankBool:
		av, bv := a.(bool), b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case rankNumber:
		af, _ := asFloat(a)
		bf, _ := asFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case rankString:
		av, bv := a.(string), b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	default:
		av, bv := fmt.Sprint(a), fmt.Sprint(b)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
}

const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankOther
)

func rankOf(v any) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case string:
		return rankString
	default:
		if _, ok := asFloat(v); ok {
			return rankNumber
		}
		return rankOther
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
