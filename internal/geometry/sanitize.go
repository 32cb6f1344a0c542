package geometry

import "math"

// LowerBound clamps a numeric value to lower. Values that are not numeric
// (including nil pointers) report ok=false so the caller's default applies.
// Upper bounds are left to the windowing subsystem.
func LowerBound(value any, lower int) (v int, ok bool) {
	n, ok := toInt(value)
	if !ok {
		return 0, false
	}
	if n < lower {
		return lower, true
	}
	return n, true
}

// Sanitize applies LowerBound to every field of g. Absent fields stay absent.
func Sanitize(g Geometry, lower int) Geometry {
	return Geometry{
		Width:  sanitizeField(g.Width, lower),
		Height: sanitizeField(g.Height, lower),
		Left:   sanitizeField(g.Left, lower),
		Top:    sanitizeField(g.Top, lower),
	}
}

func sanitizeField(p *int, lower int) *int {
	v, ok := LowerBound(p, lower)
	if !ok {
		return nil
	}
	return Int(v)
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return clampUint(uint64(v)), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return clampUint(uint64(v)), true
	case uint64:
		return clampUint(v), true
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case *int:
		if v == nil {
			return 0, false
		}
		return *v, true
	case *float64:
		if v == nil {
			return 0, false
		}
		return floatToInt(*v)
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	if math.IsInf(f, 1) || f > math.MaxInt {
		return math.MaxInt, true
	}
	if math.IsInf(f, -1) || f < math.MinInt {
		return math.MinInt, true
	}
	return int(f), true
}

func clampUint(u uint64) int {
	if u > math.MaxInt {
		return math.MaxInt
	}
	return int(u)
}
