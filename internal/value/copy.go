package value

// DeepCopy returns an independently mutable copy of a JSON-like value.
// Scalars are returned as is; maps and slices are copied recursively.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = DeepCopy(vv)
		}
		return out
	case []any:
		if t == nil {
			return []any(nil)
		}
		out := make([]any, len(t))
		for i := range t {
			out[i] = DeepCopy(t[i])
		}
		return out
	default:
		return v
	}
}

// IsContainer reports whether v is a map or slice, i.e. whether handing it out
// by reference would let the receiver mutate it.
func IsContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// Equal reports JSON equality: numbers compare by value (1 == 1.0), objects
// by key set, arrays element-wise.
func Equal(a, b any) bool {
	if IsNumber(a) || IsNumber(b) {
		c, ok := Compare(a, b)
		return ok && c == 0
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case Undef:
		return IsUndefined(b)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

// AsLimit converts a schema keyword value into a non-negative integer limit.
func AsLimit(v any) (int, bool) {
	if !IsInteger(v) {
		return 0, false
	}
	d, _ := Decimal(v)
	if d.Sign() < 0 {
		return 0, false
	}
	i, err := d.Int64()
	if err != nil || i > int64(^uint(0)>>1) {
		return 0, false
	}
	return int(i), true
}
