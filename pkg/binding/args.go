package binding

// Args holds bound handler arguments; Args[i] belongs to the i-th
// declared binding. Query bindings produce a Value, body bindings the
// decoded body.
type Args []any

// Value returns the coerced query value at i. It returns the zero Value
// if i is out of range or not a query binding.
func (a Args) Value(i int) Value {
	if i < 0 || i >= len(a) {
		return Value{}
	}
	v, _ := a[i].(Value)
	return v
}

// Int returns the integer at i and whether the value coerced to an int.
func (a Args) Int(i int) (int64, bool) {
	v := a.Value(i)
	return v.Int, v.Kind == KindInt
}

// Float returns the value at i as a float64. Integers are widened.
func (a Args) Float(i int) (float64, bool) {
	v := a.Value(i)
	switch v.Kind {
	case KindFloat:
		return v.Float, true
	case KindInt:
		return float64(v.Int), true
	}
	return 0, false
}

// Bool returns the boolean at i and whether the value coerced to a bool.
func (a Args) Bool(i int) (bool, bool) {
	v := a.Value(i)
	return v.Bool, v.Kind == KindBool
}

// String returns the raw query text at i regardless of its coerced kind.
func (a Args) String(i int) string {
	return a.Value(i).Raw
}

// BodyAs returns the decoded body at i as a T.
func BodyAs[T any](a Args, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(a) {
		return zero, false
	}
	v, ok := a[i].(T)
	return v, ok
}
