package confl

// ToPlain implements C7: deep-copy v, replacing every Date with its
// ISO-8601 string form. All other scalars are returned unchanged; arrays
// and objects are deep-copied so that mutating the result never affects v.
func ToPlain(v Value) Value {
	switch v.Kind() {
	case KindDate:
		return String(v.Time().UTC().Format("2006-01-02T15:04:05.000Z"))
	case KindArray:
		items := make([]Value, len(v.Items()))
		for i, item := range v.Items() {
			items[i] = ToPlain(item)
		}
		return Array(items)
	case KindObject:
		out := Object()
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			out.obj.set(key, ToPlain(child), false)
		}
		return out
	default:
		return v
	}
}
