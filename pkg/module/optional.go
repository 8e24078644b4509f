package module

import "encoding/json"

// Optional distinguishes "not specified" from any value of T, including the
// zero value and nil. It is used for sparse patches where a JSON null must
// still override.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// Or returns o when set, otherwise fallback.
func (o Optional[T]) Or(fallback Optional[T]) Optional[T] {
	if o.Set {
		return o
	}
	return fallback
}

// ValueOr returns the held value, or def when o is not set.
func (o Optional[T]) ValueOr(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

// IsZero makes unset optionals disappear under the omitzero tag option.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	o.Set = true
	return nil
}
