package directory

import "encoding/json"

// Optional distinguishes a JSON field that was absent from one that was
// explicitly null. Update requests use it so that omitting a field leaves it
// unchanged while sending null clears it.
type Optional[T any] struct {
	Present bool
	Value   *T
}

// UnmarshalJSON marks the field as present; a JSON null leaves Value nil.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Set returns an Optional carrying the given value. Mostly useful in tests.
func Set[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

// Clear returns an Optional representing an explicit null.
func Clear[T any]() Optional[T] {
	return Optional[T]{Present: true}
}
