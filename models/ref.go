package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is implemented by every stored record that can sit behind a Ref.
type Record interface {
	RecordID() primitive.ObjectID
}

// Ref is a reference to a related record. Depending on the depth a query was
// run with it holds either the bare id or the populated value; call sites
// resolve which explicitly instead of shape-checking at runtime.
type Ref[T Record] struct {
	id    primitive.ObjectID
	value *T
}

// RefID wraps a bare, unpopulated reference.
func RefID[T Record](id primitive.ObjectID) Ref[T] {
	return Ref[T]{id: id}
}

// RefValue wraps a populated reference.
func RefValue[T Record](v T) Ref[T] {
	return Ref[T]{id: v.RecordID(), value: &v}
}

// ID is always available, populated or not.
func (r Ref[T]) ID() primitive.ObjectID { return r.id }

// Value returns the populated record and whether it was populated.
func (r Ref[T]) Value() (T, bool) {
	if r.value == nil {
		var zero T
		return zero, false
	}
	return *r.value, true
}

// Populated reports whether the reference carries the full record.
func (r Ref[T]) Populated() bool { return r.value != nil }

// MarshalJSON emits the populated record as an object, or the id as a hex
// string when unpopulated.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.value != nil {
		return json.Marshal(r.value)
	}
	return json.Marshal(r.id.Hex())
}

// UnmarshalJSON accepts either form.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var hex string
		if err := json.Unmarshal(data, &hex); err != nil {
			return err
		}
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return err
		}
		*r = Ref[T]{id: id}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ref[T]{id: v.RecordID(), value: &v}
	return nil
}
