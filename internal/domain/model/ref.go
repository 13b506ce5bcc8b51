package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Identifiable is implemented by every type that can be referenced by id.
type Identifiable interface {
	RefID() string
}

// Ref is a reference that the backend delivers either as a bare id string or
// as the fully populated object, depending on the endpoint. It is one of:
//
//	Id(string)  the object was not populated
//	Inline(T)   the object was populated
//
// The zero Ref is empty (JSON null).
type Ref[T Identifiable] struct {
	id     string
	inline *T
}

// RefOf returns an id-only reference.
func RefOf[T Identifiable](id string) Ref[T] {
	return Ref[T]{id: id}
}

// InlineRef returns a populated reference.
func InlineRef[T Identifiable](v T) Ref[T] {
	return Ref[T]{id: v.RefID(), inline: &v}
}

// ID returns the referenced id for both variants.
func (r Ref[T]) ID() string {
	if r.inline != nil {
		return (*r.inline).RefID()
	}
	return r.id
}

// Inline narrows the reference to its populated variant.
func (r Ref[T]) Inline() (T, bool) {
	if r.inline == nil {
		var zero T
		return zero, false
	}
	return *r.inline, true
}

// IsInline reports whether the object was populated.
func (r Ref[T]) IsInline() bool { return r.inline != nil }

// IsZero reports whether the reference is empty.
func (r Ref[T]) IsZero() bool { return r.inline == nil && r.id == "" }

// UnmarshalJSON accepts a string, an object, or null.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = Ref[T]{}
		return nil
	case data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref[T]{id: id}
		return nil
	case data[0] == '{':
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*r = InlineRef(v)
		return nil
	default:
		return fmt.Errorf("reference must be a string or an object, got %s", data)
	}
}

// MarshalJSON writes the variant back in the shape it was received.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	switch {
	case r.inline != nil:
		return json.Marshal(*r.inline)
	case r.id != "":
		return json.Marshal(r.id)
	default:
		return []byte("null"), nil
	}
}
