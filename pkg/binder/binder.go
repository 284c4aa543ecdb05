// Package binder keeps a FormState in sync with field edits, applying each
// field's storage transform before the value is recorded.
package binder

import (
	"fmt"
	"net/url"

	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/pin"
)

// TransformFunc converts a raw input into the value that gets stored.
type TransformFunc func(raw string) string

// Option configures a Binder.
type Option func(*Binder)

// WithTransform registers (or replaces) the function behind a transform name.
// A replaced pin transform still cannot store anything but digits.
func WithTransform(name string, fn TransformFunc) Option {
	return func(b *Binder) {
		if name == "" || fn == nil {
			return
		}
		b.transforms[name] = fn
	}
}

// WithInitialState seeds the binder with an existing record. Values pass
// through the field transforms so the PIN invariant holds from the start.
func WithInitialState(state model.FormState) Option {
	return func(b *Binder) {
		b.initial = &state
	}
}

// Binder owns the FormState for the lifetime of one form. It is not safe for
// concurrent use; each form view gets its own Binder.
type Binder struct {
	form       model.FormModel
	transforms map[string]TransformFunc
	state      model.FormState
	initial    *model.FormState
}

// New constructs a Binder for form starting from an all-empty FormState.
func New(form model.FormModel, options ...Option) *Binder {
	b := &Binder{
		form: form,
		transforms: map[string]TransformFunc{
			model.TransformPIN: pin.Digits,
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	if b.initial != nil {
		for _, kv := range b.initial.Values() {
			_ = b.OnFieldChange(kv.Key, kv.Value)
		}
		b.initial = nil
	}
	return b
}

// State returns the current snapshot.
func (b *Binder) State() model.FormState {
	return b.state
}

// Reset discards every edit.
func (b *Binder) Reset() {
	b.state = model.FormState{}
}

// OnFieldChange records raw under name. Fields with a storage transform store
// the transformed value; all others store raw verbatim. spidrPin is always
// reduced to at most 16 digits, whatever transform it uses. The previous
// record is replaced, never mutated in place.
func (b *Binder) OnFieldChange(name, raw string) error {
	value := raw
	if field, ok := b.form.Field(name); ok && field.Transform != model.TransformNone {
		fn, ok := b.transforms[field.Transform]
		if !ok {
			return fmt.Errorf("binder: field %q uses unknown transform %q", name, field.Transform)
		}
		value = fn(raw)
	}
	if name == model.FieldSpidrPin {
		value = pin.Digits(value)
	}

	next, err := b.state.With(name, value)
	if err != nil {
		return fmt.Errorf("binder: %w", err)
	}
	b.state = next
	return nil
}

// Bind applies every known field present in values. Unknown keys (submit
// buttons, hidden chrome inputs) are ignored.
func (b *Binder) Bind(values url.Values) error {
	for _, name := range model.FieldNames() {
		raw, ok := values[name]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := b.OnFieldChange(name, raw[len(raw)-1]); err != nil {
			return err
		}
	}
	return nil
}

// BindMap applies every known field present in values.
func (b *Binder) BindMap(values map[string]string) error {
	for _, name := range model.FieldNames() {
		raw, ok := values[name]
		if !ok {
			continue
		}
		if err := b.OnFieldChange(name, raw); err != nil {
			return err
		}
	}
	return nil
}
