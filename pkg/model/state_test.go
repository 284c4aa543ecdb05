package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-spidrform/pkg/model"
)

func TestFormState_ZeroValueHasAllKeys(t *testing.T) {
	var state model.FormState

	want := map[string]string{
		"firstName":    "",
		"lastName":     "",
		"phone":        "",
		"email":        "",
		"airFryerCost": "",
		"spidrPin":     "",
	}
	if diff := cmp.Diff(want, state.Map()); diff != "" {
		t.Fatalf("zero state mismatch (-want +got):\n%s", diff)
	}
}

func TestFormState_WithReturnsCopy(t *testing.T) {
	original := model.FormState{FirstName: "Ada"}

	next, err := original.With(model.FieldLastName, "Lovelace")
	if err != nil {
		t.Fatalf("with: %v", err)
	}
	if original.LastName != "" {
		t.Fatalf("receiver mutated: %+v", original)
	}
	if next.FirstName != "Ada" || next.LastName != "Lovelace" {
		t.Fatalf("unexpected next state: %+v", next)
	}
}

func TestFormState_UnknownField(t *testing.T) {
	state := model.FormState{Email: "ada@gmail.com"}

	next, err := state.With("nickname", "ada")
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if next != state {
		t.Fatalf("state changed on error: %+v", next)
	}
	if _, err := state.Get("nickname"); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField from Get, got %v", err)
	}
}

func TestFormState_ValuesOrder(t *testing.T) {
	state := model.FormState{Phone: "5551234567", SpidrPin: "1234"}

	var keys []string
	for _, kv := range state.Values() {
		keys = append(keys, kv.Key)
	}
	if diff := cmp.Diff(model.FieldNames(), keys); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if got := state.Value(model.FieldSpidrPin); got != "1234" {
		t.Fatalf("spidrPin = %q", got)
	}
}

func TestInterestForm_FieldsMatchState(t *testing.T) {
	form := model.InterestForm()

	var names []string
	for _, field := range form.Fields {
		names = append(names, field.Name)
		if !field.Required {
			t.Fatalf("field %s should be required", field.Name)
		}
	}
	if diff := cmp.Diff(model.FieldNames(), names); diff != "" {
		t.Fatalf("field table mismatch (-want +got):\n%s", diff)
	}

	pin, ok := form.PINField()
	if !ok || pin.Name != model.FieldSpidrPin {
		t.Fatalf("expected spidrPin to carry the PIN transform, got %+v", pin)
	}
	phone, _ := form.Field(model.FieldPhone)
	if phone.KeyFilter != model.KeyFilterDigits || phone.Transform != model.TransformNone {
		t.Fatalf("phone must filter keystrokes only: %+v", phone)
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"firstName":    "First Name",
		"airFryerCost": "Air Fryer Cost",
		"spidr_pin":    "Spidr Pin",
		"pin16digits":  "Pin 16 Digits",
		"":             "",
	}
	for input, want := range cases {
		if got := model.DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}
