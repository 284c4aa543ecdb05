package model

import (
	"errors"
	"fmt"
)

// Field names of the interest form. FormState carries exactly these keys.
const (
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldPhone        = "phone"
	FieldEmail        = "email"
	FieldAirFryerCost = "airFryerCost"
	FieldSpidrPin     = "spidrPin"
)

// ErrUnknownField is returned when a name does not match any FormState key.
var ErrUnknownField = errors.New("model: unknown field")

var fieldNames = []string{
	FieldFirstName,
	FieldLastName,
	FieldPhone,
	FieldEmail,
	FieldAirFryerCost,
	FieldSpidrPin,
}

// FormState is the in-memory record of the current field values. The zero
// value is the initial state: every key present, every value empty. Methods
// use value receivers; With returns a new record and leaves the receiver
// untouched.
type FormState struct {
	FirstName    string `json:"firstName" yaml:"firstName"`
	LastName     string `json:"lastName" yaml:"lastName"`
	Phone        string `json:"phone" yaml:"phone"`
	Email        string `json:"email" yaml:"email"`
	AirFryerCost string `json:"airFryerCost" yaml:"airFryerCost"`
	SpidrPin     string `json:"spidrPin" yaml:"spidrPin"`
}

// KeyValue is a single FormState entry.
type KeyValue struct {
	Key   string
	Value string
}

// FieldNames returns the FormState keys in declaration order.
func FieldNames() []string {
	return append([]string(nil), fieldNames...)
}

// IsStateField reports whether name is a FormState key.
func IsStateField(name string) bool {
	for _, candidate := range fieldNames {
		if candidate == name {
			return true
		}
	}
	return false
}

// Get returns the value stored under name.
func (s FormState) Get(name string) (string, error) {
	switch name {
	case FieldFirstName:
		return s.FirstName, nil
	case FieldLastName:
		return s.LastName, nil
	case FieldPhone:
		return s.Phone, nil
	case FieldEmail:
		return s.Email, nil
	case FieldAirFryerCost:
		return s.AirFryerCost, nil
	case FieldSpidrPin:
		return s.SpidrPin, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownField, name)
	}
}

// Value is Get without the error; unknown names read as empty.
func (s FormState) Value(name string) string {
	value, _ := s.Get(name)
	return value
}

// With returns a copy of s with name set to value.
func (s FormState) With(name, value string) (FormState, error) {
	next := s
	switch name {
	case FieldFirstName:
		next.FirstName = value
	case FieldLastName:
		next.LastName = value
	case FieldPhone:
		next.Phone = value
	case FieldEmail:
		next.Email = value
	case FieldAirFryerCost:
		next.AirFryerCost = value
	case FieldSpidrPin:
		next.SpidrPin = value
	default:
		return s, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	return next, nil
}

// Values lists every key with its value in declaration order.
func (s FormState) Values() []KeyValue {
	out := make([]KeyValue, 0, len(fieldNames))
	for _, name := range fieldNames {
		out = append(out, KeyValue{Key: name, Value: s.Value(name)})
	}
	return out
}

// Map returns the state as a plain map keyed by field name.
func (s FormState) Map() map[string]string {
	out := make(map[string]string, len(fieldNames))
	for _, kv := range s.Values() {
		out[kv.Key] = kv.Value
	}
	return out
}
