// Package model defines the field table and the FormState record shared by
// every renderer. A FormModel is an ordered list of field descriptors (name,
// label, input type, HTML constraint attributes, keystroke filter and storage
// transform) consumed by a generic rendering loop. FormState is the in-memory
// record of the current values: a fixed set of string keys that is replaced,
// never mutated, on each edit.
package model
