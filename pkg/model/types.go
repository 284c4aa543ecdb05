package model

// FieldType mirrors the HTML input type rendered for a field.
type FieldType string

const (
	FieldTypeText  FieldType = "text"
	FieldTypeTel   FieldType = "tel"
	FieldTypeEmail FieldType = "email"
)

// Keystroke filters applied by the presentation layer only. They are hints
// for the browser runtime and never affect stored values.
const (
	KeyFilterNone   = ""
	KeyFilterDigits = "digits"
)

// Storage transforms applied by the binder before a value reaches FormState.
const (
	TransformNone = ""
	TransformPIN  = "pin"
)

// Field describes a single input of the form. Constraint attributes (Pattern,
// MaxLength, Required) are emitted verbatim as HTML attributes and reused by
// the terminal prompts.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Label       string            `json:"label" yaml:"label"`
	Type        FieldType         `json:"type" yaml:"type"`
	Required    bool              `json:"required" yaml:"required"`
	Pattern     string            `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MaxLength   int               `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	InputMode   string            `json:"inputMode,omitempty" yaml:"inputMode,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	KeyFilter   string            `json:"keyFilter,omitempty" yaml:"keyFilter,omitempty"`
	Transform   string            `json:"transform,omitempty" yaml:"transform,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsPIN reports whether the field stores a PIN.
func (f Field) IsPIN() bool {
	return f.Transform == TransformPIN
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID       string            `json:"id"`
	Title    string            `json:"title,omitempty"`
	Endpoint string            `json:"endpoint"`
	Method   string            `json:"method"`
	Fields   []Field           `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Field returns the descriptor registered under name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// PINField returns the first field carrying the PIN transform.
func (m FormModel) PINField() (Field, bool) {
	for _, field := range m.Fields {
		if field.IsPIN() {
			return field, true
		}
	}
	return Field{}, false
}
