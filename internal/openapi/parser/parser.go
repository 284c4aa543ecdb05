package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-spidrform/pkg/model"
)

const (
	extensionOrder     = "x-formgen-order"
	extensionInputType = "x-formgen-input-type"
	extensionInputMode = "x-formgen-inputmode"
	extensionKeyFilter = "x-formgen-keyfilter"
	extensionTransform = "x-formgen-transform"
)

var (
	errEmptyDocument   = errors.New("openapi parser: document payload is empty")
	errMissingSchema   = errors.New("openapi parser: operation has no request schema")
	errEmptyProperties = errors.New("openapi parser: request schema declares no properties")
)

// Option configures the parser.
type Option func(*Parser)

// WithLabeler overrides the label derived for properties without a title.
func WithLabeler(labeler func(string) string) Option {
	return func(p *Parser) {
		if labeler != nil {
			p.labeler = labeler
		}
	}
}

// Parser extracts a form model from an OpenAPI request body using
// kin-openapi.
type Parser struct {
	labeler func(string) string
}

// New constructs a Parser.
func New(options ...Option) *Parser {
	p := &Parser{labeler: model.DefaultLabeler}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Form loads data, validates it and converts the request schema of
// operationID into a FormModel.
func (p *Parser) Form(ctx context.Context, data []byte, operationID string) (model.FormModel, error) {
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.FormModel{}, errEmptyDocument
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return model.FormModel{}, fmt.Errorf("openapi parser: validate: %w", err)
	}

	method, path, operation, err := findOperation(spec, operationID)
	if err != nil {
		return model.FormModel{}, err
	}

	schema := requestSchema(operation.RequestBody)
	if schema == nil {
		return model.FormModel{}, fmt.Errorf("%w: %s", errMissingSchema, operationID)
	}
	if len(schema.Properties) == 0 {
		return model.FormModel{}, fmt.Errorf("%w: %s", errEmptyProperties, operationID)
	}

	fields, err := p.fields(schema)
	if err != nil {
		return model.FormModel{}, err
	}

	return model.FormModel{
		ID:       operationID,
		Title:    strings.TrimSpace(operation.Summary),
		Endpoint: path,
		Method:   method,
		Fields:   fields,
	}, nil
}

func findOperation(spec *openapi3.T, operationID string) (string, string, *openapi3.Operation, error) {
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return "", "", nil, errors.New("openapi parser: document does not contain any paths")
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return strings.ToUpper(method), path, operation, nil
			}
		}
	}
	return "", "", nil, fmt.Errorf("openapi parser: operation %q not found", operationID)
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt := content.Get(mediaType); mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func (p *Parser) fields(schema *openapi3.Schema) ([]model.Field, error) {
	for name := range schema.Properties {
		if !model.IsStateField(name) {
			return nil, fmt.Errorf("openapi parser: %w %q", model.ErrUnknownField, name)
		}
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	order, err := propertyOrder(schema)
	if err != nil {
		return nil, err
	}

	fields := make([]model.Field, 0, len(order))
	for _, name := range order {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("openapi parser: property %q has no schema", name)
		}
		fields = append(fields, p.field(name, ref.Value, required[name]))
	}
	return fields, nil
}

func (p *Parser) field(name string, prop *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		Name:      name,
		Label:     strings.TrimSpace(prop.Title),
		Type:      model.FieldTypeText,
		Required:  required,
		Pattern:   prop.Pattern,
		InputMode: stringExtension(prop.Extensions, extensionInputMode),
		KeyFilter: stringExtension(prop.Extensions, extensionKeyFilter),
		Transform: stringExtension(prop.Extensions, extensionTransform),
	}
	if field.Label == "" {
		field.Label = p.labeler(name)
	}
	if prop.MaxLength != nil {
		field.MaxLength = int(*prop.MaxLength)
	}
	if prop.Format == "email" {
		field.Type = model.FieldTypeEmail
	}
	if override := stringExtension(prop.Extensions, extensionInputType); override != "" {
		field.Type = model.FieldType(override)
	}
	return field
}

// propertyOrder honours x-formgen-order and falls back to FormState
// declaration order for anything it leaves out.
func propertyOrder(schema *openapi3.Schema) ([]string, error) {
	seen := make(map[string]bool, len(schema.Properties))
	var order []string

	if raw, ok := schema.Extensions[extensionOrder]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("openapi parser: %s must be a list", extensionOrder)
		}
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("openapi parser: %s entries must be strings", extensionOrder)
			}
			if _, exists := schema.Properties[name]; !exists {
				return nil, fmt.Errorf("openapi parser: %s references unknown property %q", extensionOrder, name)
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			order = append(order, name)
		}
	}

	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	rank := make(map[string]int)
	for i, name := range model.FieldNames() {
		rank[name] = i
	}
	sort.Slice(rest, func(i, j int) bool { return rank[rest[i]] < rank[rest[j]] })

	return append(order, rest...), nil
}

func stringExtension(extensions map[string]any, key string) string {
	value, ok := extensions[key]
	if !ok {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(str)
}
