package openapi

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/goliatone/go-spidrform/internal/openapi/parser"
	"github.com/goliatone/go-spidrform/pkg/model"
)

//go:embed interest.yaml
var interestDocument []byte

// InterestDocument returns the embedded OpenAPI document for the interest
// form.
func InterestDocument() []byte {
	return append([]byte(nil), interestDocument...)
}

// Parse builds the form model for operationID from raw JSON or YAML.
func Parse(ctx context.Context, data []byte, operationID string) (model.FormModel, error) {
	return parser.New().Form(ctx, data, operationID)
}

// ParseFile reads path and builds the form model for operationID.
func ParseFile(ctx context.Context, path, operationID string) (model.FormModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return Parse(ctx, data, operationID)
}

// Interest parses the embedded document.
func Interest(ctx context.Context) (model.FormModel, error) {
	return Parse(ctx, interestDocument, model.InterestFormID)
}
