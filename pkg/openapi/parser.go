package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-richcard/pkg/descriptor"
)

// Vendor extensions read from property schemas.
const (
	ExtensionType        = "x-richcard-type"
	ExtensionOrder       = "x-richcard-order"
	ExtensionPlaceholder = "x-richcard-placeholder"
)

// ErrOperationNotFound is returned when operationID names no operation.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// preferred request media types, most form-like first.
var mediaTypes = []string{
	"multipart/form-data",
	"application/x-www-form-urlencoded",
	"application/json",
}

// Operation is the request-body view of one OpenAPI operation.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
	Fields  []descriptor.Field
}

// Operations parses data (JSON or YAML) and returns every operation keyed by
// operationId. Operations without an id are keyed "<method>:<path>".
func Operations(ctx context.Context, data []byte) (map[string]Operation, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}

	operations := make(map[string]Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			fields, err := requestFields(op.RequestBody)
			if err != nil {
				return nil, fmt.Errorf("openapi: operation %q: %w", id, err)
			}
			operations[id] = Operation{
				ID:      id,
				Method:  method,
				Path:    path,
				Summary: op.Summary,
				Fields:  fields,
			}
		}
	}
	return operations, nil
}

// Descriptors returns the params derived from operationID's request body.
func Descriptors(ctx context.Context, data []byte, operationID string) ([]descriptor.Field, error) {
	operations, err := Operations(ctx, data)
	if err != nil {
		return nil, err
	}
	op, ok := operations[operationID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	if len(op.Fields) == 0 {
		return nil, fmt.Errorf("openapi: operation %q has no request body properties", operationID)
	}
	if err := descriptor.Validate(op.Fields); err != nil {
		return nil, fmt.Errorf("openapi: operation %q: %w", operationID, err)
	}
	return op.Fields, nil
}

func requestFields(body *openapi3.RequestBodyRef) ([]descriptor.Field, error) {
	if body == nil || body.Value == nil || len(body.Value.Content) == 0 {
		return nil, nil
	}
	content := body.Value.Content

	var media *openapi3.MediaType
	for _, name := range mediaTypes {
		if mt, ok := content[name]; ok {
			media = mt
			break
		}
	}
	if media == nil {
		names := make([]string, 0, len(content))
		for name := range content {
			names = append(names, name)
		}
		sort.Strings(names)
		media = content[names[0]]
	}
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, nil
	}

	props := map[string]*openapi3.Schema{}
	collectProperties(props, media.Schema.Value)

	type ordered struct {
		field descriptor.Field
		order int
	}
	var entries []ordered
	for name, schema := range props {
		field, ok, err := fieldFor(name, schema)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		entries = append(entries, ordered{field: field, order: orderOf(schema.Extensions[ExtensionOrder])})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].field.Param < entries[j].field.Param
	})

	fields := make([]descriptor.Field, len(entries))
	for i, entry := range entries {
		fields[i] = entry.field
	}
	return fields, nil
}

// collectProperties flattens properties declared directly or through allOf.
func collectProperties(dst map[string]*openapi3.Schema, schema *openapi3.Schema) {
	for _, ref := range schema.AllOf {
		if ref != nil && ref.Value != nil {
			collectProperties(dst, ref.Value)
		}
	}
	for name, ref := range schema.Properties {
		if ref != nil && ref.Value != nil {
			dst[name] = ref.Value
		}
	}
}

// fieldFor maps a property schema onto a descriptor. Objects and arrays are
// skipped unless the type is forced through the extension.
func fieldFor(name string, schema *openapi3.Schema) (descriptor.Field, bool, error) {
	field := descriptor.Field{
		Param: name,
		Label: strings.TrimSpace(schema.Title),
		Help:  strings.TrimSpace(schema.Description),
	}

	if raw, ok := schema.Extensions[ExtensionType]; ok {
		forced, _ := raw.(string)
		switch kind := descriptor.FieldType(strings.ToLower(strings.TrimSpace(forced))); kind {
		case descriptor.FieldTypeString, descriptor.FieldTypeButton, descriptor.FieldTypeFile:
			field.Type = kind
		default:
			return descriptor.Field{}, false, fmt.Errorf("property %q: unsupported %s %v", name, ExtensionType, raw)
		}
	} else {
		if schema.Type.Is(openapi3.TypeObject) || schema.Type.Is(openapi3.TypeArray) {
			return descriptor.Field{}, false, nil
		}
		field.Type = descriptor.FieldTypeString
		switch strings.ToLower(schema.Format) {
		case "binary", "base64":
			field.Type = descriptor.FieldTypeFile
		}
	}

	if field.Type == descriptor.FieldTypeString && schema.MaxLength != nil && *schema.MaxLength <= math.MaxInt32 {
		field.StrSize = int(*schema.MaxLength)
	}

	if placeholder, ok := schema.Extensions[ExtensionPlaceholder].(string); ok {
		field.Placeholder = placeholder
	} else if example, ok := schema.Example.(string); ok {
		field.Placeholder = example
	}
	return field, true, nil
}

// orderOf reads a numeric extension value. Missing values sort last.
func orderOf(raw any) int {
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return math.MaxInt
	}
}
