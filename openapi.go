package richcard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-richcard/pkg/descriptor"
	"github.com/goliatone/go-richcard/pkg/openapi"
)

// ImportOpenAPI loads the document at location (path or http(s) URL) and
// returns the params of operationID's request body. URL sources need
// openapi.WithHTTPClient or openapi.WithHTTPFallback.
func ImportOpenAPI(ctx context.Context, location, operationID string, options ...openapi.LoaderOption) ([]descriptor.Field, error) {
	src, err := openapi.ParseSource(location)
	if err != nil {
		return nil, err
	}
	data, err := openapi.NewLoader(options...).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	fields, err := openapi.Descriptors(ctx, data, operationID)
	if err != nil {
		return nil, fmt.Errorf("richcard: import %s: %w", location, err)
	}
	return fields, nil
}
