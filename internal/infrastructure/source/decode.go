package source

import (
	"bytes"
	"crypto/subtle"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/productfilter/backend/internal/domain"
)

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

const catalogSchemaURL = "catalog.schema.json"

// compileCatalogSchema compiles the embedded upstream payload schema
func compileCatalogSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing catalog schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(catalogSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding catalog schema resource: %w", err)
	}

	schema, err := compiler.Compile(catalogSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling catalog schema: %w", err)
	}
	return schema, nil
}

// DecodeCatalog validates body against the catalog schema and decodes it.
// A null or missing product list decodes to an empty slice.
func DecodeCatalog(schema *jsonschema.Schema, body []byte) (*domain.Catalog, error) {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	if catalog.Products == nil {
		catalog.Products = []domain.Product{}
	}

	return &catalog, nil
}

// VerifyCredential compares the upstream credential against the expected one.
// Both fields must match exactly; a nil credential never matches.
func VerifyCredential(got *domain.Credential, expected domain.Credential) bool {
	if got == nil {
		return false
	}
	primaryOK := subtle.ConstantTimeCompare([]byte(got.Primary), []byte(expected.Primary)) == 1
	secondaryOK := subtle.ConstantTimeCompare([]byte(got.Secondary), []byte(expected.Secondary)) == 1
	return primaryOK && secondaryOK
}

// payloadKind names the top-level JSON kind of body for diagnostics
func payloadKind(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "empty"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		if trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9') {
			return "number"
		}
		return "unknown"
	}
}
