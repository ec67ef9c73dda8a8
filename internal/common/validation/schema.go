// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// searchRequestSchema is the wire contract of the lead search endpoint.
// Field presence after trimming is checked separately; the schema only
// guards structure and types.
const searchRequestSchema = `{
  "type": "object",
  "properties": {
    "businessType": {"type": "string"},
    "city": {"type": "string"},
    "includeWebsiteEmail": {"type": "boolean"}
  },
  "required": ["businessType", "city"],
  "additionalProperties": true
}`

var searchRequestLoader = gojsonschema.NewStringLoader(searchRequestSchema)

// Result carries the outcome of a schema validation.
type Result struct {
	Valid  bool
	Errors []string
}

// ErrorMessage joins the individual field errors into one line for the
// error response.
func (r *Result) ErrorMessage() string {
	return strings.Join(r.Errors, "; ")
}

// ValidateSearchRequest checks a raw JSON body against the search request
// schema. A nil error with Valid=false means the document parsed but does
// not conform; a non-nil error means the document is not valid JSON at all.
func ValidateSearchRequest(body []byte) (*Result, error) {
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(searchRequestLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("parse request body: %w", err)
	}

	if result.Valid() {
		return &Result{Valid: true}, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &Result{Valid: false, Errors: errs}, nil
}
