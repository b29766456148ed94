package submit

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed contract/submit.yaml
var defaultContract []byte

// DefaultOperationID names the submission operation in the bundled contract.
const DefaultOperationID = "submitApplication"

// ContractIssue is one schema violation.
type ContractIssue struct {
	Field   string
	Message string
}

// ContractError lists every violation found in a document.
type ContractError struct {
	Target string
	Issues []ContractIssue
}

func (e *ContractError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("submit contract: %s: %s", e.Target, strings.Join(parts, "; "))
}

// Contract validates payloads and acknowledgements against an OpenAPI
// operation.
type Contract struct {
	request  *openapi3.Schema
	response *openapi3.Schema
}

// LoadDefaultContract parses the bundled contract.
func LoadDefaultContract(ctx context.Context) (*Contract, error) {
	return LoadContract(ctx, defaultContract, DefaultOperationID)
}

// LoadContract parses an OpenAPI 3 document and extracts the JSON request
// and 200 response schemas of operationID.
func LoadContract(ctx context.Context, raw []byte, operationID string) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("submit contract: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("submit contract: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("submit contract: invalid document: %w", err)
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return nil, fmt.Errorf("submit contract: operation %q not found", operationID)
	}

	c := &Contract{}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		if media := op.RequestBody.Value.Content.Get("application/json"); media != nil && media.Schema != nil {
			c.request = media.Schema.Value
		}
	}
	if op.Responses != nil {
		if ref := op.Responses.Status(200); ref != nil && ref.Value != nil {
			if media := ref.Value.Content.Get("application/json"); media != nil && media.Schema != nil {
				c.response = media.Schema.Value
			}
		}
	}
	if c.request == nil {
		return nil, fmt.Errorf("submit contract: operation %q has no JSON request schema", operationID)
	}
	return c, nil
}

// ValidateRequest checks an outgoing payload.
func (c *Contract) ValidateRequest(p Payload) error {
	if c == nil || c.request == nil {
		return nil
	}
	doc, err := p.JSON()
	if err != nil {
		return err
	}
	return visit(c.request, doc, "request")
}

// ValidateResponse checks a decoded acknowledgement body.
func (c *Contract) ValidateResponse(body map[string]any) error {
	if c == nil || c.response == nil {
		return nil
	}
	return visit(c.response, body, "response")
}

func visit(schema *openapi3.Schema, value any, target string) error {
	err := schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return &ContractError{Target: target, Issues: issuesFromError(err)}
}

func issuesFromError(err error) []ContractIssue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []ContractIssue
		for _, inner := range multi {
			out = append(out, issuesFromError(inner)...)
		}
		return out
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return []ContractIssue{{
			Field:   strings.Join(schemaErr.JSONPointer(), "."),
			Message: strings.TrimSpace(schemaErr.Reason),
		}}
	}
	return []ContractIssue{{Message: strings.TrimSpace(err.Error())}}
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}
