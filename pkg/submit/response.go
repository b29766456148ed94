package submit

import (
	"encoding/json"
	"fmt"
)

// Response is the decoded acknowledgement.
type Response struct {
	Success    bool
	Extra      map[string]any
	StatusCode int
	RequestID  string
}

// DecodeResponse parses an acknowledgement body. Only a JSON object is
// accepted; a missing or non-boolean "success" leaves Success false.
func DecodeResponse(body []byte) (Response, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Response{}, fmt.Errorf("submit: decode response: %w", err)
	}
	if raw == nil {
		return Response{}, fmt.Errorf("submit: decode response: not an object")
	}

	resp := Response{}
	if flag, ok := raw["success"].(bool); ok {
		resp.Success = flag
	}
	delete(raw, "success")
	if len(raw) > 0 {
		resp.Extra = raw
	}
	return resp, nil
}
