package groq

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

// reasoningTransport copies Groq's message.reasoning into reasoning_content,
// the field go-openai decodes. Bodies that already carry reasoning_content,
// or that are not a successful completion, pass through untouched.
type reasoningTransport struct {
	next http.RoundTripper
}

func (t reasoningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}

	if rewritten, ok := promoteReasoning(body); ok {
		body = rewritten
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}

// promoteReasoning reports false when there is nothing to move.
func promoteReasoning(body []byte) ([]byte, bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false
	}
	var choices []map[string]json.RawMessage
	if err := json.Unmarshal(envelope["choices"], &choices); err != nil {
		return nil, false
	}

	changed := false
	for _, choice := range choices {
		var message map[string]json.RawMessage
		if err := json.Unmarshal(choice["message"], &message); err != nil {
			continue
		}
		var reasoning, existing string
		_ = json.Unmarshal(message["reasoning"], &reasoning)
		_ = json.Unmarshal(message["reasoning_content"], &existing)
		if reasoning == "" || existing != "" {
			continue
		}
		message["reasoning_content"] = message["reasoning"]
		raw, err := json.Marshal(message)
		if err != nil {
			continue
		}
		choice["message"] = raw
		changed = true
	}
	if !changed {
		return nil, false
	}

	raw, err := json.Marshal(choices)
	if err != nil {
		return nil, false
	}
	envelope["choices"] = raw
	out, err := json.Marshal(envelope)
	if err != nil {
		return nil, false
	}
	return out, true
}
