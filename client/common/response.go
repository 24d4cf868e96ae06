package common

import (
	"encoding/json"
	"strings"
)

// --------------------------------------------------------------------------
// Response Structure
// --------------------------------------------------------------------------

// StatusOK is the status value the server uses for successful replies.
const StatusOK = "OK"

// Response is a single decoded server reply. The Status field is the only
// success signal a caller may rely on; which other fields are populated
// depends on the command that was sent.
//
// Raw marks replies that were not valid JSON objects: the protocol allows
// the server to answer with plain text, which the codec passes through as a
// successful reply with the text in Message. Callers that need to
// distinguish a structured reply from an opaque one check Raw.
type Response struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	Value   string   `json:"value,omitempty"`  // GET replies
	Spaces  []string `json:"spaces,omitempty"` // LIST_SPACES replies
	User    *User    `json:"user,omitempty"`   // handshake and GET_USER replies

	Raw bool `json:"-"`
}

// OK reports whether the reply signals success.
func (r *Response) OK() bool {
	return r.Status == StatusOK
}

// --------------------------------------------------------------------------
// Codec
// --------------------------------------------------------------------------

// EncodeRequest renders a request (or the handshake payload) as a single
// JSON line without the trailing newline.
func EncodeRequest(req interface{}) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", NewErrorf(ErrQuery, "failed to encode request: %v", err)
	}
	return string(b), nil
}

// DecodeResponse turns one raw response line into a Response.
//
// A payload that is not a JSON object is treated as a successful plain-text
// reply, not as an error: the trimmed line is carried in Message and Raw is
// set. This leniency is part of the wire contract and must not be tightened.
func DecodeResponse(line string) *Response {
	trimmed := strings.TrimSpace(line)

	if !strings.HasPrefix(trimmed, "{") {
		return &Response{Status: StatusOK, Message: trimmed, Raw: true}
	}

	var resp Response
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return &Response{Status: StatusOK, Message: trimmed, Raw: true}
	}
	return &resp
}
