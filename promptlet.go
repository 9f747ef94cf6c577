// Package promptlet defines the wire types exchanged with the prompt server.
// Each request and response is a single JSON object sent as one WebSocket
// text message.
package promptlet

// ProtocolVersion is the constant protocol tag carried by every request.
const ProtocolVersion = "2.0"

// Request is sent from the client to the prompt server.
type Request struct {
	// JSONRPC is always ProtocolVersion.
	JSONRPC string `json:"jsonrpc"`
	// Name is the method: a prompt name, or the catalogue listing operation.
	Name string `json:"name"`
	// Arguments is always encoded as an object, never null.
	Arguments map[string]any `json:"arguments"`
	// ID correlates the request in logs. The client keeps at most one request
	// outstanding per connection, so it is never used for matching.
	ID string `json:"id"`
}

// Response is sent from the prompt server back to the client.
type Response struct {
	JSONRPC string  `json:"jsonrpc,omitempty"`
	ID      any     `json:"id,omitempty"`
	Result  *Result `json:"result,omitempty"`
	Error   *Error  `json:"error,omitempty"`
}

// Result is the success payload of a Response.
type Result struct {
	Content []ContentBlock `json:"content"`
}

// ContentBlock is one typed piece of a Result. Only "text" blocks carry
// meaning for this client.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Error describes a server-side failure.
type Error struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// HasContent reports whether the result carries a content list.
func (r *Result) HasContent() bool {
	return r != nil && r.Content != nil
}

// LastText returns the text of the last text-typed block. Earlier text blocks
// are overwritten, not concatenated. ok is false when no text block exists.
func (r *Result) LastText() (text string, ok bool) {
	if r == nil {
		return "", false
	}
	for _, block := range r.Content {
		if block.Type == "text" {
			text = block.Text
			ok = true
		}
	}
	return text, ok
}
