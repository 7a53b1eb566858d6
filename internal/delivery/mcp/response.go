package mcp

// TextContent represents a text content item in a tool result
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the uniform tool-result envelope. Every invocation, successful
// or failed, produces one; callers never see a raised error.
type Response struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError"`
}

// NewResponse creates a new empty Response
func NewResponse() *Response {
	return &Response{
		Content: make([]TextContent, 0),
	}
}

// WithText adds a text content item to the response
func (r *Response) WithText(text string) *Response {
	r.Content = append(r.Content, TextContent{
		Type: "text",
		Text: text,
	})
	return r
}

// FromString creates a success response from a string
func FromString(text string) *Response {
	return NewResponse().WithText(text)
}

// FromError flattens an error into the envelope with an "Error: " prefix.
func FromError(err error) *Response {
	return ErrorText("Error: " + err.Error())
}

// ErrorText creates an error response with the exact given message.
func ErrorText(text string) *Response {
	resp := NewResponse().WithText(text)
	resp.IsError = true
	return resp
}
