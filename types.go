package askimage

// Message represents a chat message. Content is a list of parts so a single
// user turn can carry both a question and an image.
type Message struct {
	Role  string `json:"role"`
	Parts []Part `json:"content"`
}

// Part is one piece of message content.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// Part types.
const (
	PartText  = "text"
	PartImage = "image_url"
)

// ImageURL references an image, either by https URL or as a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// TextPart builds a text content part.
func TextPart(text string) Part {
	return Part{Type: PartText, Text: text}
}

// ImagePart builds an image content part from a URL or data URL.
func ImagePart(url string) Part {
	return Part{Type: PartImage, ImageURL: &ImageURL{URL: url}}
}

// TextMessage builds a plain text message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Parts: []Part{TextPart(text)}}
}

// Text returns the concatenated text parts of the message.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Type == PartText {
			out += p.Text
		}
	}
	return out
}

// Usage represents token usage reported by the provider.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// IntPtr returns a pointer to the given int.
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to the given float64.
func Float64Ptr(v float64) *float64 { return &v }
