package session

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
)

// Attachment is an uploaded image, held in memory for the lifetime of the
// session and sent to the provider as a base64 data URL.
type Attachment struct {
	Name string
	MIME string
	data []byte
}

// LoadAttachment reads an image file and prepares it for upload.
// Only PNG and JPEG are accepted.
func LoadAttachment(path string) (*Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("askimage: read image: %w", err)
	}
	return NewAttachment(path, data)
}

// NewAttachment prepares raw image bytes for upload. The content type is
// sniffed from the bytes, not the name.
func NewAttachment(name string, data []byte) (*Attachment, error) {
	mime := http.DetectContentType(data)
	switch mime {
	case "image/png", "image/jpeg":
	default:
		return nil, fmt.Errorf("askimage: unsupported image type %q (want png or jpeg)", mime)
	}

	return &Attachment{Name: name, MIME: mime, data: data}, nil
}

// Size returns the attachment size in bytes.
func (a *Attachment) Size() int {
	return len(a.data)
}

// DataURL encodes the image as a base64 data URL suitable for an image_url
// content part.
func (a *Attachment) DataURL() string {
	return "data:" + a.MIME + ";base64," + base64.StdEncoding.EncodeToString(a.data)
}
