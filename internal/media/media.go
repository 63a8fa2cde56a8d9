package media

import (
	"fmt"
	"mime"
	"strings"

	"relay-bot/internal/model"
)

// DefaultMaxBytes is the largest payload Gemini accepts inline in one request.
const DefaultMaxBytes = 20 << 20

// Adapter converts transport media into backend attachments.
type Adapter struct {
	maxBytes int
}

// NewAdapter returns an Adapter that rejects payloads above maxBytes.
// A non-positive limit selects DefaultMaxBytes.
func NewAdapter(maxBytes int) Adapter {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Adapter{maxBytes: maxBytes}
}

// ToAttachment maps downloaded media onto an attachment. Data is passed through untouched;
// MIME parameters such as "codecs=opus" are dropped.
func (a Adapter) ToAttachment(m model.Media) (model.Attachment, error) {
	if len(m.Data) == 0 {
		return model.Attachment{}, fmt.Errorf("%w: empty data", ErrMalformedMedia)
	}
	if len(m.Data) > a.maxBytes {
		return model.Attachment{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrMediaTooLarge, len(m.Data), a.maxBytes)
	}

	mimeType, err := normalizeMIME(m.MimeType)
	if err != nil {
		return model.Attachment{}, err
	}

	return model.Attachment{Data: m.Data, MimeType: mimeType}, nil
}

func normalizeMIME(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: missing mime type", ErrMalformedMedia)
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return "", fmt.Errorf("%w: mime type %q: %v", ErrMalformedMedia, raw, err)
	}
	if !strings.Contains(mediaType, "/") {
		return "", fmt.Errorf("%w: mime type %q", ErrMalformedMedia, raw)
	}
	return mediaType, nil
}
