package media_test

import (
	"bytes"
	"errors"
	"testing"

	"relay-bot/internal/media"
	"relay-bot/internal/model"
)

func TestToAttachment(t *testing.T) {
	adapter := media.NewAdapter(0)
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}

	tests := []struct {
		name     string
		in       model.Media
		wantMIME string
		wantErr  error
	}{
		{name: "image passes through", in: model.Media{Data: payload, MimeType: "image/jpeg"}, wantMIME: "image/jpeg"},
		{name: "parameters dropped", in: model.Media{Data: payload, MimeType: "audio/ogg; codecs=opus"}, wantMIME: "audio/ogg"},
		{name: "case folded", in: model.Media{Data: payload, MimeType: "Image/PNG"}, wantMIME: "image/png"},
		{name: "empty data", in: model.Media{MimeType: "image/jpeg"}, wantErr: media.ErrMalformedMedia},
		{name: "missing mime", in: model.Media{Data: payload}, wantErr: media.ErrMalformedMedia},
		{name: "garbage mime", in: model.Media{Data: payload, MimeType: "not a mime"}, wantErr: media.ErrMalformedMedia},
		{name: "no subtype", in: model.Media{Data: payload, MimeType: "image"}, wantErr: media.ErrMalformedMedia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.ToAttachment(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.MimeType != tt.wantMIME {
				t.Errorf("expected mime %q, got %q", tt.wantMIME, got.MimeType)
			}
			if !bytes.Equal(got.Data, tt.in.Data) {
				t.Errorf("data was altered")
			}
		})
	}
}

func TestToAttachment_SizeLimit(t *testing.T) {
	adapter := media.NewAdapter(4)

	if _, err := adapter.ToAttachment(model.Media{Data: []byte("1234"), MimeType: "text/plain"}); err != nil {
		t.Fatalf("payload at the limit should pass: %v", err)
	}

	_, err := adapter.ToAttachment(model.Media{Data: []byte("12345"), MimeType: "text/plain"})
	if !errors.Is(err, media.ErrMediaTooLarge) {
		t.Fatalf("expected ErrMediaTooLarge, got %v", err)
	}
}
