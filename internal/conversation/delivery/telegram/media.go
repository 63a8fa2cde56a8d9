package telegram

import (
	"context"
	"fmt"
	"mime"
	"path"

	"relay-bot/internal/model"
	pkgTelegram "relay-bot/pkg/telegram"
)

// fileRef points at a downloadable file and the MIME type Telegram declared for it.
type fileRef struct {
	fileID   string
	mimeType string
}

// mediaOf picks the attachment of m. Photos use the largest size.
func mediaOf(m *pkgTelegram.Message) (fileRef, bool) {
	switch {
	case len(m.Photo) > 0:
		return fileRef{fileID: m.Photo[len(m.Photo)-1].FileID, mimeType: "image/jpeg"}, true
	case m.Document != nil:
		return fileRef{fileID: m.Document.FileID, mimeType: m.Document.MimeType}, true
	case m.Voice != nil:
		return fileRef{fileID: m.Voice.FileID, mimeType: orDefault(m.Voice.MimeType, "audio/ogg")}, true
	case m.Audio != nil:
		return fileRef{fileID: m.Audio.FileID, mimeType: orDefault(m.Audio.MimeType, "audio/mpeg")}, true
	case m.Video != nil:
		return fileRef{fileID: m.Video.FileID, mimeType: orDefault(m.Video.MimeType, "video/mp4")}, true
	case m.Sticker != nil && !m.Sticker.IsAnimated:
		mimeType := "image/webp"
		if m.Sticker.IsVideo {
			mimeType = "video/webm"
		}
		return fileRef{fileID: m.Sticker.FileID, mimeType: mimeType}, true
	}
	return fileRef{}, false
}

func (t *Transport) downloader(ref fileRef) model.MediaDownloader {
	return func(ctx context.Context) (model.Media, error) {
		f, err := t.bot.GetFile(ctx, ref.fileID)
		if err != nil {
			return model.Media{}, err
		}
		if f.FileSize > t.cfg.MaxMediaBytes {
			return model.Media{}, fmt.Errorf("telegram: file %s is %d bytes", ref.fileID, f.FileSize)
		}

		data, served, err := t.bot.DownloadFile(ctx, f.FilePath, t.cfg.MaxMediaBytes)
		if err != nil {
			return model.Media{}, err
		}

		mimeType := ref.mimeType
		if mimeType == "" {
			mimeType = mime.TypeByExtension(path.Ext(f.FilePath))
		}
		if mimeType == "" {
			mimeType = served
		}
		return model.Media{Data: data, MimeType: mimeType}, nil
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
