package prompt

import (
	"strings"

	"relay-bot/internal/model"
)

const (
	DefaultPersonaName   = "Naya"
	DefaultMaxReplyWords = 25
)

// personaTemplate takes the persona name and the reply word limit. The trailing quote is
// part of the prompt the bot has always sent.
const personaTemplate = `Jawab pesan ini dengan rasa imut, manis, seperti pacar, feminim, perempuan, bot suka dengan user. Nama bot yaitu "%s". Jawab pesan terbaru max %d kata. Dan jika jawaban nya melebihi maximal kata tolak saja pesan nya."`

// Config customises the persona preamble.
type Config struct {
	PersonaName   string
	MaxReplyWords int

	// Persona replaces the whole preamble when set.
	Persona string
}

// Prompt is one composed request to the backend.
type Prompt struct {
	Preamble   string
	Context    string // earlier user messages, newline separated, oldest first
	Current    string
	Attachment *model.Attachment
}

// Text renders the instruction, the context and the latest message as one string.
func (p Prompt) Text() string {
	var b strings.Builder
	b.WriteString(p.Preamble)
	b.WriteString("\n\n")
	b.WriteString(p.Context)
	b.WriteString("\n")
	b.WriteString(p.Current)
	return b.String()
}

// Parts returns the rendered text followed by the attachment, if any.
func (p Prompt) Parts() []model.Part {
	parts := []model.Part{{Text: p.Text()}}
	if p.Attachment != nil {
		parts = append(parts, model.Part{InlineData: p.Attachment})
	}
	return parts
}
