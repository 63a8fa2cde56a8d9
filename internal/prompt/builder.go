package prompt

import (
	"fmt"
	"strings"

	"relay-bot/internal/model"
)

// Builder composes prompts from a sender's window.
type Builder struct {
	preamble string
}

// NewBuilder renders the persona preamble once.
func NewBuilder(cfg Config) *Builder {
	if strings.TrimSpace(cfg.Persona) != "" {
		return &Builder{preamble: cfg.Persona}
	}
	name := cfg.PersonaName
	if name == "" {
		name = DefaultPersonaName
	}
	words := cfg.MaxReplyWords
	if words <= 0 {
		words = DefaultMaxReplyWords
	}
	return &Builder{preamble: fmt.Sprintf(personaTemplate, name, words)}
}

// Preamble returns the persona instruction placed at the top of every prompt.
func (b *Builder) Preamble() string {
	return b.preamble
}

// Build splits the user queue into context and current message. Bot replies are not rendered.
func (b *Builder) Build(w model.Window, attachment *model.Attachment) Prompt {
	p := Prompt{Preamble: b.preamble, Attachment: attachment}

	n := len(w.UserMessages)
	if n == 0 {
		return p
	}
	p.Context = strings.Join(w.UserMessages[:n-1], "\n")
	p.Current = w.UserMessages[n-1]
	return p
}
