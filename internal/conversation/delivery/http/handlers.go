package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"relay-bot/internal/model"
	"relay-bot/pkg/response"
)

func senderParam(c *gin.Context) (model.SenderID, error) {
	sender := strings.TrimSpace(c.Param("sender"))
	if sender == "" {
		return "", errSenderRequired
	}
	return model.SenderID(sender), nil
}

// Detail godoc
// @Summary     Get a conversation window
// @Description Returns the recent user messages and bot replies kept for a sender.
// @Tags        Conversations
// @Produce     json
// @Param       sender path string true "Sender ID (WhatsApp JID, telegram:<chat id> or console)"
// @Success     200 {object} windowResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/conversations/{sender} [GET]
func (h *handler) Detail(c *gin.Context) {
	sender, err := senderParam(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	w := h.uc.Window(sender)
	if len(w.UserMessages) == 0 && len(w.BotMessages) == 0 {
		response.NotFound(c, errConversationNotFound)
		return
	}

	response.OK(c, newWindowResp(sender, w))
}

// Reset godoc
// @Summary     Reset a conversation
// @Description Forgets the history kept for a sender. Resetting an unknown sender succeeds.
// @Tags        Conversations
// @Produce     json
// @Param       sender path string true "Sender ID"
// @Success     200 {object} resetResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Router      /api/v1/conversations/{sender} [DELETE]
func (h *handler) Reset(c *gin.Context) {
	ctx := c.Request.Context()

	sender, err := senderParam(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	h.uc.Reset(sender)
	h.l.Infof(ctx, "conversation reset over HTTP for %s", sender)

	response.OK(c, resetResp{Sender: string(sender), Reset: true})
}

// Stats godoc
// @Summary     Conversation statistics
// @Description Number of tracked senders and AI session state.
// @Tags        Conversations
// @Produce     json
// @Success     200 {object} statsResp
// @Router      /api/v1/conversations [GET]
func (h *handler) Stats(c *gin.Context) {
	response.OK(c, statsResp{Stats: h.uc.Stats()})
}
