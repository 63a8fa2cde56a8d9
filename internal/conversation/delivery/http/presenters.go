package http

import (
	"relay-bot/internal/conversation"
	"relay-bot/internal/model"
)

type windowResp struct {
	Sender       string   `json:"sender"`
	UserMessages []string `json:"user_messages"`
	BotMessages  []string `json:"bot_messages"`
}

func newWindowResp(sender model.SenderID, w model.Window) windowResp {
	resp := windowResp{
		Sender:       string(sender),
		UserMessages: w.UserMessages,
		BotMessages:  w.BotMessages,
	}
	if resp.UserMessages == nil {
		resp.UserMessages = []string{}
	}
	if resp.BotMessages == nil {
		resp.BotMessages = []string{}
	}
	return resp
}

type resetResp struct {
	Sender string `json:"sender"`
	Reset  bool   `json:"reset"`
}

type statsResp struct {
	conversation.Stats
}
