package dashboard

import (
	"github.com/octofit/dashboard/go/internal/directory"
	"github.com/octofit/dashboard/go/internal/models"
)

// MessageType names a live view message.
type MessageType string

const (
	MessageRender    MessageType = "render"
	MessageOpenEdit  MessageType = "open_edit"
	MessageSubmit    MessageType = "submit"
	MessageCloseEdit MessageType = "close_edit"
)

// ClientMessage is sent by the browser over a live connection.
type ClientMessage struct {
	Type   MessageType    `json:"type"`
	UserID models.ID      `json:"user_id,omitempty"`
	Form   directory.Form `json:"form"`
}

// RenderMessage replaces the content of the view container.
type RenderMessage struct {
	Type MessageType `json:"type"`
	View string      `json:"view"`
	HTML string      `json:"html"`
}

func NewRenderMessage(view, html string) RenderMessage {
	return RenderMessage{Type: MessageRender, View: view, HTML: html}
}
