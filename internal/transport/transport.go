// Package transport declares the collaborator contracts the workflow core
// depends on, plus the neutral inbound/outbound message shapes. Concrete
// chat-platform bindings live in subpackages; the core never imports them.
package transport

import (
	"context"

	"github.com/netkeyhq/netkey-bot/internal/model"
)

// Message is an inbound text or attachment message.
type Message struct {
	ChatID        int64
	ActorID       int64
	Username      string
	Text          string
	AttachmentRef string // non-empty when the message carries evidence
}

// ControlAction is an inbound click on an interactive control.
type ControlAction struct {
	ActorID    int64
	ChatID     int64
	MessageRef int
	ActionRef  string // opaque ref acknowledged back to the transport
	Token      string // the action token carried by the control
}

// Control is one interactive button: either a token control routed back
// through the action codec, or a plain URL link. Exactly one of Token and
// URL is set.
type Control struct {
	Label string
	Token string
	URL   string
}

// ReplyMenu is a persistent reply keyboard shown under the input field.
type ReplyMenu struct {
	Rows        [][]string
	Placeholder string
}

// SendOptions carries the optional rendering attributes of an outbound message.
type SendOptions struct {
	HTML     bool
	Controls [][]Control // inline control rows
	Menu     *ReplyMenu
}

// Messenger sends outbound messages. Failures are logged and dropped by the
// caller; no outbound step is retried.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, opts *SendOptions) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, opts *SendOptions) error
	EditText(ctx context.Context, chatID int64, messageRef int, text string, opts *SendOptions) error
	AnswerControl(ctx context.Context, actionRef string) error
}

// MembershipLookup reports an actor's membership state in a chat group.
// A transport failure surfaces as an error; the gate treats it as Unknown.
type MembershipLookup interface {
	Status(ctx context.Context, channelHandle string, actorID int64) (model.MemberStatus, error)
}

// AttachmentSource fetches evidence bytes by their transport reference.
type AttachmentSource interface {
	Fetch(ctx context.Context, attachmentRef string) ([]byte, error)
}
