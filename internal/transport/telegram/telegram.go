// Package telegram binds the transport contracts to the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/netkeyhq/netkey-bot/internal/model"
	"github.com/netkeyhq/netkey-bot/internal/transport"
)

// Client implements Messenger, MembershipLookup, and AttachmentSource over
// one bot connection.
type Client struct {
	bot  *tgbotapi.BotAPI
	http *http.Client
	log  *zap.Logger
}

var (
	_ transport.Messenger        = (*Client)(nil)
	_ transport.MembershipLookup = (*Client)(nil)
	_ transport.AttachmentSource = (*Client)(nil)
)

// New dials the Bot API with the given token.
func New(token string, log *zap.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	return &Client{bot: bot, http: http.DefaultClient, log: log}, nil
}

// Username returns the authenticated bot account name.
func (c *Client) Username() string { return c.bot.Self.UserName }

// Poll long-polls for updates until ctx is done, handing each inbound event
// to the matching callback. Events run in their own goroutines: the
// transport gives no cross-buyer ordering guarantee and the core does not
// need one.
func (c *Client) Poll(ctx context.Context, onMessage func(context.Context, transport.Message), onControl func(context.Context, transport.ControlAction)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := c.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			switch {
			case upd.Message != nil:
				msg := mapMessage(upd.Message)
				go onMessage(ctx, msg)
			case upd.CallbackQuery != nil:
				act := mapControl(upd.CallbackQuery)
				go onControl(ctx, act)
			}
		}
	}
}

func mapMessage(m *tgbotapi.Message) transport.Message {
	out := transport.Message{
		ChatID: m.Chat.ID,
		Text:   m.Text,
	}
	if m.From != nil {
		out.ActorID = m.From.ID
		out.Username = m.From.UserName
	} else {
		out.ActorID = m.Chat.ID
	}
	if len(m.Photo) > 0 {
		// Sizes are ordered small to large; the review needs the largest.
		out.AttachmentRef = m.Photo[len(m.Photo)-1].FileID
	}
	return out
}

func mapControl(q *tgbotapi.CallbackQuery) transport.ControlAction {
	act := transport.ControlAction{
		ActorID:   q.From.ID,
		ActionRef: q.ID,
		Token:     q.Data,
	}
	if q.Message != nil {
		act.ChatID = q.Message.Chat.ID
		act.MessageRef = q.Message.MessageID
	} else {
		act.ChatID = q.From.ID
	}
	return act
}

// SendText implements transport.Messenger. The underlying client has no
// context support; ctx applies to queueing only.
func (c *Client) SendText(_ context.Context, chatID int64, text string, opts *transport.SendOptions) error {
	msg := tgbotapi.NewMessage(chatID, text)
	applyOptions(&msg.ParseMode, &msg.ReplyMarkup, opts)
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}

// SendPhoto implements transport.Messenger.
func (c *Client) SendPhoto(_ context.Context, chatID int64, photo []byte, caption string, opts *transport.SendOptions) error {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "photo.jpg", Bytes: photo})
	msg.Caption = caption
	applyOptions(&msg.ParseMode, &msg.ReplyMarkup, opts)
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	return nil
}

// EditText implements transport.Messenger.
func (c *Client) EditText(_ context.Context, chatID int64, messageRef int, text string, opts *transport.SendOptions) error {
	msg := tgbotapi.NewEditMessageText(chatID, messageRef, text)
	if opts != nil {
		if opts.HTML {
			msg.ParseMode = tgbotapi.ModeHTML
		}
		if len(opts.Controls) > 0 {
			markup := inlineMarkup(opts.Controls)
			msg.ReplyMarkup = &markup
		}
	}
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("edit text: %w", err)
	}
	return nil
}

// AnswerControl implements transport.Messenger.
func (c *Client) AnswerControl(_ context.Context, actionRef string) error {
	if _, err := c.bot.Request(tgbotapi.NewCallback(actionRef, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// Status implements transport.MembershipLookup.
func (c *Client) Status(_ context.Context, channelHandle string, actorID int64) (model.MemberStatus, error) {
	handle := strings.TrimSpace(channelHandle)
	if handle == "" {
		return model.StatusUnknown, fmt.Errorf("empty channel handle")
	}
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	member, err := c.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: handle,
			UserID:             actorID,
		},
	})
	if err != nil {
		return model.StatusUnknown, fmt.Errorf("get chat member %s: %w", handle, err)
	}
	return mapStatus(member.Status), nil
}

func mapStatus(s string) model.MemberStatus {
	switch s {
	case "creator":
		return model.StatusCreator
	case "administrator":
		return model.StatusAdministrator
	case "member":
		return model.StatusMember
	case "restricted":
		return model.StatusRestricted
	case "left":
		return model.StatusLeft
	case "kicked":
		return model.StatusKicked
	default:
		return model.StatusUnknown
	}
}

// Fetch implements transport.AttachmentSource: resolve the file path, then
// download the bytes over HTTP.
func (c *Client) Fetch(ctx context.Context, attachmentRef string) ([]byte, error) {
	url, err := c.bot.GetFileDirectURL(attachmentRef)
	if err != nil {
		return nil, fmt.Errorf("resolve file %s: %w", attachmentRef, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file body: %w", err)
	}
	return data, nil
}

// applyOptions maps neutral send options onto a message config. A reply
// menu wins over inline controls if a caller sets both; composers never do.
func applyOptions(parseMode *string, replyMarkup *interface{}, opts *transport.SendOptions) {
	if opts == nil {
		return
	}
	if opts.HTML {
		*parseMode = tgbotapi.ModeHTML
	}
	if opts.Menu != nil {
		*replyMarkup = replyMenu(opts.Menu)
		return
	}
	if len(opts.Controls) > 0 {
		*replyMarkup = inlineMarkup(opts.Controls)
	}
}

func inlineMarkup(rows [][]transport.Control) tgbotapi.InlineKeyboardMarkup {
	kb := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, ctl := range row {
			if ctl.URL != "" {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(ctl.Label, ctl.URL))
				continue
			}
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(ctl.Label, ctl.Token))
		}
		kb = append(kb, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kb...)
}

func replyMenu(menu *transport.ReplyMenu) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(menu.Rows))
	for _, labels := range menu.Rows {
		row := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, l := range labels {
			row = append(row, tgbotapi.NewKeyboardButton(l))
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	markup.OneTimeKeyboard = false
	markup.InputFieldPlaceholder = menu.Placeholder
	return markup
}
