// Package teletest provides an in-memory tele.Context for handler tests.
package teletest

import (
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Reply is one outgoing call recorded by Context.
type Reply struct {
	// Kind is "send", "reply" or "edit".
	Kind string
	What any
	Opts []any
}

// Text returns the reply body for text messages and the caption for photos.
func (r Reply) Text() string {
	switch v := r.What.(type) {
	case string:
		return v
	case *tele.Photo:
		return v.Caption
	}
	return ""
}

// Photo returns the photo payload, if any.
func (r Reply) Photo() (*tele.Photo, bool) {
	p, ok := r.What.(*tele.Photo)
	return p, ok
}

// Markup returns the first reply markup passed with the call.
func (r Reply) Markup() *tele.ReplyMarkup {
	for _, o := range r.Opts {
		switch v := o.(type) {
		case *tele.ReplyMarkup:
			return v
		case *tele.SendOptions:
			if v.ReplyMarkup != nil {
				return v.ReplyMarkup
			}
		}
	}
	return nil
}

// Context records replies instead of talking to Telegram.
// Methods not overridden here panic through the nil embedded interface.
type Context struct {
	tele.Context

	UpdateID int
	User     *tele.User
	ChatRef  *tele.Chat
	Msg      *tele.Message
	CB       *tele.Callback

	// SendErr is returned by every Send, Reply and Edit when set.
	SendErr error

	mu        sync.Mutex
	store     map[string]any
	replies   []Reply
	responses []*tele.CallbackResponse
}

// NewMessage builds a context for a text message from userID.
func NewMessage(userID int64, text string) *Context {
	user := &tele.User{ID: userID, FirstName: "Tester"}
	chat := &tele.Chat{ID: userID, Type: tele.ChatPrivate}
	msg := &tele.Message{ID: 1, Sender: user, Chat: chat, Text: text}
	if strings.HasPrefix(text, "/") {
		if _, payload, ok := strings.Cut(text, " "); ok {
			msg.Payload = strings.TrimSpace(payload)
		}
	}
	return &Context{UpdateID: 1, User: user, ChatRef: chat, Msg: msg}
}

// NewPhoto builds a context for a photo message from userID.
func NewPhoto(userID int64, fileID string) *Context {
	c := NewMessage(userID, "")
	c.Msg.Photo = &tele.Photo{File: tele.File{FileID: fileID}}
	return c
}

// NewCallback builds a context for a button press carrying raw callback data.
func NewCallback(userID int64, data string) *Context {
	c := NewMessage(userID, "")
	c.CB = &tele.Callback{ID: "cb", Sender: c.User, Message: c.Msg, Data: data}
	return c
}

func (c *Context) Update() tele.Update {
	return tele.Update{ID: c.UpdateID, Message: c.messageUpdate(), Callback: c.CB}
}

func (c *Context) messageUpdate() *tele.Message {
	if c.CB != nil {
		return nil
	}
	return c.Msg
}

func (c *Context) Message() *tele.Message {
	if c.CB != nil {
		return c.CB.Message
	}
	return c.Msg
}

func (c *Context) Callback() *tele.Callback { return c.CB }
func (c *Context) Sender() *tele.User       { return c.User }
func (c *Context) Chat() *tele.Chat         { return c.ChatRef }
func (c *Context) Recipient() tele.Recipient {
	return c.ChatRef
}

func (c *Context) Text() string {
	if m := c.Message(); m != nil {
		return m.Text
	}
	return ""
}

func (c *Context) Data() string {
	if c.CB != nil {
		return c.CB.Data
	}
	if c.Msg != nil {
		return c.Msg.Payload
	}
	return ""
}

func (c *Context) Args() []string {
	if c.Msg == nil || c.Msg.Payload == "" {
		return nil
	}
	return strings.Fields(c.Msg.Payload)
}

func (c *Context) record(kind string, what any, opts []any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return c.SendErr
	}
	c.replies = append(c.replies, Reply{Kind: kind, What: what, Opts: opts})
	return nil
}

func (c *Context) Send(what any, opts ...any) error  { return c.record("send", what, opts) }
func (c *Context) Reply(what any, opts ...any) error { return c.record("reply", what, opts) }
func (c *Context) Edit(what any, opts ...any) error  { return c.record("edit", what, opts) }
func (c *Context) EditOrSend(what any, opts ...any) error {
	return c.record("edit", what, opts)
}

func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(resp) == 0 {
		c.responses = append(c.responses, &tele.CallbackResponse{})
		return nil
	}
	c.responses = append(c.responses, resp...)
	return nil
}

func (c *Context) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

// Replies returns a copy of everything sent, replied or edited so far.
func (c *Context) Replies() []Reply {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Reply(nil), c.replies...)
}

// Photos returns only the recorded photo replies.
func (c *Context) Photos() []Reply {
	var out []Reply
	for _, r := range c.Replies() {
		if _, ok := r.Photo(); ok {
			out = append(out, r)
		}
	}
	return out
}

// Responses returns the recorded callback answers.
func (c *Context) Responses() []*tele.CallbackResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*tele.CallbackResponse(nil), c.responses...)
}
