package router

import (
	"strings"
	"time"

	tg "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for an FSM manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context, endpoint string) error
}

// MessageRoutes routes free text and photos to the state machine.
// Unknown slash commands and messages from idle users are dropped without a reply.
func MessageRoutes(fsmMgr FSM) []tg.Route {
	dispatch := func(endpoint string) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			name := "fsm." + endpoint
			if endpoint == state.EndpointText && strings.HasPrefix(c.Text(), "/") {
				name = "unknown_command"
			}
			return handleWithSummary(c, name, start, func() error {
				user := c.Sender()
				if name == "unknown_command" || fsmMgr == nil || user == nil || !fsmMgr.InProgress(user.ID) {
					SetOutcome(c, "skip", "ok")
					return nil
				}
				return fsmMgr.ManagerHandler(c, endpoint)
			})
		}
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: dispatch(state.EndpointText)},
		{Endpoint: tele.OnPhoto, Handler: dispatch(state.EndpointPhoto)},
	}
}
