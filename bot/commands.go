package bot

import (
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

func (a *App) handleStart(c tele.Context) error {
	name := ""
	if u := c.Sender(); u != nil {
		name = u.FirstName
	}
	return c.Reply(TextStart(name))
}

func (a *App) handleHelp(c tele.Context) error {
	return c.Reply(TextHelp)
}

// handleGenerate replaces any pending scan with a text request.
func (a *App) handleGenerate(c tele.Context) error {
	if u := c.Sender(); u != nil {
		a.fsm.SetState(u.ID, state.StateAwaitingText)
	}
	return c.Reply(TextGeneratePrompt)
}

// handleScan replaces any pending text request with an image request.
func (a *App) handleScan(c tele.Context) error {
	if u := c.Sender(); u != nil {
		a.fsm.SetState(u.ID, state.StateAwaitingImage)
	}
	return c.Reply(TextScanPrompt)
}
