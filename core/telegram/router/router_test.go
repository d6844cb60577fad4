package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/commands"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/state"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/teletest"
)

type fakeFSM struct {
	active    map[int64]bool
	endpoints []string
}

func (f *fakeFSM) InProgress(userID int64) bool { return f.active[userID] }

func (f *fakeFSM) ManagerHandler(_ tele.Context, endpoint string) error {
	f.endpoints = append(f.endpoints, endpoint)
	return nil
}

func routeFor(routes []tg.Route, endpoint any) tele.HandlerFunc {
	for _, r := range routes {
		if r.Endpoint == endpoint {
			return r.Handler
		}
	}
	return nil
}

func TestMessageRoutes(t *testing.T) {
	fsm := &fakeFSM{active: map[int64]bool{1: true}}
	routes := MessageRoutes(fsm)
	onText := routeFor(routes, tele.OnText)
	onPhoto := routeFor(routes, tele.OnPhoto)
	require.NotNil(t, onText)
	require.NotNil(t, onPhoto)

	require.NoError(t, onText(teletest.NewMessage(1, "hello")))
	require.NoError(t, onText(teletest.NewMessage(1, "/unknown")))
	require.NoError(t, onText(teletest.NewMessage(2, "idle user")))
	require.NoError(t, onPhoto(teletest.NewPhoto(1, "file")))
	require.NoError(t, onPhoto(teletest.NewPhoto(2, "file")))

	assert.Equal(t, []string{state.EndpointText, state.EndpointPhoto}, fsm.endpoints)
}

func TestCallbackRoute(t *testing.T) {
	reg := tg.NewRegistry()
	var payloads []string
	require.NoError(t, reg.RegisterCallback("qrcolor", func(c tele.Context) error {
		payloads = append(payloads, c.Callback().Data)
		return c.Respond()
	}))
	h := CallbackRoute(reg).Handler

	known := teletest.NewCallback(1, "\fqrcolor|red|tok")
	require.NoError(t, h(known))
	assert.Len(t, payloads, 1)
	assert.Len(t, known.Responses(), 1)

	unknown := teletest.NewCallback(1, "\fstale|x")
	require.NoError(t, h(unknown))
	resp := unknown.Responses()
	require.Len(t, resp, 1)
	assert.Equal(t, "Unsupported action", resp[0].Text)
}

func TestCommandRoutesIncludeAliases(t *testing.T) {
	reg := tg.NewRegistry()
	calls := 0
	require.NoError(t, reg.RegisterCommand("/generate", commands.Command{
		Handler:     func(tele.Context) error { calls++; return nil },
		Description: "Generate",
		Aliases:     []string{"gen"},
	}))
	routes := CommandRoutes(reg)
	require.Len(t, routes, 2)

	require.NoError(t, routeFor(routes, "/gen")(teletest.NewMessage(1, "/gen")))
	require.NoError(t, routeFor(routes, "/generate")(teletest.NewMessage(1, "/generate")))
	assert.Equal(t, 2, calls)
}

func TestSetOutcomeReachesSummary(t *testing.T) {
	c := teletest.NewMessage(1, "x")
	err := handleWithSummary(c, "scan", time.Now(), func() error {
		SetOutcome(c, "ok", "not_found")
		return nil
	})
	require.NoError(t, err)
	o, ok := c.Get(outcomeKey).(Outcome)
	require.True(t, ok)
	assert.Equal(t, "not_found", o.Outcome)
}
