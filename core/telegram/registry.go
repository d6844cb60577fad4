package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

var errInvalidRegistration = errors.New("telegram registry: invalid registration")

// Endpoint is one routable command name; aliases point at their canonical command.
type Endpoint struct {
	Name      string
	Canonical string
	Command   commands.Command
}

// Registry holds the bot's slash commands and callback handlers.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]commands.Command
	aliases   map[string]string
	callbacks map[string]tele.HandlerFunc
	fallback  tele.HandlerFunc
}

// NewRegistry creates an empty Registry whose unknown-callback fallback just answers the press.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		aliases:   make(map[string]string),
		callbacks: make(map[string]tele.HandlerFunc),
		fallback: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
		},
	}
}

// slashed prefixes name with "/" when missing.
func slashed(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

func warnSkip(event string, attrs ...slog.Attr) {
	logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, event, attrs...)
}

// RegisterCommand adds a command under name, which must start with "/".
// Invalid and duplicate registrations are logged and rejected.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	switch {
	case cmd.Handler == nil || cmd.Description == "":
		warnSkip("register.command.skip", slog.String("name", name), slog.String("reason", "invalid"))
		return fmt.Errorf("%w: command %q", errInvalidRegistration, name)
	case !strings.HasPrefix(name, "/") || len(name) < 2:
		warnSkip("register.command.skip", slog.String("name", name), slog.String("reason", "no_slash_prefix"))
		return fmt.Errorf("%w: command %q must start with /", errInvalidRegistration, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.commands[name]; taken {
		warnSkip("register.command.duplicate", slog.String("name", name))
		return fmt.Errorf("command already registered: %s", name)
	}
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		if alias == "" {
			continue
		}
		alias = slashed(alias)
		if _, clash := r.commands[alias]; clash {
			continue
		}
		r.aliases[alias] = name
	}
	return nil
}

// LookupCommand resolves a name or alias, with or without the slash, to its canonical command.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	name = slashed(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	cmd, ok := r.commands[name]
	if !ok {
		return "", commands.Command{}, false
	}
	return name, cmd, true
}

// Commands returns a copy of the registered commands keyed by canonical name.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.commands)
}

// Endpoints lists every command name and alias in name order.
func (r *Registry) Endpoints() []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Endpoint, 0, len(r.commands)+len(r.aliases))
	for name, cmd := range r.commands {
		out = append(out, Endpoint{Name: name, Canonical: name, Command: cmd})
	}
	for alias, target := range r.aliases {
		out = append(out, Endpoint{Name: alias, Canonical: target, Command: r.commands[target]})
	}
	slices.SortFunc(out, func(a, b Endpoint) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// ListCommands returns the menu entries, without slashes, sorted by name.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []tele.Command
	for _, name := range slices.Sorted(maps.Keys(r.commands)) {
		cmd := r.commands[name]
		if visibleOnly && cmd.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: name[1:], Description: cmd.Description})
	}
	return list
}

// RegisterCallback maps a callback unique key to its handler.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if key == "" || handler == nil {
		warnSkip("register.callback.skip", slog.String("key", key), slog.Bool("handler_nil", handler == nil))
		return fmt.Errorf("%w: callback %q", errInvalidRegistration, key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.callbacks[key]; taken {
		warnSkip("register.callback.duplicate", slog.String("key", key))
		return fmt.Errorf("callback already registered: %s", key)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback returns the handler registered for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns the registered callback keys in order.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.callbacks))
}

// SetCallbackNotFound replaces the handler for presses with an unknown key.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	r.fallback = h
	r.mu.Unlock()
}

// CallbackNotFound returns the handler for presses with an unknown key.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// CommandSetter is the part of tele.Bot used to publish the command menu.
type CommandSetter interface {
	SetCommands(opts ...any) error
}

// InitBotCommands publishes the visible commands to the Telegram menu.
func InitBotCommands(bot CommandSetter, reg *Registry) {
	menu := reg.ListCommands(true)
	if err := bot.SetCommands(menu); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
		return
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "register.commands.set",
		slog.Int("commands", len(menu)),
	)
}
