package state

import (
	"log/slog"
	"sync"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

type handlerKey struct {
	state    State
	endpoint string
}

type memoryManager struct {
	mu     sync.Mutex
	states map[int64]State

	hmu      sync.RWMutex
	handlers map[handlerKey]tele.HandlerFunc
}

// NewMemoryManager constructs an in-memory Manager. State is lost on restart.
func NewMemoryManager() Manager {
	return &memoryManager{
		states:   make(map[int64]State),
		handlers: make(map[handlerKey]tele.HandlerFunc),
	}
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(userID)
}

func (m *memoryManager) getLocked(userID int64) State {
	if st, ok := m.states[userID]; ok {
		return st
	}
	return StateIdle
}

func (m *memoryManager) setLocked(userID int64, st State) {
	if st == StateIdle || st == "" {
		delete(m.states, userID)
		return
	}
	m.states[userID] = st
}

// SetState sets the FSM state for the given user, replacing any pending step.
func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(userID, st)
}

// ClearState resets the FSM state to idle for a user.
func (m *memoryManager) ClearState(userID int64) {
	m.SetState(userID, StateIdle)
}

func (m *memoryManager) Transition(userID int64, from, to State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getLocked(userID) != from {
		return false
	}
	m.setLocked(userID, to)
	return true
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryManager) InProgress(userID int64) bool {
	return m.GetState(userID) != StateIdle
}

func (m *memoryManager) Handle(st State, endpoint string, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.hmu.Lock()
	defer m.hmu.Unlock()
	m.handlers[handlerKey{state: st, endpoint: endpoint}] = h
}

func (m *memoryManager) ManagerHandler(c tele.Context, endpoint string) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	current := m.GetState(user.ID)

	m.hmu.RLock()
	handler, ok := m.handlers[handlerKey{state: current, endpoint: endpoint}]
	m.hmu.RUnlock()

	ctx := tghelpers.BuildContext(c)
	status := "ok"
	if !ok {
		status = "skip"
	}
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", status),
		slog.String("state", string(current)),
		slog.String("endpoint", endpoint),
	)
	if !ok {
		return nil
	}
	return handler(c)
}
