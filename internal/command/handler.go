// Package command dispatches player chat commands (?name params) to the
// registered handlers.
package command

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/udisondev/arenafield/internal/model"
)

// Prefix starts a command in chat. Handle accepts text with or without it.
const Prefix = "?"

// Command is a player command.
type Command interface {
	// Handle executes the command. params is the rest of the text after the name.
	Handle(player *model.Player, params string) error
	// Names returns all registered command names (without prefix).
	Names() []string
}

// Replier sends a one-line message back to the player.
type Replier interface {
	SendMessage(p *model.Player, text string)
}

// Handler dispatches player commands by name.
// Thread-safe: commands are registered once at startup, then read-only.
type Handler struct {
	mu    sync.RWMutex
	cmds  map[string]Command // name → Command (lowercase)
	reply Replier            // nil: errors are only logged
}

// NewHandler creates a command handler. reply may be nil.
func NewHandler(reply Replier) *Handler {
	return &Handler{
		cmds:  make(map[string]Command, 8),
		reply: reply,
	}
}

// Register registers commands under all their names, lowercased for
// case-insensitive lookup. A later registration of the same name wins.
func (h *Handler) Register(cmds ...Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, cmd := range cmds {
		for _, name := range cmd.Names() {
			h.cmds[strings.ToLower(name)] = cmd
		}
	}
}

// Handle runs the command named by the first word of text.
// Returns true if a command was found and executed.
func (h *Handler) Handle(player *model.Player, text string) bool {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), Prefix))
	if text == "" {
		return false
	}

	parts := strings.Fields(text)
	name := strings.ToLower(parts[0])

	h.mu.RLock()
	cmd, ok := h.cmds[name]
	h.mu.RUnlock()

	if !ok {
		h.send(player, "Unknown command: "+Prefix+name)
		return false
	}

	params := strings.TrimSpace(text[len(parts[0]):])

	slog.Debug("player command", "player", player.Name(), "command", name, "params", params)

	if err := cmd.Handle(player, params); err != nil {
		h.send(player, fmt.Sprintf("Command error: %s", err))
		slog.Error("player command failed",
			"player", player.Name(),
			"command", text,
			"error", err)
	}
	return true
}

// Names returns the registered command names, sorted.
func (h *Handler) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.cmds))
	for name := range h.cmds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Count returns number of registered command names.
func (h *Handler) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.cmds)
}

func (h *Handler) send(player *model.Player, text string) {
	if h.reply != nil {
		h.reply.SendMessage(player, text)
	}
}
