package input

import (
	"sync"

	"gridview/internal/graphics"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical viewer action, not a physical key
type Action int

const (
	ActionRotateUp Action = iota
	ActionRotateDown
	ActionRotateLeft
	ActionRotateRight
	ActionMoveFarther
	ActionMoveNearer
	ActionToggleOverlay
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

var directions = [ActionCount]graphics.Direction{
	ActionRotateUp:    graphics.DirectionUp,
	ActionRotateDown:  graphics.DirectionDown,
	ActionRotateLeft:  graphics.DirectionLeft,
	ActionRotateRight: graphics.DirectionRight,
	ActionMoveFarther: graphics.DirectionFarther,
	ActionMoveNearer:  graphics.DirectionNearer,
}

// Direction returns the camera direction an action drives, or
// graphics.DirectionNone for non directional actions
func (a Action) Direction() graphics.Direction {
	if a < 0 || a >= ActionCount {
		return graphics.DirectionNone
	}
	return directions[a]
}

// DirectionHandler receives every directional key transition
type DirectionHandler func(dir graphics.Direction, pressed bool)

// InputManager maps physical keys to logical actions and tracks their state
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	currentState [ActionCount]bool
	// Just pressed flags (reset each frame)
	justPressed [ActionCount]bool

	onDirection DirectionHandler
}

// NewInputManager creates a new InputManager with default key bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions: make(map[glfw.Key][]Action),
	}

	im.BindKey(glfw.KeyUp, ActionRotateUp)
	im.BindKey(glfw.KeyDown, ActionRotateDown)
	im.BindKey(glfw.KeyLeft, ActionRotateLeft)
	im.BindKey(glfw.KeyRight, ActionRotateRight)
	im.BindKey(glfw.KeyPageUp, ActionMoveFarther)
	im.BindKey(glfw.KeyPageDown, ActionMoveNearer)
	im.BindKey(glfw.KeyF1, ActionToggleOverlay)
	im.BindKey(glfw.KeyEscape, ActionQuit)

	return im
}

// BindKey binds a physical key to a logical action
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// OnDirection installs the handler for directional transitions
func (im *InputManager) OnDirection(h DirectionHandler) {
	im.mu.Lock()
	im.onDirection = h
	im.mu.Unlock()
}

// HandleKeyEvent processes a key event and updates internal state.
// Press and Repeat both count as pressed.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.RLock()
	actions, exists := im.keyToActions[key]
	handler := im.onDirection
	im.mu.RUnlock()

	if !exists {
		return
	}

	isPressed := action == glfw.Press || action == glfw.Repeat

	im.mu.Lock()
	for _, act := range actions {
		if isPressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		im.currentState[act] = isPressed
	}
	im.mu.Unlock()

	// handler runs unlocked so it may query the manager
	if handler == nil {
		return
	}
	for _, act := range actions {
		if dir := act.Direction(); dir != graphics.DirectionNone {
			handler(dir, isPressed)
		}
	}
}

// SetKeyCallback sets up the GLFW key callback for this input manager
func (im *InputManager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
}

// PostUpdate must be called at the end of each frame to reset edge flags
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for i := range ActionCount {
		im.justPressed[i] = false
	}
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}
