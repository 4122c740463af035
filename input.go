package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler handles keyboard and mouse input for the current frame.
// Open modals take all input; otherwise bindings are checked.
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	screenWidth         func() int

	scrubbing  bool
	lastScrubX int
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, km *KeybindingManager, mm *MousebindingManager, screenWidth func() int) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   km,
		mousebindingManager: mm,
		screenWidth:         screenWidth,
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	if p := h.inputState.GetPrompt(); p != nil {
		return h.handlePrompt()
	}
	if n := h.inputState.GetNotice(); n != nil {
		return h.handleNotice(n)
	}
	if m := h.inputState.GetHistoryMenu(); m != nil {
		return h.handleHistoryMenu(m)
	}

	inputProcessed := false

	inputProcessed = h.handleProgressBar() || inputProcessed
	if h.scrubbing {
		return inputProcessed
	}

	inputProcessed = h.handleAction("exit") || inputProcessed
	inputProcessed = h.handleAction("help") || inputProcessed
	inputProcessed = h.handleAction("info") || inputProcessed
	inputProcessed = h.handleNavigation() || inputProcessed
	inputProcessed = h.handleAction("fullscreen") || inputProcessed
	inputProcessed = h.handleAction("leave_fullscreen") || inputProcessed
	inputProcessed = h.handleAction("history_menu") || inputProcessed
	inputProcessed = h.handleAction("open_file_manager") || inputProcessed

	return inputProcessed
}

func (h *InputHandler) handleAction(action string) bool {
	if h.keybindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
		return true
	}
	return h.mousebindingManager.ExecuteAction(action, h.inputActions, h.inputState)
}

func (h *InputHandler) handleNavigation() bool {
	inputProcessed := false

	for _, action := range []string{"next", "previous", "jump_first", "jump_last"} {
		if h.handleAction(action) {
			inputProcessed = true
		}
	}

	return inputProcessed
}

// handleProgressBar turns a press or drag on the progress bar into a jump.
func (h *InputHandler) handleProgressBar() bool {
	if !h.inputState.HasImages() {
		h.scrubbing = false
		return false
	}

	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && y >= 0 && y < progressBarHeight {
		h.scrubbing = true
		h.lastScrubX = -1
	}
	if !h.scrubbing {
		return false
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		h.scrubbing = false
		return false
	}
	if x == h.lastScrubX {
		return false
	}

	h.lastScrubX = x
	h.inputActions.JumpToFraction(progressFraction(x, h.screenWidth()))
	return true
}

// progressFraction maps an x coordinate on the bar to [0,1].
func progressFraction(x, width int) float64 {
	if width <= 1 {
		return 0
	}
	f := float64(x) / float64(width-1)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (h *InputHandler) handlePrompt() bool {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyY) || inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		h.inputActions.AnswerPrompt(true)
		return true
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		h.inputActions.AnswerPrompt(false)
		return true
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		h.inputActions.CancelPrompt()
		return true
	}
	return false
}

func (h *InputHandler) handleNotice(n *Notice) bool {
	if n.Suppressible && inpututil.IsKeyJustPressed(ebiten.KeyD) {
		h.inputActions.ToggleNoticeSuppression()
		return true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		h.inputActions.DismissNotice()
		return true
	}
	return false
}

func (h *InputHandler) handleHistoryMenu(m *HistoryMenu) bool {
	_, wheelY := ebiten.Wheel()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || wheelY > 0:
		m.Move(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || wheelY < 0:
		m.Move(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if entry, ok := m.Current(); ok {
			h.inputActions.SelectHistory(entry)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		if entry, ok := m.Current(); ok {
			h.inputActions.ConfirmDeleteHistory(entry)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		inpututil.IsKeyJustPressed(ebiten.KeyM) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		h.inputActions.CloseHistoryMenu()
	default:
		return false
	}
	return true
}
