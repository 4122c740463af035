package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"dirview/internal/config"
	"dirview/internal/history"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second

	// Height of the position bar at the top of the window
	progressBarHeight = 10
)

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	IsFullscreen() bool

	// Rendering data
	GetCurrentImage() *ebiten.Image
	GetTitle() string
	GetInfo() string
	GetProgress() (current, total int)

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time
	GetHistoryMenu() *HistoryMenu
	GetPrompt() *Prompt
	GetNotice() *Notice

	// Display data
	GetFontSize() float64
	GetConfigStatus() config.LoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()

	// Navigation
	NavigateNext()
	NavigatePrevious()
	JumpToFraction(f float64)

	// History
	OpenHistoryMenu()
	CloseHistoryMenu()
	SelectHistory(entry history.Entry)
	ConfirmDeleteHistory(entry history.Entry)

	// Modal answers
	AnswerPrompt(yes bool)
	CancelPrompt()
	DismissNotice()
	ToggleNoticeSuppression()

	OpenFileManager()

	// Messages
	ShowOverlayMessage(message string)
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsFullscreen() bool
	HasImages() bool
	GetHistoryMenu() *HistoryMenu
	GetPrompt() *Prompt
	GetNotice() *Notice
}
