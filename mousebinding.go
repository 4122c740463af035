package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64
	DoubleClickTime  int // milliseconds
	EnableMouse      bool
	WheelInverted    bool
}

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// clickZone names the horizontal region of the window a click lands in.
type clickZone int

const (
	zoneNone clickZone = iota
	zoneLeftEdge
	zoneRightEdge
)

// zoneAt classifies a click at (x, y) in a window width pixels wide. The left
// and right quarters below the progress bar are navigation zones.
func zoneAt(x, y, width int) clickZone {
	if width <= 0 || y < progressBarHeight {
		return zoneNone
	}
	switch {
	case x < width/4:
		return zoneLeftEdge
	case x >= width-width/4:
		return zoneRightEdge
	default:
		return zoneNone
	}
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaX   float64
	WheelDeltaY   float64
	IsDoubleClick bool
	Zone          clickZone // left button restricted to a zone
	Shift         bool
	Ctrl          bool
	Alt           bool
}

// MousebindingManager handles dynamic mouse binding processing
type MousebindingManager struct {
	mousebindings      map[string][]string
	settings           MouseSettings
	doubleClickTracker DoubleClickTracker
	screenWidth        func() int
}

// NewMousebindingManager creates a new MousebindingManager. screenWidth
// reports the current logical window width for zone clicks.
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings, screenWidth func() int) *MousebindingManager {
	return &MousebindingManager{
		mousebindings: mousebindings,
		settings:      settings,
		doubleClickTracker: DoubleClickTracker{
			lastClickTime: time.Now(),
		},
		screenWidth: screenWidth,
	}
}

// getMouseMapping returns a mapping from string mouse actions to Ebiten mouse buttons
func getMouseMapping() map[string]ebiten.MouseButton {
	return map[string]ebiten.MouseButton{
		"LeftClick":   ebiten.MouseButtonLeft,
		"RightClick":  ebiten.MouseButtonRight,
		"MiddleClick": ebiten.MouseButtonMiddle,
		"Back":        ebiten.MouseButton3, // Back button (side button)
		"Forward":     ebiten.MouseButton4, // Forward button (side button)
	}
}

// parseMouseString parses a mouse string like "Shift+LeftClick", "WheelUp"
// or "LeftEdgeClick" into a MouseCombination
func parseMouseString(mouseStr string) (*MouseCombination, bool) {
	parts := strings.Split(mouseStr, "+")
	mouseMapping := getMouseMapping()

	combination := &MouseCombination{}

	// Last part should be the actual mouse action
	actionName := parts[len(parts)-1]

	switch {
	case strings.HasPrefix(actionName, "Wheel"):
		combination.IsWheel = true
		switch actionName {
		case "WheelUp":
			combination.WheelDeltaY = 1.0
		case "WheelDown":
			combination.WheelDeltaY = -1.0
		case "WheelLeft":
			combination.WheelDeltaX = -1.0
		case "WheelRight":
			combination.WheelDeltaX = 1.0
		default:
			return nil, false
		}
	case actionName == "LeftEdgeClick":
		combination.Button = ebiten.MouseButtonLeft
		combination.Zone = zoneLeftEdge
	case actionName == "RightEdgeClick":
		combination.Button = ebiten.MouseButtonLeft
		combination.Zone = zoneRightEdge
	case strings.HasPrefix(actionName, "Double"):
		combination.IsDoubleClick = true
		button, exists := mouseMapping[strings.TrimPrefix(actionName, "Double")]
		if !exists {
			return nil, false
		}
		combination.Button = button
	default:
		button, exists := mouseMapping[actionName]
		if !exists {
			return nil, false
		}
		combination.Button = button
	}

	for i := 0; i < len(parts)-1; i++ {
		switch strings.ToLower(parts[i]) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return nil, false
		}
	}

	return combination, true
}

// isMouseActionTriggered checks if a mouse combination is currently being triggered
func (mm *MousebindingManager) isMouseActionTriggered(combination *MouseCombination) bool {
	if !mm.settings.EnableMouse {
		return false
	}

	if combination.Shift != ebiten.IsKeyPressed(ebiten.KeyShift) {
		return false
	}
	if combination.Ctrl != ebiten.IsKeyPressed(ebiten.KeyControl) {
		return false
	}
	if combination.Alt != ebiten.IsKeyPressed(ebiten.KeyAlt) {
		return false
	}

	if combination.IsWheel {
		wheelX, wheelY := ebiten.Wheel()

		if mm.settings.WheelInverted {
			wheelY = -wheelY
		}
		wheelX *= mm.settings.WheelSensitivity
		wheelY *= mm.settings.WheelSensitivity

		if combination.WheelDeltaX != 0 {
			return (combination.WheelDeltaX > 0 && wheelX > 0) || (combination.WheelDeltaX < 0 && wheelX < 0)
		}
		if combination.WheelDeltaY != 0 {
			return (combination.WheelDeltaY > 0 && wheelY > 0) || (combination.WheelDeltaY < 0 && wheelY < 0)
		}
		return false
	}

	if combination.IsDoubleClick {
		return mm.checkDoubleClick(combination.Button)
	}

	if !inpututil.IsMouseButtonJustPressed(combination.Button) {
		return false
	}
	if combination.Zone != zoneNone {
		x, y := ebiten.CursorPosition()
		return zoneAt(x, y, mm.screenWidth()) == combination.Zone
	}
	return true
}

// checkDoubleClick checks if a double-click occurred for the given button
func (mm *MousebindingManager) checkDoubleClick(button ebiten.MouseButton) bool {
	if !inpututil.IsMouseButtonJustPressed(button) {
		return false
	}

	now := time.Now()
	timeSinceLastClick := now.Sub(mm.doubleClickTracker.lastClickTime)

	if mm.doubleClickTracker.lastClickButton == button &&
		timeSinceLastClick <= time.Duration(mm.settings.DoubleClickTime)*time.Millisecond {
		mm.doubleClickTracker.clickCount++
		if mm.doubleClickTracker.clickCount == 2 {
			mm.doubleClickTracker.clickCount = 0
			mm.doubleClickTracker.lastClickTime = now
			return true
		}
	} else {
		mm.doubleClickTracker.clickCount = 1
		mm.doubleClickTracker.lastClickButton = button
	}

	mm.doubleClickTracker.lastClickTime = now
	return false
}

// CheckAction checks if any mouse binding for the given action is triggered
func (mm *MousebindingManager) CheckAction(action string) bool {
	mouseStrings, exists := mm.mousebindings[action]
	if !exists {
		return false
	}

	for _, mouseStr := range mouseStrings {
		combination, valid := parseMouseString(mouseStr)
		if valid && mm.isMouseActionTriggered(combination) {
			return true
		}
	}

	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !mm.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// GetMousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300, // milliseconds
		EnableMouse:      true,
		WheelInverted:    false,
	}
}

// resolveMousebindings fills missing actions with defaults and falls back to
// the defaults when a binding cannot be parsed.
func resolveMousebindings(configured map[string][]string) (map[string][]string, string) {
	defaults := GetDefaultMousebindings()
	if configured == nil {
		return defaults, ""
	}

	merged := make(map[string][]string, len(defaults))
	for action, bindings := range configured {
		merged[action] = bindings
	}
	for action, bindings := range defaults {
		if _, exists := merged[action]; !exists {
			merged[action] = bindings
		}
	}

	for action, bindings := range merged {
		for _, b := range bindings {
			if _, ok := parseMouseString(b); !ok {
				return defaults, fmt.Sprintf("Mouse binding errors: invalid binding '%s' for action '%s'", b, action)
			}
		}
	}
	return merged, ""
}
