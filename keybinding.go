package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyNames maps binding names to ebiten keys. Letters and digits are added
// by init as KeyA..KeyZ and Key0..Key9.
var keyNames = map[string]ebiten.Key{
	"Space":      ebiten.KeySpace,
	"Backspace":  ebiten.KeyBackspace,
	"Enter":      ebiten.KeyEnter,
	"Escape":     ebiten.KeyEscape,
	"Delete":     ebiten.KeyDelete,
	"Tab":        ebiten.KeyTab,
	"Home":       ebiten.KeyHome,
	"End":        ebiten.KeyEnd,
	"PageUp":     ebiten.KeyPageUp,
	"PageDown":   ebiten.KeyPageDown,
	"ArrowUp":    ebiten.KeyArrowUp,
	"ArrowDown":  ebiten.KeyArrowDown,
	"ArrowLeft":  ebiten.KeyArrowLeft,
	"ArrowRight": ebiten.KeyArrowRight,
	"Comma":      ebiten.KeyComma,
	"Period":     ebiten.KeyPeriod,
	"Slash":      ebiten.KeySlash,
	"Minus":      ebiten.KeyMinus,
	"Equal":      ebiten.KeyEqual,
}

func init() {
	letters := []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG,
		ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN,
		ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT, ebiten.KeyU,
		ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
	}
	for i, k := range letters {
		keyNames["Key"+string(rune('A'+i))] = k
	}
	digits := []ebiten.Key{
		ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
		ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
	}
	for i, k := range digits {
		keyNames["Key"+string(rune('0'+i))] = k
	}
}

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key   ebiten.Key
	Shift bool
	Ctrl  bool
	Alt   bool
}

// parseKeyString parses a key string like "Shift+Slash" into a KeyCombination.
func parseKeyString(keyStr string) (KeyCombination, error) {
	parts := strings.Split(keyStr, "+")

	var combination KeyCombination
	keyName := parts[len(parts)-1]
	key, ok := keyNames[keyName]
	if !ok {
		return combination, fmt.Errorf("unknown key: %s", keyName)
	}
	combination.Key = key

	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return combination, fmt.Errorf("unknown modifier: %s", mod)
		}
	}
	return combination, nil
}

// justPressed reports whether the key went down this tick with exactly the
// combination's modifiers held.
func (c KeyCombination) justPressed() bool {
	return inpututil.IsKeyJustPressed(c.Key) &&
		c.Shift == ebiten.IsKeyPressed(ebiten.KeyShift) &&
		c.Ctrl == ebiten.IsKeyPressed(ebiten.KeyControl) &&
		c.Alt == ebiten.IsKeyPressed(ebiten.KeyAlt)
}

// KeybindingManager checks the configured key combinations of each action.
type KeybindingManager struct {
	keybindings  map[string][]string
	combinations map[string][]KeyCombination
}

// NewKeybindingManager parses keybindings once. Strings that do not parse
// are skipped; resolveKeybindings has rejected them already.
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	km := &KeybindingManager{
		keybindings:  keybindings,
		combinations: make(map[string][]KeyCombination, len(keybindings)),
	}
	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if c, err := parseKeyString(keyStr); err == nil {
				km.combinations[action] = append(km.combinations[action], c)
			}
		}
	}
	return km
}

// CheckAction reports whether any combination of action was pressed.
func (km *KeybindingManager) CheckAction(action string) bool {
	for _, c := range km.combinations[action] {
		if c.justPressed() {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (km *KeybindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !km.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// GetKeybindings returns the current keybindings map (for display purposes)
func (km *KeybindingManager) GetKeybindings() map[string][]string {
	return km.keybindings
}

// validateKeybindings checks every key string and rejects a key bound to two
// actions.
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[KeyCombination]string)

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			c, err := parseKeyString(keyStr)
			if err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[c]; exists && existingAction != action {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[c] = action
		}
	}

	return nil
}

// resolveKeybindings fills actions missing from configured with defaults. An
// invalid result falls back to the defaults entirely and returns a warning.
func resolveKeybindings(configured map[string][]string) (map[string][]string, string) {
	defaults := GetDefaultKeybindings()
	if configured == nil {
		return defaults, ""
	}

	merged := make(map[string][]string, len(defaults))
	for action, keys := range configured {
		merged[action] = keys
	}
	for action, keys := range defaults {
		if _, exists := merged[action]; !exists {
			merged[action] = keys
		}
	}

	if err := validateKeybindings(merged); err != nil {
		return defaults, fmt.Sprintf("Keybinding errors: %v", err)
	}
	return merged, ""
}
