package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"KeyQ"}, []string{}, "Quit application"},
	{"help", []string{"Shift+Slash"}, []string{}, "Show/hide help"},
	{"info", []string{"KeyI"}, []string{}, "Show/hide info display"},
	{"next", []string{"ArrowRight"}, []string{"RightEdgeClick", "WheelDown"}, "Next image"},
	{"previous", []string{"ArrowLeft"}, []string{"LeftEdgeClick", "WheelUp"}, "Previous image"},
	{"jump_first", []string{"Home"}, []string{}, "Jump to first image"},
	{"jump_last", []string{"End"}, []string{}, "Jump to last image"},
	{"fullscreen", []string{"KeyF"}, []string{"MiddleClick"}, "Toggle fullscreen"},
	{"leave_fullscreen", []string{"Escape"}, []string{}, "Leave fullscreen"},
	{"history_menu", []string{"KeyM"}, []string{"RightClick"}, "Show recent directories"},
	{"open_file_manager", []string{"KeyE"}, []string{}, "Open current directory in file manager"},
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
	}
	return mousebindings
}
