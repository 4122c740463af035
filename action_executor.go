package main

// ActionExecutor maps action names to InputActions calls for both the
// keyboard and the mouse managers.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction runs action and reports whether it is known.
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		inputActions.Exit()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "next":
		inputActions.NavigateNext()
	case "previous":
		inputActions.NavigatePrevious()
	case "jump_first":
		inputActions.JumpToFraction(0)
	case "jump_last":
		inputActions.JumpToFraction(1)
	case "fullscreen":
		inputActions.ToggleFullscreen()
	case "leave_fullscreen":
		if inputState.IsFullscreen() {
			inputActions.ToggleFullscreen()
		}
	case "history_menu":
		inputActions.OpenHistoryMenu()
	case "open_file_manager":
		inputActions.OpenFileManager()
	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()
