package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"dirview/internal/history"
)

func TestDefaultBindingsAreValid(t *testing.T) {
	if err := validateKeybindings(GetDefaultKeybindings()); err != nil {
		t.Fatalf("default keybindings invalid: %v", err)
	}

	for action, bindings := range GetDefaultMousebindings() {
		for _, b := range bindings {
			if _, ok := parseMouseString(b); !ok {
				t.Errorf("default mouse binding %q for %s does not parse", b, action)
			}
		}
	}
}

func TestEveryActionIsExecutable(t *testing.T) {
	actions := &recordingActions{}
	for _, def := range actionDefinitions {
		if !globalActionExecutor.ExecuteAction(def.Name, actions, actions) {
			t.Errorf("action %s is not handled by the executor", def.Name)
		}
	}
	if globalActionExecutor.ExecuteAction("rotate_left", actions, actions) {
		t.Error("unknown action reported as handled")
	}
}

func TestValidateKeybindings(t *testing.T) {
	tests := []struct {
		name        string
		keybindings map[string][]string
		wantErr     string
	}{
		{
			name:        "valid",
			keybindings: map[string][]string{"next": {"Space", "Ctrl+KeyN"}, "exit": {"KeyQ"}},
		},
		{
			name:        "conflict",
			keybindings: map[string][]string{"next": {"Space"}, "previous": {"Space"}},
			wantErr:     "key conflict",
		},
		{
			name:        "conflict despite modifier case",
			keybindings: map[string][]string{"help": {"Shift+Slash"}, "info": {"shift+Slash"}},
			wantErr:     "key conflict",
		},
		{
			name:        "unknown key",
			keybindings: map[string][]string{"next": {"KeyNope"}},
			wantErr:     "unknown key",
		},
		{
			name:        "unknown modifier",
			keybindings: map[string][]string{"next": {"Hyper+KeyN"}},
			wantErr:     "unknown modifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKeybindings(tt.keybindings)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolveKeybindings(t *testing.T) {
	t.Run("nil uses defaults", func(t *testing.T) {
		got, warning := resolveKeybindings(nil)
		if warning != "" {
			t.Errorf("unexpected warning %q", warning)
		}
		if !reflect.DeepEqual(got, GetDefaultKeybindings()) {
			t.Errorf("got %v, want defaults", got)
		}
	})

	t.Run("missing actions filled", func(t *testing.T) {
		got, warning := resolveKeybindings(map[string][]string{"next": {"Space"}})
		if warning != "" {
			t.Errorf("unexpected warning %q", warning)
		}
		if !reflect.DeepEqual(got["next"], []string{"Space"}) {
			t.Errorf("next = %v, want [Space]", got["next"])
		}
		if !reflect.DeepEqual(got["exit"], []string{"KeyQ"}) {
			t.Errorf("exit = %v, want default", got["exit"])
		}
	})

	t.Run("conflict falls back", func(t *testing.T) {
		got, warning := resolveKeybindings(map[string][]string{"next": {"KeyQ"}})
		if warning == "" {
			t.Error("expected a warning")
		}
		if !reflect.DeepEqual(got, GetDefaultKeybindings()) {
			t.Errorf("got %v, want defaults", got)
		}
	})
}

func TestResolveMousebindings(t *testing.T) {
	got, warning := resolveMousebindings(map[string][]string{"next": {"Shift+WheelDown"}})
	if warning != "" {
		t.Errorf("unexpected warning %q", warning)
	}
	if !reflect.DeepEqual(got["next"], []string{"Shift+WheelDown"}) {
		t.Errorf("next = %v", got["next"])
	}
	if !reflect.DeepEqual(got["history_menu"], []string{"RightClick"}) {
		t.Errorf("history_menu = %v, want default", got["history_menu"])
	}

	got, warning = resolveMousebindings(map[string][]string{"next": {"TripleClick"}})
	if warning == "" {
		t.Error("expected a warning for an unknown binding")
	}
	if !reflect.DeepEqual(got, GetDefaultMousebindings()) {
		t.Errorf("got %v, want defaults", got)
	}
}

func TestParseKeyString(t *testing.T) {
	tests := []struct {
		input   string
		want    KeyCombination
		wantErr bool
	}{
		{"Shift+Slash", KeyCombination{Key: ebiten.KeySlash, Shift: true}, false},
		{"ctrl+alt+KeyN", KeyCombination{Key: ebiten.KeyN, Ctrl: true, Alt: true}, false},
		{"Key7", KeyCombination{Key: ebiten.Key7}, false},
		{"Delete", KeyCombination{Key: ebiten.KeyDelete}, false},
		{"KeyNope", KeyCombination{}, true},
		{"Hyper+KeyN", KeyCombination{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseKeyString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseKeyString(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseKeyString(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseKeyString(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeybindingManagerSkipsInvalid(t *testing.T) {
	km := NewKeybindingManager(map[string][]string{"next": {"Space", "KeyNope"}})
	if got := len(km.combinations["next"]); got != 1 {
		t.Errorf("parsed %d combinations for next, want 1", got)
	}
}

func TestParseMouseString(t *testing.T) {
	tests := []struct {
		input  string
		ok     bool
		button ebiten.MouseButton
		wheelY float64
		zone   clickZone
		double bool
		shift  bool
	}{
		{input: "RightClick", ok: true, button: ebiten.MouseButtonRight},
		{input: "WheelDown", ok: true, wheelY: -1},
		{input: "WheelUp", ok: true, wheelY: 1},
		{input: "LeftEdgeClick", ok: true, button: ebiten.MouseButtonLeft, zone: zoneLeftEdge},
		{input: "RightEdgeClick", ok: true, button: ebiten.MouseButtonLeft, zone: zoneRightEdge},
		{input: "DoubleLeftClick", ok: true, button: ebiten.MouseButtonLeft, double: true},
		{input: "Shift+MiddleClick", ok: true, button: ebiten.MouseButtonMiddle, shift: true},
		{input: "WheelSideways", ok: false},
		{input: "Super+LeftClick", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			combo, ok := parseMouseString(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if combo.IsWheel {
				if combo.WheelDeltaY != tt.wheelY {
					t.Errorf("WheelDeltaY = %v, want %v", combo.WheelDeltaY, tt.wheelY)
				}
				return
			}
			if combo.Button != tt.button || combo.Zone != tt.zone || combo.IsDoubleClick != tt.double || combo.Shift != tt.shift {
				t.Errorf("unexpected combination %+v", combo)
			}
		})
	}
}

func TestZoneAt(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		width int
		want  clickZone
	}{
		{"left quarter", 10, 300, 800, zoneLeftEdge},
		{"left boundary", 199, 300, 800, zoneLeftEdge},
		{"middle", 200, 300, 800, zoneNone},
		{"middle right", 599, 300, 800, zoneNone},
		{"right quarter", 600, 300, 800, zoneRightEdge},
		{"on progress bar", 10, 5, 800, zoneNone},
		{"no window", 10, 300, 0, zoneNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := zoneAt(tt.x, tt.y, tt.width); got != tt.want {
				t.Errorf("zoneAt(%d, %d, %d) = %v, want %v", tt.x, tt.y, tt.width, got, tt.want)
			}
		})
	}
}

func TestProgressFraction(t *testing.T) {
	tests := []struct {
		x, width int
		want     float64
	}{
		{0, 101, 0},
		{50, 101, 0.5},
		{100, 101, 1},
		{-20, 101, 0},
		{500, 101, 1},
		{3, 0, 0},
	}

	for _, tt := range tests {
		if got := progressFraction(tt.x, tt.width); got != tt.want {
			t.Errorf("progressFraction(%d, %d) = %v, want %v", tt.x, tt.width, got, tt.want)
		}
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name         string
		iw, ih, w, h int
		fullscreen   bool
		expected     float64
	}{
		{"small image windowed", 100, 100, 800, 600, false, 1},
		{"small image fullscreen", 100, 100, 800, 600, true, 6},
		{"wide image", 1600, 400, 800, 600, false, 0.5},
		{"tall image", 400, 1200, 800, 600, false, 0.5},
		{"degenerate", 0, 100, 800, 600, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitScale(tt.iw, tt.ih, tt.w, tt.h, tt.fullscreen); got != tt.expected {
				t.Errorf("fitScale = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTruncateMiddle(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"/home/user/pictures/2024", 13, "/home.../2024"},
		{"写真フォルダの中の画像", 8, "写真...の画像"},
		{"abcdef", 3, "abcdef"},
	}

	for _, tt := range tests {
		if got := truncateMiddle(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateMiddle(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFileManagerCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"windows", "explorer"},
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}

	for _, tt := range tests {
		name, args := fileManagerCommand(tt.goos, "/photos")
		if name != tt.want {
			t.Errorf("%s: command = %q, want %q", tt.goos, name, tt.want)
		}
		if !reflect.DeepEqual(args, []string{"/photos"}) {
			t.Errorf("%s: args = %v", tt.goos, args)
		}
	}
}

func TestHistoryMenu(t *testing.T) {
	if NewHistoryMenu(nil) != nil {
		t.Error("empty menu should be nil")
	}

	m := NewHistoryMenu([]history.Entry{{Dir: "/a"}, {Dir: "/b"}, {Dir: "/c"}})
	m.Move(-1)
	if e, _ := m.Current(); e.Dir != "/c" {
		t.Errorf("after wrap up, selected %s, want /c", e.Dir)
	}
	m.Move(1)
	if e, _ := m.Current(); e.Dir != "/a" {
		t.Errorf("after wrap down, selected %s, want /a", e.Dir)
	}
}

func TestPromptAnswersOnce(t *testing.T) {
	calls := 0
	var answer bool
	p := NewPrompt("Include subfolders?", func(yes bool) {
		calls++
		answer = yes
	})

	p.Answer(true)
	p.Answer(false)

	if calls != 1 || !answer {
		t.Errorf("calls = %d, answer = %v; want 1, true", calls, answer)
	}
}

func TestPromptCancel(t *testing.T) {
	t.Run("with cancel handler", func(t *testing.T) {
		answered, cancelled := 0, 0
		p := NewPrompt("Include subfolders?", func(bool) { answered++ }).
			WithCancel(func() { cancelled++ })

		p.Cancel()
		p.Cancel()
		p.Answer(true)

		if answered != 0 || cancelled != 1 {
			t.Errorf("answered = %d, cancelled = %d; want 0, 1", answered, cancelled)
		}
	})

	t.Run("without cancel handler answers no", func(t *testing.T) {
		var answers []bool
		p := NewPrompt("Remove /a from history?", func(yes bool) { answers = append(answers, yes) })

		p.Cancel()

		if !reflect.DeepEqual(answers, []bool{false}) {
			t.Errorf("answers = %v, want [false]", answers)
		}
	})
}

func TestNoticeQueue(t *testing.T) {
	var q NoticeQueue
	q.Push(&Notice{Title: "missing 1", Suppressible: true})
	q.Push(&Notice{Title: "unreadable"})
	q.Push(&Notice{Title: "missing 2", Suppressible: true})

	if q.Current().Title != "missing 1" {
		t.Fatalf("current = %s", q.Current().Title)
	}
	q.Pop()
	q.DropSuppressible()

	if q.Len() != 1 || q.Current().Title != "unreadable" {
		t.Errorf("remaining = %d, current = %v", q.Len(), q.Current())
	}
	q.Pop()
	if q.Current() != nil || q.Pop() != nil {
		t.Error("queue should be empty")
	}
}

func TestHelpRows(t *testing.T) {
	rows := helpRows(
		map[string][]string{"next": {"ArrowRight"}, "exit": {"KeyQ"}, "unbound": {}},
		map[string][]string{"next": {"WheelDown"}, "history_menu": {"RightClick"}},
	)

	var names []string
	for _, r := range rows {
		names = append(names, r.action)
	}
	if !reflect.DeepEqual(names, []string{"exit", "history_menu", "next"}) {
		t.Errorf("actions = %v", names)
	}
	if rows[2].keys != "ArrowRight" || rows[2].mouse != "WheelDown" {
		t.Errorf("next row = %+v", rows[2])
	}
	if rows[2].description != "Next image" {
		t.Errorf("description = %q", rows[2].description)
	}
}

// recordingActions implements InputActions and InputState for executor tests.
type recordingActions struct {
	calls      []string
	fullscreen bool
}

func (r *recordingActions) record(name string) { r.calls = append(r.calls, name) }

func (r *recordingActions) Exit() { r.record("Exit") }
func (r *recordingActions) ToggleHelp() { r.record("ToggleHelp") }
func (r *recordingActions) ToggleInfo() { r.record("ToggleInfo") }
func (r *recordingActions) ToggleFullscreen() { r.record("ToggleFullscreen") }
func (r *recordingActions) NavigateNext() { r.record("NavigateNext") }
func (r *recordingActions) NavigatePrevious() { r.record("NavigatePrevious") }
func (r *recordingActions) JumpToFraction(f float64) { r.record("JumpToFraction") }
func (r *recordingActions) OpenHistoryMenu() { r.record("OpenHistoryMenu") }
func (r *recordingActions) CloseHistoryMenu() { r.record("CloseHistoryMenu") }
func (r *recordingActions) SelectHistory(history.Entry) { r.record("SelectHistory") }
func (r *recordingActions) ConfirmDeleteHistory(history.Entry) { r.record("ConfirmDeleteHistory") }
func (r *recordingActions) AnswerPrompt(yes bool) { r.record("AnswerPrompt") }
func (r *recordingActions) CancelPrompt() { r.record("CancelPrompt") }
func (r *recordingActions) DismissNotice() { r.record("DismissNotice") }
func (r *recordingActions) ToggleNoticeSuppression() { r.record("ToggleNoticeSuppression") }
func (r *recordingActions) OpenFileManager() { r.record("OpenFileManager") }
func (r *recordingActions) ShowOverlayMessage(message string) { r.record("ShowOverlayMessage") }

func (r *recordingActions) IsFullscreen() bool { return r.fullscreen }
func (r *recordingActions) HasImages() bool { return true }
func (r *recordingActions) GetHistoryMenu() *HistoryMenu { return nil }
func (r *recordingActions) GetPrompt() *Prompt { return nil }
func (r *recordingActions) GetNotice() *Notice { return nil }

func TestLeaveFullscreenOnlyWhenFullscreen(t *testing.T) {
	r := &recordingActions{}
	globalActionExecutor.ExecuteAction("leave_fullscreen", r, r)
	if len(r.calls) != 0 {
		t.Errorf("windowed: calls = %v, want none", r.calls)
	}

	r.fullscreen = true
	globalActionExecutor.ExecuteAction("leave_fullscreen", r, r)
	if !reflect.DeepEqual(r.calls, []string{"ToggleFullscreen"}) {
		t.Errorf("fullscreen: calls = %v", r.calls)
	}
}

func TestDroppedPaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	got := droppedPaths(os.DirFS(dir))
	want := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "sub")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("droppedPaths() = %v, want %v", got, want)
	}
}
