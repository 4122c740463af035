package main

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"dirview/internal/config"
	"dirview/internal/frame"
	"dirview/internal/geometry"
	"dirview/internal/history"
	"dirview/internal/session"
)

// Game is the ebiten host. It presents the session's frames and turns input
// into session calls.
type Game struct {
	session    *session.Session
	history    *history.Store
	watcher    *DirectoryWatcher
	cfg        config.Config
	configLoad config.LoadResult
	configPath string
	log        zerolog.Logger

	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	inputHandler        *InputHandler
	renderer            *Renderer

	currentImage *ebiten.Image

	fullscreen bool
	savedWinW  int
	savedWinH  int
	savedWinX  int
	savedWinY  int

	showHelp           bool
	showInfo           bool
	overlayMessage     string
	overlayMessageTime time.Time
	historyMenu        *HistoryMenu
	prompt             *Prompt
	notices            NoticeQueue

	startupPath string
	started     bool
	quit        bool
	closed      bool
	screenW     int
	screenH     int
}

// GameOptions carries the collaborators and settings for NewGame.
type GameOptions struct {
	Config        config.LoadResult
	ConfigPath    string
	Keybindings   map[string][]string
	Mousebindings map[string][]string
	History       *history.Store
	Collator      session.Collator
	Decoder       frame.Decoder
	Watcher       *DirectoryWatcher // optional
	StartupPath   string
	Log           zerolog.Logger
}

// NewGame wires a session to a new Game.
func NewGame(opts GameOptions) *Game {
	g := &Game{
		history:     opts.History,
		watcher:     opts.Watcher,
		cfg:         opts.Config.Config,
		configLoad:  opts.Config,
		configPath:  opts.ConfigPath,
		log:         opts.Log,
		startupPath: opts.StartupPath,
	}

	g.session = session.New(opts.Collator, opts.Decoder, opts.History, g, opts.Log.With().Str("component", "session").Logger())
	g.session.SetSuppressMissingFileWarning(g.cfg.SuppressMissingFileWarning)

	g.keybindingManager = NewKeybindingManager(opts.Keybindings)
	g.mousebindingManager = NewMousebindingManager(opts.Mousebindings, GetDefaultMouseSettings(), g.screenWidth)
	g.inputHandler = NewInputHandler(g, g, g.keybindingManager, g.mousebindingManager, g.screenWidth)
	g.renderer = NewRenderer(g)
	return g
}

func (g *Game) screenWidth() int { return g.screenW }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.quit || ebiten.IsWindowBeingClosed() {
		g.shutdown()
		return ebiten.Termination
	}

	if !g.started {
		g.started = true
		g.restoreWindowPosition()
		if g.startupPath != "" {
			g.drop([]string{g.startupPath})
		}
	}

	g.drainWatcher()
	if g.prompt == nil {
		g.handleDrop()
	}
	g.inputHandler.HandleInput()
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// restoreWindowPosition moves the window to its saved position, pulled back
// onto the monitor when the saved rectangle is off screen.
func (g *Game) restoreWindowPosition() {
	if g.configLoad.Status == config.StatusDefault {
		return
	}
	mw, mh := ebiten.Monitor().Size()
	w, h := ebiten.WindowSize()
	pos := geometry.Reconcile(
		image.Pt(g.cfg.Position[0], g.cfg.Position[1]),
		image.Pt(w, h),
		[]image.Rectangle{image.Rect(0, 0, mw, mh)},
		0,
	)
	if pos.X != g.cfg.Position[0] || pos.Y != g.cfg.Position[1] {
		g.log.Info().
			Ints("saved", g.cfg.Position[:]).
			Int("x", pos.X).Int("y", pos.Y).
			Msg("Saved window position is off screen, moving window")
	}
	ebiten.SetWindowPosition(pos.X, pos.Y)
}

// drop hands dropped paths to the session and asks about subfolders when
// the policy defers.
func (g *Game) drop(paths []string) {
	if err := g.session.OnDrop(paths, g.subfolderPolicy()); err != nil {
		g.log.Debug().Err(err).Msg("Drop failed")
	}
	g.askPendingSubfolders()
}

func (g *Game) subfolderPolicy() session.SubfolderPolicy {
	switch g.cfg.Subfolders {
	case config.SubfoldersAlways:
		return session.AlwaysInclude
	case config.SubfoldersNever:
		return session.NeverInclude
	default:
		return session.AskUser
	}
}

func (g *Game) askPendingSubfolders() {
	req, ok := g.session.Pending()
	if !ok {
		return
	}
	g.prompt = NewPrompt(fmt.Sprintf("Include subfolders of %s?", filepath.Base(req.Dir)), func(yes bool) {
		if err := g.session.ResolvePending(yes); err != nil {
			g.log.Debug().Err(err).Msg("Load failed")
		}
	}).WithCancel(g.session.CancelPending)
}

// drainWatcher revalidates the current image when it was removed on disk.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	revalidate := false
	for {
		select {
		case path := <-g.watcher.Removed():
			if path == g.session.CurrentPath() {
				revalidate = true
			}
			continue
		default:
		}
		break
	}
	if revalidate {
		g.log.Debug().Str("path", g.session.CurrentPath()).Msg("Current image changed on disk")
		g.session.Revalidate()
	}
}

func (g *Game) watchSession() {
	if g.watcher != nil {
		g.watcher.Watch(g.session.Dirs())
	}
}

// shutdown commits the position and writes the config once.
func (g *Game) shutdown() {
	if g.closed {
		return
	}
	g.closed = true

	g.session.Commit()
	g.cfg.History = config.History(g.history.Entries())
	g.cfg.SuppressMissingFileWarning = g.session.SuppressMissingFileWarning()

	if g.fullscreen {
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.cfg.Size = [2]int{g.savedWinW, g.savedWinH}
			g.cfg.Position = [2]int{g.savedWinX, g.savedWinY}
		}
	} else {
		w, h := ebiten.WindowSize()
		x, y := ebiten.WindowPosition()
		g.cfg.Size = [2]int{w, h}
		g.cfg.Position = [2]int{x, y}
	}

	if err := config.Save(g.cfg, g.configPath); err != nil {
		g.log.Error().Err(err).Msg("Failed to save config")
	} else {
		g.log.Debug().Str("path", g.configPath).Msg("Config saved")
	}

	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Warn().Err(err).Msg("Failed to close directory watcher")
		}
	}
}

// Presenter

func (g *Game) ShowFrame(f *frame.Frame) {
	g.releaseImage()
	g.currentImage = ebiten.NewImageFromImage(f.Image)
	ebiten.SetWindowTitle(f.Title())
	g.watchSession()
}

func (g *Game) Clear() {
	g.releaseImage()
	ebiten.SetWindowTitle(frame.EmptyTitle)
	g.watchSession()
}

func (g *Game) NotifyMissingFile(path string, err error) {
	title := "File not found"
	if errors.Is(err, frame.ErrUnsupportedImage) {
		title = "Cannot display image"
	}
	g.notices.Push(&Notice{
		Title:        title,
		Lines:        []string{path},
		Suppressible: true,
		Suppressed:   g.session.SuppressMissingFileWarning(),
	})
}

func (g *Game) NotifyUnreadable(dir string, err error) {
	g.notices.Push(&Notice{
		Title: "Cannot open directory",
		Lines: []string{dir, err.Error()},
	})
}

func (g *Game) releaseImage() {
	if g.currentImage != nil {
		g.currentImage.Deallocate()
		g.currentImage = nil
	}
}

// InputActions

func (g *Game) Exit() {
	g.quit = true
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Game) ToggleInfo() {
	g.showInfo = !g.showInfo
}

func (g *Game) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	if g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		g.savedWinX, g.savedWinY = ebiten.WindowPosition()
		ebiten.SetFullscreen(true)
	} else {
		ebiten.SetFullscreen(false)
		if g.savedWinW > 0 && g.savedWinH > 0 {
			ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
			ebiten.SetWindowPosition(g.savedWinX, g.savedWinY)
		}
	}
}

func (g *Game) NavigateNext() {
	g.session.MoveIndex(1)
}

func (g *Game) NavigatePrevious() {
	g.session.MoveIndex(-1)
}

func (g *Game) JumpToFraction(f float64) {
	g.session.JumpToFraction(f)
}

func (g *Game) OpenHistoryMenu() {
	g.historyMenu = NewHistoryMenu(g.history.EntriesMostRecentFirst())
	if g.historyMenu == nil {
		g.ShowOverlayMessage("No recent directories")
	}
}

func (g *Game) CloseHistoryMenu() {
	g.historyMenu = nil
}

func (g *Game) SelectHistory(entry history.Entry) {
	g.historyMenu = nil
	if err := g.session.OnHistorySelect(entry.Dir, g.subfolderPolicy()); err != nil {
		g.log.Debug().Err(err).Str("dir", entry.Dir).Msg("History load failed")
	}
	g.askPendingSubfolders()
}

func (g *Game) ConfirmDeleteHistory(entry history.Entry) {
	g.prompt = NewPrompt(fmt.Sprintf("Remove %s from history?", entry.Dir), func(yes bool) {
		if !yes {
			return
		}
		g.session.OnHistoryDelete(entry.Dir)
		selected := 0
		if g.historyMenu != nil {
			selected = g.historyMenu.Selected
		}
		g.historyMenu = NewHistoryMenu(g.history.EntriesMostRecentFirst())
		if g.historyMenu != nil {
			g.historyMenu.Selected = min(selected, len(g.historyMenu.Entries)-1)
		}
	})
}

func (g *Game) AnswerPrompt(yes bool) {
	p := g.prompt
	g.prompt = nil
	if p != nil {
		p.Answer(yes)
	}
}

func (g *Game) CancelPrompt() {
	p := g.prompt
	g.prompt = nil
	if p != nil {
		p.Cancel()
	}
}

func (g *Game) DismissNotice() {
	n := g.notices.Pop()
	if n != nil && n.Suppressible && n.Suppressed {
		g.notices.DropSuppressible()
	}
}

func (g *Game) ToggleNoticeSuppression() {
	n := g.notices.Current()
	if n == nil || !n.Suppressible {
		return
	}
	n.Suppressed = !n.Suppressed
	g.session.SetSuppressMissingFileWarning(n.Suppressed)
}

func (g *Game) OpenFileManager() {
	path := g.session.CurrentPath()
	if path == "" {
		g.ShowOverlayMessage("No directory to open")
		return
	}
	dir := filepath.Dir(path)
	if err := openInFileManager(runtime.GOOS, dir); err != nil {
		g.log.Warn().Err(err).Str("dir", dir).Msg("Cannot open file manager")
		g.ShowOverlayMessage("Cannot open file manager")
	}
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

// RenderState and InputState

func (g *Game) IsFullscreen() bool { return g.fullscreen }
func (g *Game) HasImages() bool { return g.session.State() == session.Ready }
func (g *Game) GetCurrentImage() *ebiten.Image { return g.currentImage }
func (g *Game) GetTitle() string { return g.session.Title() }
func (g *Game) GetInfo() string { return g.session.Info() }
func (g *Game) GetProgress() (int, int) { return g.session.Progress() }
func (g *Game) IsShowingHelp() bool { return g.showHelp }
func (g *Game) IsShowingInfo() bool { return g.showInfo }
func (g *Game) GetOverlayMessage() string { return g.overlayMessage }
func (g *Game) GetOverlayMessageTime() time.Time { return g.overlayMessageTime }
func (g *Game) GetHistoryMenu() *HistoryMenu { return g.historyMenu }
func (g *Game) GetPrompt() *Prompt { return g.prompt }
func (g *Game) GetNotice() *Notice { return g.notices.Current() }
func (g *Game) GetFontSize() float64 { return g.cfg.FontSize }
func (g *Game) GetConfigStatus() config.LoadResult { return g.configLoad }
func (g *Game) GetKeybindings() map[string][]string { return g.keybindingManager.GetKeybindings() }
func (g *Game) GetMousebindings() map[string][]string { return g.mousebindingManager.GetMousebindings() }
