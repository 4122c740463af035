package main

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"dirview/internal/config"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorLightGray = color.RGBA{192, 192, 192, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	colorBarTrack = color.RGBA{60, 60, 60, 255}
	colorBarFill  = color.RGBA{70, 130, 220, 255}
	colorSelected = color.RGBA{70, 130, 220, 200}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128} // Light semi-transparent
	bgColorMedium = color.RGBA{0, 0, 0, 160} // Medium semi-transparent
	bgColorDark   = color.RGBA{0, 0, 0, 200} // Dark semi-transparent
)

const (
	minHelpFontSize = 12.0
	maxWarningLines = 2
)

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState) *Renderer {
	return &Renderer{renderState: renderState}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Clear()

	if img := r.renderState.GetCurrentImage(); img != nil {
		r.drawImageCentered(screen, img)
		r.drawProgressBar(screen)
	} else {
		r.drawEmptyMessage(screen)
	}

	if r.renderState.IsShowingInfo() {
		r.drawInfoDisplay(screen)
	}

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if m := r.renderState.GetHistoryMenu(); m != nil {
		r.drawHistoryMenu(screen, m)
	}

	if n := r.renderState.GetNotice(); n != nil {
		r.drawNotice(screen, n)
	}

	if p := r.renderState.GetPrompt(); p != nil {
		r.drawCenteredBox(screen, []string{p.Message, "[Y]es / [N]o"}, []color.RGBA{colorWhite, colorLightGray})
	}

	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawCenteredBox(screen, []string{r.renderState.GetOverlayMessage()}, []color.RGBA{colorWhite})
	}
}

// drawImageCentered draws img below the progress bar, fitted and centered.
func (r *Renderer) drawImageCentered(screen *ebiten.Image, img *ebiten.Image) {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()-progressBarHeight

	scale := fitScale(iw, ih, w, h, r.renderState.IsFullscreen())

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(scale, scale)
	sw, sh := float64(iw)*scale, float64(ih)*scale
	op.GeoM.Translate(float64(w)/2-sw/2, progressBarHeight+float64(h)/2-sh/2)

	screen.DrawImage(img, op)
}

func (r *Renderer) drawProgressBar(screen *ebiten.Image) {
	current, total := r.renderState.GetProgress()
	if total == 0 {
		return
	}
	w := float64(screen.Bounds().Dx())
	DrawFilledRect(screen, 0, 0, w, progressBarHeight, colorBarTrack)
	DrawFilledRect(screen, 0, 0, w*float64(current)/float64(total), progressBarHeight, colorBarFill)
}

func (r *Renderer) drawEmptyMessage(screen *ebiten.Image) {
	r.drawCenteredBox(screen,
		[]string{r.renderState.GetTitle(), "Start with: dirview <directory or image>", "M: recent directories   ?: help"},
		[]color.RGBA{colorWhite, colorLightGray, colorLightGray})
}

func (r *Renderer) drawInfoDisplay(screen *ebiten.Image) {
	infoFont := newFace(r.renderState.GetFontSize())

	infoText := r.renderState.GetInfo()

	textWidth, textHeight := text.Measure(infoText, infoFont, 0)

	// Position at bottom right corner
	padding := 10.0
	textX := float64(screen.Bounds().Dx()) - textWidth - padding
	if textX < padding {
		textX = padding
	}
	textY := float64(screen.Bounds().Dy()) - textHeight - padding

	bgPadding := 5.0
	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding, textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)

	DrawText(screen, infoText, infoFont, textX, textY, colorWhite)
}

// drawCenteredBox draws lines in a dark box in the middle of the screen.
func (r *Renderer) drawCenteredBox(screen *ebiten.Image, lines []string, colors []color.RGBA) {
	font := newFace(r.renderState.GetFontSize())
	maxChars := screen.Bounds().Dx() / int(r.renderState.GetFontSize()/2+1)

	gap := 10.0
	maxWidth, totalHeight := 0.0, 0.0
	heights := make([]float64, len(lines))
	for i, line := range lines {
		lines[i] = truncateMiddle(line, maxChars)
		lw, lh := text.Measure(lines[i], font, 0)
		if lw > maxWidth {
			maxWidth = lw
		}
		heights[i] = lh
		totalHeight += lh
	}
	totalHeight += gap * float64(len(lines)-1)

	padding := 20.0
	boxWidth := maxWidth + padding*2
	boxHeight := totalHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)

	y := boxY + padding
	for i, line := range lines {
		lw, _ := text.Measure(line, font, 0)
		c := colorWhite
		if i < len(colors) {
			c = colors[i]
		}
		DrawText(screen, line, font, boxX+(boxWidth-lw)/2, y, c)
		y += heights[i] + gap
	}
}

func (r *Renderer) drawNotice(screen *ebiten.Image, n *Notice) {
	lines := []string{n.Title}
	colors := []color.RGBA{colorOrange}
	for _, l := range n.Lines {
		lines = append(lines, l)
		colors = append(colors, colorWhite)
	}
	if n.Suppressible {
		box := "[ ]"
		if n.Suppressed {
			box = "[x]"
		}
		lines = append(lines, box+" Don't show again (D)")
		colors = append(colors, colorLightGray)
	}
	lines = append(lines, "Enter: OK")
	colors = append(colors, colorLightGray)
	r.drawCenteredBox(screen, lines, colors)
}

func (r *Renderer) drawHistoryMenu(screen *ebiten.Image, m *HistoryMenu) {
	font := newFace(r.renderState.GetFontSize())
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	lineHeight := r.renderState.GetFontSize() * 1.5
	padding := 20.0
	maxChars := int((w - padding*4) / (r.renderState.GetFontSize() / 2))

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	boxHeight := lineHeight*float64(len(m.Entries)+2) + padding*2
	if boxHeight > h-padding*2 {
		boxHeight = h - padding*2
	}
	boxX, boxY := padding, (h-boxHeight)/2
	DrawFilledRect(screen, boxX, boxY, w-padding*2, boxHeight, bgColorDark)

	y := boxY + padding
	DrawText(screen, "Recent directories", font, boxX+padding, y, colorWhite)
	y += lineHeight

	// Keep the selection visible when the list is taller than the box.
	visible := int((boxHeight-padding*2)/lineHeight) - 2
	if visible < 1 {
		visible = 1
	}
	first := 0
	if m.Selected >= visible {
		first = m.Selected - visible + 1
	}

	for i := first; i < len(m.Entries) && i < first+visible; i++ {
		if i == m.Selected {
			DrawFilledRect(screen, boxX+padding/2, y-2, w-padding*3, lineHeight, colorSelected)
		}
		DrawText(screen, truncateMiddle(m.Entries[i].Dir, maxChars), font, boxX+padding, y, colorLightBlue)
		y += lineHeight
	}

	DrawText(screen, "Enter: open   Delete: remove   Esc: close", font, boxX+padding, boxY+boxHeight-padding-lineHeight, colorGray)
}

// helpRow is one action line of the help overlay.
type helpRow struct {
	action, keys, mouse, description string
}

// helpRows lists every action with a binding, sorted by name.
func helpRows(keybindings, mousebindings map[string][]string) []helpRow {
	actionSet := make(map[string]bool)
	for action := range keybindings {
		actionSet[action] = true
	}
	for action := range mousebindings {
		actionSet[action] = true
	}

	descriptions := GetActionDescriptions()
	rows := make([]helpRow, 0, len(actionSet))
	for action := range actionSet {
		keys, mouse := keybindings[action], mousebindings[action]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		description := descriptions[action]
		if description == "" {
			description = "No description available"
		}
		rows = append(rows, helpRow{
			action:      action,
			keys:        strings.Join(keys, ", "),
			mouse:       strings.Join(mouse, ", "),
			description: description,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].action < rows[j].action })
	return rows
}

// helpColumns measures the action and input columns at a font size.
func helpColumns(rows []helpRow, font *text.GoTextFace) (actionWidth, inputWidth, descWidth float64) {
	for _, row := range rows {
		aw, _ := text.Measure(row.action, font, 0)
		iw, _ := text.Measure(row.keys+" | "+row.mouse, font, 0)
		dw, _ := text.Measure(row.description, font, 0)
		actionWidth = max(actionWidth, aw)
		inputWidth = max(inputWidth, iw)
		descWidth = max(descWidth, dw)
	}
	return actionWidth, inputWidth, descWidth
}

func (r *Renderer) statusLines() []string {
	status := r.renderState.GetConfigStatus()
	lines := []string{fmt.Sprintf("Config Status: %s", status.Status)}
	for i, warning := range status.Warnings {
		if i >= maxWarningLines {
			break
		}
		lines = append(lines, "• "+truncateMiddle(warning, 50))
	}
	return lines
}

// requiredHelpSize returns the width and height the help needs at fontSize.
func (r *Renderer) requiredHelpSize(rows []helpRow, fontSize float64) (float64, float64) {
	font := newFace(fontSize)
	padding := 40.0
	lineHeight := fontSize * 1.5

	aw, iw, dw := helpColumns(rows, font)
	width := 40 + aw + 20 + 30 + iw + 20 + dw + padding
	for _, line := range r.statusLines() {
		lw, _ := text.Measure(line, font, 0)
		width = max(width, lw+padding*2+80)
	}

	height := padding*2 + fontSize*2 + lineHeight*1.5
	height += float64(len(rows)) * lineHeight
	height += lineHeight * float64(2+len(r.statusLines()))
	return width, height
}

// calculateOptimalFontSize finds the largest font size that fits within the given dimensions
func (r *Renderer) calculateOptimalFontSize(rows []helpRow, availableWidth, availableHeight float64) (float64, bool) {
	maxFontSize := r.renderState.GetFontSize()

	fits := func(size float64) bool {
		w, h := r.requiredHelpSize(rows, size)
		return w <= availableWidth && h <= availableHeight
	}

	if !fits(minHelpFontSize) {
		return minHelpFontSize, false
	}
	if fits(maxFontSize) {
		return maxFontSize, true
	}

	low, high := minHelpFontSize, maxFontSize
	bestSize := minHelpFontSize
	for high-low > 0.5 {
		mid := (low + high) / 2.0
		if fits(mid) {
			bestSize = mid
			low = mid
		} else {
			high = mid
		}
	}
	return bestSize, true
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	padding := 40.0

	rows := helpRows(r.renderState.GetKeybindings(), r.renderState.GetMousebindings())
	fontSize, canFit := r.calculateOptimalFontSize(rows, w-padding*2, h-padding*2)
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, padding, padding, w-padding*2, h-padding*2, bgColorMedium)

	helpFont := newFace(fontSize)
	lineHeight := fontSize * 1.5

	titleY := padding + 30
	DrawText(screen, "HELP:", helpFont, padding+20, titleY, colorWhite)

	currentY := titleY + fontSize*2
	DrawText(screen, "Controls (Keyboard | Mouse):", helpFont, padding+20, currentY, colorWhite)
	currentY += lineHeight * 1.5

	aw, iw, _ := helpColumns(rows, helpFont)
	actionColumnX := padding + 40
	arrowColumnX := actionColumnX + aw + 20
	inputColumnX := arrowColumnX + 30
	descColumnX := inputColumnX + iw + 20

	for _, row := range rows {
		DrawText(screen, row.action, helpFont, actionColumnX, currentY, colorLightBlue)
		DrawText(screen, "→", helpFont, arrowColumnX, currentY, colorWhite)

		x := inputColumnX
		if row.keys != "" {
			DrawText(screen, row.keys, helpFont, x, currentY, colorYellow)
			kw, _ := text.Measure(row.keys, helpFont, 0)
			x += kw
		}
		if row.keys != "" && row.mouse != "" {
			DrawText(screen, " | ", helpFont, x, currentY, colorWhite)
			sw, _ := text.Measure(" | ", helpFont, 0)
			x += sw
		}
		if row.mouse != "" {
			DrawText(screen, row.mouse, helpFont, x, currentY, colorCyan)
		}

		DrawText(screen, row.description, helpFont, descColumnX, currentY, colorGray)
		currentY += lineHeight
	}

	currentY += lineHeight
	DrawText(screen, "System:", helpFont, padding+20, currentY, colorWhite)
	currentY += lineHeight

	for i, line := range r.statusLines() {
		c := colorLightRed
		if i == 0 {
			c = colorGreen
			if r.renderState.GetConfigStatus().Status == config.StatusWarning {
				c = colorOrange
			}
		}
		DrawText(screen, line, helpFont, padding+40, currentY, c)
		currentY += lineHeight
	}
}

// drawMarginTooSmallMessage displays Fermat's margin joke when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	DrawFilledRect(screen, 0, 0, float64(w), float64(h), bgColorLight)

	jokeFont := newFace(16.0)

	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	messageWidth, messageHeight := text.Measure(message, jokeFont, 0)
	subtitleWidth, _ := text.Measure(subtitle, jokeFont, 0)

	messageX := float64(w)/2 - messageWidth/2
	messageY := float64(h)/2 - messageHeight/2

	DrawText(screen, message, jokeFont, messageX, messageY, colorWhite)
	DrawText(screen, subtitle, jokeFont, float64(w)/2-subtitleWidth/2, messageY+messageHeight+10, colorGray)
}
