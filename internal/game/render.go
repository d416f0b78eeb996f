package game

import (
	"fmt"

	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/grid"
)

const (
	cellWidth    = 4 // Width of each cell (including borders)
	cellHeight   = 2 // Height of each cell (including borders)
	hudHeight    = 3
	sidebarWidth = 26
)

// colorByName maps catalogue color names to screen colors.
var colorByName = map[string]core.Color{
	"red":     core.ColorRed,
	"green":   core.ColorGreen,
	"yellow":  core.ColorYellow,
	"blue":    core.ColorBlue,
	"magenta": core.ColorMagenta,
	"cyan":    core.ColorCyan,
	"white":   core.ColorWhite,
	"orange":  core.ColorOrange,
	"gray":    core.ColorGray,
}

// typeStyle is the rendered look of one block type.
type typeStyle struct {
	glyph rune
	color core.Color
	label string
}

// styleFor resolves the catalogue entry for a block type.
func (s *Session) styleFor(t grid.BlockType) typeStyle {
	for _, bt := range s.runCfg.BlockTypes {
		if bt.ID != string(t) {
			continue
		}
		st := typeStyle{glyph: '?', color: core.ColorWhite, label: bt.Label}
		for _, r := range bt.Glyph {
			st.glyph = r
			break
		}
		if c, ok := colorByName[bt.Color]; ok {
			st.color = c
		}
		return st
	}
	return typeStyle{glyph: '?', color: core.ColorWhite, label: string(t)}
}

// Render draws the session state to the screen.
func (s *Session) Render(dst *core.Screen) {
	dst.Clear()

	// Check screen size
	if s.tooSmall {
		s.renderTooSmall(dst)
		return
	}

	boardW := s.runCfg.Board.Width*cellWidth + 1
	boardH := s.runCfg.Board.Height*cellHeight + 1
	boardX := 1
	boardY := hudHeight

	s.renderHUD(dst, boardX, boardW)
	s.renderBoard(dst, boardX, boardY)
	s.renderSidebar(dst, boardX+boardW+2, boardY)

	// Status line under the board
	if s.statusMsg != "" {
		dst.DrawText(boardX, boardY+boardH, s.statusMsg)
	}

	s.renderOverlays(dst, boardX, boardY, boardW, boardH)
}

// renderTooSmall shows a "window too small" message.
func (s *Session) renderTooSmall(dst *core.Screen) {
	msg := "Window too small"
	x := (s.screenW - len(msg)) / 2
	y := s.screenH / 2
	dst.DrawText(x, y, msg)

	hint := "Please resize terminal"
	hintX := (s.screenW - len(hint)) / 2
	dst.DrawText(hintX, y+1, hint)
}

// renderHUD draws the title, score and ledger rows.
func (s *Session) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := s.Title()
	titleX := boardX + (boardW-len(title))/2
	if titleX < 0 {
		titleX = 0
	}
	dst.DrawText(titleX, 0, title)

	snap := s.profile.State()
	scoreStr := fmt.Sprintf("Score: %d   Level: %d   XP: %d", s.score, snap.Level, snap.XP)
	dst.DrawText(boardX, 1, scoreStr)

	var ledger string
	if s.mode == ModeCareer {
		ledger = fmt.Sprintf("Money %d  Energy %d  |  Knw %d  Fit %d  Chr %d",
			snap.Resources[core.ResourceMoney],
			snap.Resources[core.ResourceEnergy],
			snap.Attributes[core.AttributeKnowledge],
			snap.Attributes[core.AttributeFitness],
			snap.Attributes[core.AttributeCharisma])
	} else {
		ledger = fmt.Sprintf("Money %d  |  Knw %d  Fit %d  Chr %d",
			snap.Resources[core.ResourceMoney],
			snap.Attributes[core.AttributeKnowledge],
			snap.Attributes[core.AttributeFitness],
			snap.Attributes[core.AttributeCharisma])
	}
	dst.DrawText(boardX, 2, ledger)
}

// renderBoard draws the grid with its blocks and the cursor.
func (s *Session) renderBoard(dst *core.Screen, boardX, boardY int) {
	w := s.runCfg.Board.Width
	h := s.runCfg.Board.Height

	// Draw grid borders
	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			// Draw corner/intersection
			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == w:
				corner = '┐'
			case y == h && x == 0:
				corner = '└'
			case y == h && x == w:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == h:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == w:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColored(px, py, corner, core.ColorGray)

			// Draw horizontal line to the right
			if x < w {
				for i := 1; i < cellWidth; i++ {
					dst.SetColored(px+i, py, '─', core.ColorGray)
				}
			}

			// Draw vertical line down
			if y < h {
				for i := 1; i < cellHeight; i++ {
					dst.SetColored(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}

	// Draw blocks
	for _, b := range s.board.Blocks() {
		cellX := boardX + b.Pos.X*cellWidth + 1
		cellY := boardY + b.Pos.Y*cellHeight + 1

		st := s.styleFor(b.Type)
		dst.SetColored(cellX, cellY, st.glyph, st.color)
		dst.SetColored(cellX+1, cellY, rune('0'+b.Tier), st.color)
	}

	// Cursor brackets around the inner cell
	cx := boardX + s.cursor.X*cellWidth
	cy := boardY + s.cursor.Y*cellHeight + 1
	dst.SetColored(cx, cy, '[', core.ColorBrightWhite)
	dst.SetColored(cx+cellWidth, cy, ']', core.ColorBrightWhite)
}

// renderSidebar draws the queue, the hand and the type legend.
func (s *Session) renderSidebar(dst *core.Screen, x, y int) {
	dst.DrawText(x, y, "Next:")
	for i, t := range s.queue.Items() {
		st := s.styleFor(t)
		px := x + 6 + i*3
		dst.SetColored(px, y, st.glyph, st.color)
		dst.Set(px+1, y, '1')
	}

	row := y + 2
	if s.carry != nil {
		st := s.styleFor(s.carry.Type)
		dst.DrawText(x, row, "Hand: ")
		dst.SetColored(x+6, row, st.glyph, st.color)
		dst.Set(x+7, row, rune('0'+s.carry.Tier))
	} else {
		dst.DrawTextColored(x, row, "Hand: empty", core.ColorGray)
	}
	row += 2

	if s.mode == ModeCareer {
		dst.DrawText(x, row, fmt.Sprintf("Place cost: %d energy", s.PlacementCost()))
		row += 2
	}

	dst.DrawTextColored(x, row, "Types", core.ColorGray)
	row++
	for _, bt := range s.runCfg.BlockTypes {
		st := s.styleFor(grid.BlockType(bt.ID))
		dst.SetColored(x, row, st.glyph, st.color)
		dst.DrawText(x+2, row, bt.Label)
		row++
	}
	row++

	dst.DrawTextColored(x, row, "Arrows move  Space place", core.ColorGray)
	dst.DrawTextColored(x, row+1, "G grab  X swap  P pause", core.ColorGray)
}

// renderOverlays draws game state overlays.
func (s *Session) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	if s.paused {
		s.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if s.gameOver {
		scoreStr := fmt.Sprintf("Score: %d  Best tier: %d", s.score, s.bestTier)
		s.drawOverlay(dst, centerX, centerY, "GAME OVER", scoreStr, "Press R to restart")
	}
}

// drawOverlay draws a centered text overlay.
func (s *Session) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	// Clear area behind overlay
	for y := boxY; y < boxY+boxH; y++ {
		for x := boxX; x < boxX+boxW; x++ {
			dst.Set(x, y, ' ')
		}
	}

	dst.DrawBox(core.Rect{X: boxX, Y: boxY, W: boxW, H: boxH})

	for i, line := range lines {
		x := centerX - len(line)/2
		dst.DrawText(x, boxY+1+i, line)
	}
}

// Controls returns the control hints for the session.
func (s *Session) Controls() string {
	return "Arrows/WASD: Move | Space: Place | G: Grab | X: Swap | P: Pause | R: Restart | Q: Quit"
}
