package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/loop/server"
	"github.com/tomz197/starfall/internal/object"
)

var (
	styleText        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	stylePlayer      = tcell.StyleDefault.Foreground(tcell.ColorMediumPurple)
	styleShield      = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleBullet      = tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	styleEnemyBullet = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)
	styleEnemy       = tcell.StyleDefault.Foreground(tcell.ColorHotPink)
	styleTriple      = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleBoss        = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

const (
	glyphPlayer      = '▲'
	glyphBullet      = '|'
	glyphEnemyBullet = '¦'
	glyphEnemy       = '█'
	glyphPowerUp     = '◆'
	glyphBoss        = '▓'
)

// grid maps the logical field onto a screen of w by h cells.
type grid struct {
	sx, sy float64
	w, h   int
}

func newGrid(snap *server.Snapshot, w, h int) grid {
	lw, lh := float64(snap.Width), float64(snap.Height)
	if lw <= 0 || lh <= 0 {
		lw, lh = config.CanvasWidth, config.CanvasHeight
	}
	return grid{sx: float64(w) / lw, sy: float64(h) / lh, w: w, h: h}
}

func (g grid) cell(x, y float64) (int, int) {
	return int(x * g.sx), int(y * g.sy)
}

func (a *App) put(g grid, col, row int, r rune, style tcell.Style) {
	if col >= 0 && col < g.w && row >= 0 && row < g.h {
		a.screen.SetContent(col, row, r, nil, style)
	}
}

// fill covers every cell the logical rectangle touches. Always at least one cell.
func (a *App) fill(g grid, x, y, w, h float64, r rune, style tcell.Style) {
	c0, r0 := g.cell(x, y)
	c1, r1 := g.cell(x+w, y+h)
	for row := r0; row <= max(r1-1, r0); row++ {
		for col := c0; col <= max(c1-1, c0); col++ {
			a.put(g, col, row, r, style)
		}
	}
}

// drawSnapshot draws entities then the HUD.
func (a *App) drawSnapshot(snap *server.Snapshot, w, h int) {
	g := newGrid(snap, w, h)

	for _, e := range snap.Enemies {
		a.fill(g, e.X, e.Y, e.W, e.H, glyphEnemy, styleEnemy)
	}
	if b := snap.Boss; b != nil {
		a.fill(g, b.X, b.Y, b.W, b.H, glyphBoss, styleBoss)
		col, row := g.cell(b.X, b.Y)
		a.drawText(col, row-1, fmt.Sprintf("BOSS HP: %d", b.HP), styleBoss)
	}
	for _, pu := range snap.PowerUps {
		col, row := g.cell(pu.X, pu.Y)
		style := styleShield
		if pu.Kind == object.PowerTripleShot {
			style = styleTriple
		}
		a.put(g, col, row, glyphPowerUp, style)
	}
	for _, b := range snap.Bullets {
		col, row := g.cell(b.X, b.Y)
		a.put(g, col, row, glyphBullet, styleBullet)
	}
	for _, b := range snap.EnemyBullets {
		col, row := g.cell(b.X, b.Y)
		a.put(g, col, row, glyphEnemyBullet, styleEnemyBullet)
	}

	col, row := g.cell(snap.Player.X, snap.Player.Y)
	a.put(g, col, row, glyphPlayer, stylePlayer)
	if snap.Shield {
		a.put(g, col-1, row, '(', styleShield)
		a.put(g, col+1, row, ')', styleShield)
	}

	a.drawText(1, 0, fmt.Sprintf("Score: %d", snap.Score), styleText)
	a.drawText(1, 1, fmt.Sprintf("Lives: %d", snap.Lives), styleText)
	buffs := ""
	if snap.TripleShot {
		buffs += "TRIPLE "
	}
	if snap.Shield {
		buffs += "SHIELD "
	}
	if buffs != "" {
		buffs += fmt.Sprint(snap.PowerTimer)
		a.drawText(w-len(buffs)-1, 0, buffs, styleShield)
	}
	if a.mute.Muted() {
		a.drawText(w-6, h-1, "MUTED", styleText)
	}
}
