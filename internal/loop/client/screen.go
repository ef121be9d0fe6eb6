package client

import (
	"fmt"
	"time"

	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/loop/server"
	"github.com/tomz197/starfall/internal/object"
)

// drawFrame draws the current frame and rings the bell for queued sounds.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear
	// so text from the previous screen doesn't persist.
	stateChanged := c.state.Screen != c.state.prevScreen
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	var snap *server.Snapshot
	if c.state.Screen == ScreenPlaying && c.srv != nil {
		snap = c.srv.Snapshot()
	}
	if snap != nil && !c.state.isInactive {
		DrawSnapshot(c.canvas, snap)
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	c.drawUI(snap)
	c.ringBells()

	return c.chunkWriter.Flush()
}

// DrawSnapshot paints every entity of a snapshot onto the canvas.
func DrawSnapshot(cv *draw.Canvas, snap *server.Snapshot) {
	p := snap.Player
	cv.FillCircle(p.X, p.Y, config.PlayerRadius, draw.ColorMagenta)
	if snap.Shield {
		cv.StrokeCircle(p.X, p.Y, config.ShieldRadius, draw.ColorBrightCyan)
	}

	for _, b := range snap.Bullets {
		cv.FillRect(b.X-config.BulletWidth/2, b.Y, config.BulletWidth, config.BulletHeight, draw.ColorYellow)
	}
	for _, b := range snap.EnemyBullets {
		cv.FillRect(b.X-config.BulletWidth/2, b.Y, config.BulletWidth, config.BulletHeight, draw.ColorRed)
	}
	for _, e := range snap.Enemies {
		cv.FillRect(e.X, e.Y, e.W, e.H, draw.ColorMagenta)
	}
	for _, pu := range snap.PowerUps {
		cv.FillCircle(pu.X, pu.Y, config.PowerUpRadius, powerUpColor(pu.Kind))
	}
	if b := snap.Boss; b != nil {
		cv.FillRect(b.X, b.Y, b.W, b.H, draw.ColorRed)
		drawBossHealth(cv, b)
	}
}

// drawBossHealth draws a bar under the boss that shrinks with its hit points.
func drawBossHealth(cv *draw.Canvas, b *server.BossView) {
	if b.HP <= 0 {
		return
	}
	frac := min(float64(b.HP)/config.BossHP, 1)
	y := b.Y + b.H + bossBarGap
	cv.DrawLine(draw.Point{X: b.X, Y: y}, draw.Point{X: b.X + b.W*frac, Y: y}, draw.ColorGreen)
}

const bossBarGap = 6

func powerUpColor(k object.PowerKind) draw.Color {
	if k == object.PowerTripleShot {
		return draw.ColorYellow
	}
	return draw.ColorCyan
}

// ringBells turns pickup and game-over sounds into terminal bells.
func (c *Client) ringBells() {
	for _, k := range c.bells.Drain() {
		if bellFor(k) {
			c.chunkWriter.WriteString(draw.Bell)
		}
	}
}

// bellFor reports whether a terminal without a speaker should beep for k.
func bellFor(k audio.Kind) bool {
	return k == audio.Pickup || k == audio.GameOver
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap *server.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.Screen {
	case ScreenTitle:
		c.drawTitleScreen(centerX, centerY)
	case ScreenPlaying:
		if snap != nil {
			c.drawPlayingHUD(termWidth, termHeight, snap)
		}
	case ScreenGameOver:
		c.drawGameOverScreen(centerX, centerY)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.state.lastInput).Seconds()),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

var titleArt = []string{
	`  ___ _____ _   ___ ___ _   _    _     `,
	` / __|_   _/_\ | _ \ __/_\ | |  | |    `,
	` \__ \ | |/ _ \|   / _/ _ \| |__| |__  `,
	` |___/ |_/_/ \_\_|_\_/_/ \_\____|____| `,
	`                                       `,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	`                                              `,
}

// drawArt writes centered ASCII art starting at row top and returns the row after it.
func (c *Client) drawArt(art []string, centerX, top int) int {
	width := 0
	for _, line := range art {
		width = max(width, len(line))
	}
	for i, line := range art {
		c.chunkWriter.WriteAt(centerX-width/2, top+i, line)
	}
	return top + len(art)
}

// blinkOn alternates every 600ms for prompts.
func blinkOn() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

// drawTitleScreen draws the title screen with controls.
func (c *Client) drawTitleScreen(centerX, centerY int) {
	cw := c.chunkWriter
	y := c.drawArt(titleArt, centerX, centerY-8)

	subtitle := "~ Shoot the falling squares, then take down the boss ~"
	cw.WriteAt(centerX-len(subtitle)/2, y+1, subtitle)

	controlsY := y + 3
	header := "Controls"
	cw.WriteAt(centerX-len(header)/2, controlsY, header)
	controls := []string{
		"A D / < >  . .  Move",
		"M  . . . . . .  Mute",
		"Q  . . . . . .  Quit",
	}
	for i, line := range controls {
		cw.WriteAt(centerX-len(line)/2, controlsY+1+i, line)
	}

	promptY := controlsY + len(controls) + 2
	prompt := ">>  Press SPACE to Start  <<"
	if blinkOn() {
		cw.WriteAt(centerX-len(prompt)/2, promptY, prompt)
	} else {
		cw.WriteAt(centerX-len(prompt)/2, promptY, fmt.Sprintf("%*s", len(prompt), ""))
	}
}

// drawPlayingHUD draws score, lives, buffs and the boss health.
// Fields are fixed-width so shrinking values don't leave residual characters.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *server.Snapshot) {
	cw := c.chunkWriter
	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", snap.Score))
	cw.WriteAt(2, 2, fmt.Sprintf("Lives: %-3d", snap.Lives))

	buffs := ""
	if snap.TripleShot {
		buffs += "TRIPLE "
	}
	if snap.Shield {
		buffs += "SHIELD "
	}
	if buffs != "" {
		buffs += fmt.Sprintf("%3d", snap.PowerTimer)
	}
	buffText := fmt.Sprintf("%18s", buffs)
	cw.WriteColorAt(termWidth-len(buffText)-1, 1, draw.ColorBrightCyan, buffText)

	muteText := "     "
	if c.mute.Muted() {
		muteText = "MUTED"
	}
	cw.WriteAt(termWidth-len(muteText)-1, termHeight, muteText)

	if b := snap.Boss; b != nil {
		label := fmt.Sprintf("BOSS HP: %d", b.HP)
		col, row := c.canvas.LogicalToTerminal(b.X, b.Y)
		row--
		if row >= 1 && col >= 1 && col+len(label) <= termWidth {
			cw.WriteColorAt(col, row, draw.ColorRed, label)
			c.canvas.MarkTextDirty(col, row, len(label))
		}
	}
}

// drawGameOverScreen shows the final score and the restart prompt.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	cw := c.chunkWriter
	y := c.drawArt(gameOverArt, centerX, centerY-6)

	score := fmt.Sprintf("Final score: %d", c.state.FinalScore)
	cw.WriteAt(centerX-len(score)/2, y+1, score)

	prompt := ">>  Press SPACE to Play Again  <<"
	if blinkOn() {
		cw.WriteAt(centerX-len(prompt)/2, y+3, prompt)
	} else {
		cw.WriteAt(centerX-len(prompt)/2, y+3, fmt.Sprintf("%*s", len(prompt), ""))
	}

	hint := "Q to quit"
	cw.WriteAt(centerX-len(hint)/2, y+5, hint)
}
