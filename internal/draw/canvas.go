package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// cell is what one terminal character shows: the colors of its two half-block pixels.
type cell struct {
	top, bottom Color
}

// staleCell never matches a drawn cell, forcing a rewrite on the next Render.
var staleCell = cell{top: colorCount, bottom: colorCount}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Drawing takes logical coordinates and scales them to terminal pixels.
// Render only emits cells that changed since the previous Render.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int     // termHeight * 2
	pixels         []Color // [y * termWidth + x]
	prev           []cell  // What the terminal currently shows, per cell

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // subPixelHeight / logicalHeight

	// 0-based terminal offsets used to center the render area.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// A size change forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.prev = make([]cell, termHeight*termWidth)
		c.ForceRedraw()
	}
	c.scaleX = float64(c.termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// Clear resets all pixels. The terminal keeps its content until the next Render.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render rewrite every cell, e.g. after the terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.prev {
		c.prev[i] = staleCell
	}
}

// MarkTextDirty marks n cells starting at the 1-based canvas position (col, row)
// as overwritten by text, so the next Render restores them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < col-1+n && x < c.termWidth; x++ {
		c.prev[r*c.termWidth+x] = staleCell
	}
}

func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Floor(x * c.scaleX)), int(math.Floor(y * c.scaleY))
}

// SetFloat sets the pixel under logical position (x, y).
func (c *Canvas) SetFloat(x, y float64, col Color) {
	px, py := c.toPixel(x, y)
	c.setPixel(px, py, col)
}

// ColorAt returns the color of the pixel under logical position (x, y).
func (c *Canvas) ColorAt(x, y float64) Color {
	px, py := c.toPixel(x, y)
	if px < 0 || px >= c.termWidth || py < 0 || py >= c.subPixelHeight {
		return ColorNone
	}
	return c.pixels[py*c.termWidth+px]
}

// FillRect fills the logical rectangle with top-left (x, y). Always covers at least one pixel.
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	x0, y0 := c.toPixel(x, y)
	x1 := int(math.Ceil((x+w)*c.scaleX)) - 1
	y1 := int(math.Ceil((y+h)*c.scaleY)) - 1
	x1 = max(x1, x0)
	y1 = max(y1, y0)
	for py := max(y0, 0); py <= y1 && py < c.subPixelHeight; py++ {
		for px := max(x0, 0); px <= x1 && px < c.termWidth; px++ {
			c.pixels[py*c.termWidth+px] = col
		}
	}
}

// FillCircle fills every pixel whose center lies within radius r of (cx, cy).
// Circles smaller than a pixel still set the pixel under their center.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	x0, y0 := c.toPixel(cx-r, cy-r)
	x1, y1 := c.toPixel(cx+r, cy+r)
	r2 := r * r
	for py := y0; py <= y1; py++ {
		ly := (float64(py)+0.5)/c.scaleY - cy
		for px := x0; px <= x1; px++ {
			lx := (float64(px)+0.5)/c.scaleX - cx
			if lx*lx+ly*ly <= r2 {
				c.setPixel(px, py, col)
			}
		}
	}
	c.SetFloat(cx, cy, col)
}

// StrokeCircle draws the outline of a circle of radius r around (cx, cy).
func (c *Canvas) StrokeCircle(cx, cy, r float64, col Color) {
	steps := int(2 * math.Pi * r * max(c.scaleX, c.scaleY) * 2)
	steps = max(steps, 16)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.SetFloat(cx+r*math.Cos(a), cy+r*math.Sin(a), col)
	}
}

// DrawLine draws a line using Bresenham's algorithm in pixel space.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Render writes every cell that changed since the previous Render.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	pen := colorCount // Unknown pen, forces the first SGR

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			idx := row*c.termWidth + col
			if c.prev[idx] == cur {
				continue
			}
			c.prev[idx] = cur

			c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			ch, fg := glyph(cur)
			if fg != pen {
				c.setPen(fg)
				pen = fg
			}
			c.renderBuf.WriteRune(ch)
		}
	}

	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(ColorReset)
	io.WriteString(w, c.renderBuf.String())
}

// glyph picks the character and color for a cell. When both halves are set
// with different colors the upper one wins.
func glyph(cl cell) (rune, Color) {
	switch {
	case cl.top != ColorNone && cl.bottom != ColorNone:
		if cl.top == cl.bottom {
			return BlockFull, cl.top
		}
		return BlockUpperHalf, cl.top
	case cl.top != ColorNone:
		return BlockUpperHalf, cl.top
	case cl.bottom != ColorNone:
		return BlockLowerHalf, cl.bottom
	default:
		return ' ', ColorNone
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) setPen(col Color) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(fgCodes[col]), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box around the canvas when the terminal is larger than
// the render area on both axes.
func (c *Canvas) RenderBorder(w io.Writer) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	MoveCursor(&buf, left, top)
	buf.WriteString("┌" + line + "┐")
	MoveCursor(&buf, left, bottom)
	buf.WriteString("└" + line + "┘")
	for row := top + 1; row < bottom; row++ {
		MoveCursor(&buf, left, row)
		buf.WriteString("│")
		MoveCursor(&buf, right, row)
		buf.WriteString("│")
	}
	io.WriteString(w, buf.String())
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}
