package terminal

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/mattn/go-runewidth"
)

// One terminal cell stands in for a block of cellWidth x cellHeight screen pixels.
const (
	cellWidth  = 8
	cellHeight = 16

	Cols = device.ScreenWidth / cellWidth
	Rows = (device.ScreenHeight + cellHeight - 1) / cellHeight
)

type cell struct {
	r  rune // 0 marks the right half of a wide glyph
	fg device.Color
	bg device.Color
}

// Canvas is a device.Display rendered as a grid of coloured terminal cells.
// Large text is drawn with fullwidth glyphs so one glyph covers the same pixels as the font.
type Canvas struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	cells    [Rows][Cols]cell
	last     string
}

func NewCanvas(out io.Writer) *Canvas {
	c := &Canvas{out: out, renderer: lipgloss.NewRenderer(out)}
	c.Fill("")
	return c
}

func (c *Canvas) Fill(col device.Color) {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' ', bg: col}
		}
	}
}

func (c *Canvas) DrawText(f device.Font, text string, x, y int, col device.Color) {
	mid := y + f.Height/2
	if mid < 0 {
		return
	}
	row := mid / cellHeight
	if row >= Rows {
		return
	}

	large := f.Width >= 2*cellWidth
	px := x
	for _, r := range text {
		glyph, wide := r, runewidth.RuneWidth(r) == 2
		if large && !wide {
			glyph, wide = widen(r)
			if !wide {
				// no fullwidth form; keep the pixel advance with a trailing blank
				c.put(row, floorDiv(px, cellWidth), glyph, col, false)
				c.put(row, floorDiv(px, cellWidth)+1, ' ', col, false)
				px += 2 * cellWidth
				continue
			}
		}
		c.put(row, floorDiv(px, cellWidth), glyph, col, wide)
		if wide {
			px += 2 * cellWidth
		} else {
			px += cellWidth
		}
	}
}

func (c *Canvas) FillRect(x, y, w, h int, col device.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r0, r1 := max(floorDiv(y, cellHeight), 0), min(floorDiv(y+h-1, cellHeight), Rows-1)
	c0, c1 := max(floorDiv(x, cellWidth), 0), min(floorDiv(x+w-1, cellWidth), Cols-1)
	for row := r0; row <= r1; row++ {
		for cx := c0; cx <= c1; cx++ {
			c.clearWide(row, cx)
			c.cells[row][cx] = cell{r: '█', fg: col, bg: col}
		}
	}
}

// Present writes the frame to the terminal. An unchanged frame is not rewritten.
func (c *Canvas) Present() error {
	var b strings.Builder
	b.WriteString("\033[H")
	for y := range c.cells {
		if y > 0 {
			b.WriteString("\r\n") // raw mode needs the explicit carriage return
		}
		c.renderRow(&b, c.cells[y][:])
	}

	frame := b.String()
	if frame == c.last {
		return nil
	}
	if _, err := io.WriteString(c.out, frame); err != nil {
		return err
	}
	c.last = frame
	return nil
}

// Text returns the visible glyphs row by row, without colours.
func (c *Canvas) Text() []string {
	rows := make([]string, Rows)
	for y := range c.cells {
		var b strings.Builder
		for _, cl := range c.cells[y] {
			if cl.r != 0 {
				b.WriteRune(cl.r)
			}
		}
		rows[y] = b.String()
	}
	return rows
}

func (c *Canvas) renderRow(b *strings.Builder, row []cell) {
	var run strings.Builder
	var fg, bg device.Color
	flush := func() {
		if run.Len() == 0 {
			return
		}
		b.WriteString(c.style(fg, bg).Render(run.String()))
		run.Reset()
	}

	for _, cl := range row {
		if cl.r == 0 {
			continue
		}
		if cl.fg != fg || cl.bg != bg {
			flush()
			fg, bg = cl.fg, cl.bg
		}
		run.WriteRune(cl.r)
	}
	flush()
}

func (c *Canvas) style(fg, bg device.Color) lipgloss.Style {
	s := c.renderer.NewStyle()
	if fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	return s
}

// put writes one glyph at (row, col), clipping at the edges. A wide glyph takes two cells;
// if only one of them is visible it is replaced by a blank.
func (c *Canvas) put(row, col int, r rune, fg device.Color, wide bool) {
	if !wide {
		if col < 0 || col >= Cols {
			return
		}
		c.clearWide(row, col)
		c.cells[row][col] = cell{r: r, fg: fg, bg: c.cells[row][col].bg}
		return
	}

	if col >= 0 && col+1 < Cols {
		c.clearWide(row, col)
		c.clearWide(row, col+1)
		c.cells[row][col] = cell{r: r, fg: fg, bg: c.cells[row][col].bg}
		c.cells[row][col+1] = cell{r: 0, fg: fg, bg: c.cells[row][col+1].bg}
		return
	}
	for _, cx := range []int{col, col + 1} {
		if cx >= 0 && cx < Cols {
			c.put(row, cx, ' ', fg, false)
		}
	}
}

// clearWide blanks the other half of a wide glyph that (row, col) is part of.
func (c *Canvas) clearWide(row, col int) {
	cur := c.cells[row][col]
	if cur.r == 0 && col > 0 {
		c.cells[row][col-1].r = ' '
	}
	if cur.r != 0 && col+1 < Cols && c.cells[row][col+1].r == 0 {
		c.cells[row][col+1].r = ' '
	}
}

// widen maps printable ASCII to its fullwidth form.
func widen(r rune) (rune, bool) {
	switch {
	case r == ' ':
		return '　', true
	case r >= '!' && r <= '~':
		return r + 0xFEE0, true
	}
	return r, false
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
