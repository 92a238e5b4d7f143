package main

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/kibitz/internal/engine"
	"github.com/dshills/kibitz/internal/host"
)

// scratchBuffer is what the pad needs beyond the engine's host view:
// reading the text back and moving the cursor around.
type scratchBuffer interface {
	host.Buffer
	Text() string
	Len() int
	SetCursor(offset int)
	DeleteBackward(n int)
}

const popupWidth = 44

// ui renders the scratch pad: the buffer, a candidate popup under the
// cursor, and a status line. Everything runs on the event loop
// goroutine; the session posts interrupt events to request redraws.
type ui struct {
	screen tcell.Screen
	buf    scratchBuffer
	sess   *engine.Session
	log    *log.Logger

	selected int

	mu         sync.Mutex
	maxVisible int
}

func newUI(screen tcell.Screen, buf scratchBuffer, sess *engine.Session, lg *log.Logger, maxVisible int) *ui {
	return &ui{
		screen:     screen,
		buf:        buf,
		sess:       sess,
		log:        lg,
		maxVisible: maxVisible,
	}
}

// setMaxVisible is called from the config reload callback.
func (u *ui) setMaxVisible(n int) {
	if n <= 0 {
		return
	}
	u.mu.Lock()
	u.maxVisible = n
	u.mu.Unlock()
}

func (u *ui) visibleRows() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.maxVisible
}

// loop runs until the user quits.
func (u *ui) loop() {
	for {
		u.draw()
		switch ev := u.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventInterrupt:
			// Redraw on the next iteration.
		case *tcell.EventKey:
			if !u.handleKey(ev) {
				return
			}
		}
	}
}

func (u *ui) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyCtrlL:
		u.screen.Sync()
	case tcell.KeyTab:
		u.acceptSelected()
	case tcell.KeyUp:
		u.moveSelection(-1)
	case tcell.KeyDown:
		u.moveSelection(1)
	case tcell.KeyLeft:
		u.buf.SetCursor(u.buf.CursorOffset() - 1)
		u.afterCommand("backward-char")
	case tcell.KeyRight:
		u.buf.SetCursor(u.buf.CursorOffset() + 1)
		u.afterCommand("forward-char")
	case tcell.KeyEnter:
		u.insert("\n", "newline")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		u.buf.DeleteBackward(1)
		u.afterCommand("delete-backward")
	case tcell.KeyRune:
		u.insert(string(ev.Rune()), "self-insert")
	}
	return true
}

func (u *ui) insert(text, command string) {
	if err := u.buf.InsertText(text); err != nil {
		u.log.Error("insert failed", "err", err)
		return
	}
	u.afterCommand(command)
}

// afterCommand runs the trigger decision for the command; when the
// policy short-circuits, an explicit update keeps the status line
// honest about the context.
func (u *ui) afterCommand(name string) {
	u.selected = 0
	if !u.sess.HandleCommand(name) {
		u.sess.Update()
	}
}

func (u *ui) moveSelection(delta int) {
	src := u.sess.CompletionSource()
	if src == nil || src.Len() == 0 {
		return
	}
	rows := src.Len()
	if mv := u.visibleRows(); rows > mv {
		rows = mv
	}
	u.selected += delta
	if u.selected < 0 {
		u.selected = 0
	}
	if u.selected >= rows {
		u.selected = rows - 1
	}
}

// acceptSelected replaces the typed prefix with the chosen candidate.
func (u *ui) acceptSelected() {
	src := u.sess.CompletionSource()
	if src == nil || src.Len() == 0 {
		return
	}
	sel := u.selected
	if sel >= src.Len() {
		sel = src.Len() - 1
	}
	entry := src.Entries()[sel]

	u.buf.SetCursor(src.End)
	u.buf.DeleteBackward(src.End - src.Start)
	if err := u.sess.Accept(entry); err != nil {
		u.log.Error("accept failed", "err", err)
	}
	u.selected = 0
	u.sess.Update()
}

func (u *ui) draw() {
	u.screen.Clear()
	w, h := u.screen.Size()

	text := u.buf.Text()
	cursor := u.buf.CursorOffset()
	row, col := 0, 0
	curRow, curCol := 0, 0
	for i, r := range text {
		if i == cursor {
			curRow, curCol = row, col
		}
		if r == '\n' {
			row++
			col = 0
			continue
		}
		if row < h-1 && col < w {
			u.screen.SetContent(col, row, r, nil, tcell.StyleDefault)
		}
		col++
	}
	if cursor >= len(text) {
		curRow, curCol = row, col
	}

	u.drawPopup(curRow, curCol, w, h)
	u.drawStatus(w, h)
	u.screen.ShowCursor(curCol, curRow)
	u.screen.Show()
}

func (u *ui) drawPopup(curRow, curCol, w, h int) {
	src := u.sess.CompletionSource()
	if src == nil || src.Len() == 0 {
		return
	}
	rows := src.Len()
	if mv := u.visibleRows(); rows > mv {
		rows = mv
	}
	x := curCol
	if x+popupWidth > w {
		x = w - popupWidth
	}
	if x < 0 {
		x = 0
	}
	entries := src.Entries()
	for i := 0; i < rows; i++ {
		y := curRow + 1 + i
		if y >= h-1 {
			break
		}
		style := tcell.StyleDefault.Reverse(i == u.selected)
		line := " " + entries[i].TypedText
		if ann := src.Annotation(entries[i].TypedText); ann != "" {
			line += " " + ann
		}
		for len(line) < popupWidth {
			line += " "
		}
		drawString(u.screen, x, y, truncate(line, popupWidth), style)
	}
}

func (u *ui) drawStatus(w, h int) {
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		u.screen.SetContent(x, h-1, ' ', nil, style)
	}

	status := fmt.Sprintf(" tick %d  pending %d", u.sess.Tick(), u.sess.Pending())
	if src := u.sess.CompletionSource(); src != nil && src.Len() > 0 {
		sel := u.selected
		if sel >= src.Len() {
			sel = src.Len() - 1
		}
		texts := src.Texts()
		status += fmt.Sprintf("  %d candidates", src.Len())
		if doc := src.Doc(texts[sel]); doc != "" {
			status += "  " + doc
		}
	}
	hint := "Tab accept  Up/Down select  Esc quit "
	drawString(u.screen, 0, h-1, truncate(status, w-len(hint)), style)
	if w > len(hint) {
		drawString(u.screen, w-len(hint), h-1, hint, style)
	}
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
