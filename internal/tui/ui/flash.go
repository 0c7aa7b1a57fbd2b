package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel orders flash messages by severity.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

var flashTTL = [...]time.Duration{
	FlashInfo: 4 * time.Second,
	FlashWarn: 8 * time.Second,
	FlashErr:  10 * time.Second,
}

// FlashMessage is one transient status line. Count is how many times the
// same text was flashed in a row while it was still showing.
type FlashMessage struct {
	Text    string
	Hint    string
	Level   FlashLevel
	Count   int
	Expires time.Time
}

// FlashModel holds the latest transient message. It is safe for concurrent use.
type FlashModel struct {
	mu      sync.RWMutex
	current FlashMessage
	now     func() time.Time
	watchCh chan FlashMessage
}

// NewFlashModel creates an empty flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{
		now:     time.Now,
		watchCh: make(chan FlashMessage, 8),
	}
}

// Info flashes a confirmation.
func (f *FlashModel) Info(msg string) { f.set(msg, "", FlashInfo) }

// Warn flashes something the user should notice.
func (f *FlashModel) Warn(msg string) { f.set(msg, "", FlashWarn) }

// Err flashes a failure.
func (f *FlashModel) Err(msg string) { f.set(msg, "", FlashErr) }

// Retry flashes a failure the user can retry with the refresh key.
func (f *FlashModel) Retry(msg string) { f.set(msg, "r to retry", FlashErr) }

// Clear drops the current message.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = FlashMessage{}
	f.mu.Unlock()
}

func (f *FlashModel) set(msg, hint string, level FlashLevel) {
	now := f.now()
	f.mu.Lock()
	fm := FlashMessage{Text: msg, Hint: hint, Level: level, Count: 1, Expires: now.Add(flashTTL[level])}
	if c := f.current; c.Text == msg && c.Level == level && !now.After(c.Expires) {
		fm.Count = c.Count + 1
	}
	f.current = fm
	f.mu.Unlock()
	select {
	case f.watchCh <- fm:
	default:
	}
}

// Current returns the active message, or nil once it has expired.
func (f *FlashModel) Current() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.Text == "" || f.now().After(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// Watch returns a channel that receives every new message. Messages are
// dropped when nobody drains it.
func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar is the UI component that displays flash notifications.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)

	return &FlashBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders a flash message on the bar.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.SetBackgroundColor(fb.theme.BgColor)
	fb.Clear()
	if msg == nil {
		return
	}

	color := fb.theme.FlashInfoColor
	switch msg.Level {
	case FlashWarn:
		color = fb.theme.FlashWarnColor
	case FlashErr:
		color = fb.theme.FlashErrColor
	}
	_, _ = fmt.Fprintf(fb, " %s%s", Tag(color), tview.Escape(msg.Text))
	if msg.Count > 1 {
		_, _ = fmt.Fprintf(fb, " (x%d)", msg.Count)
	}
	_, _ = fmt.Fprint(fb, "[-]")
	if msg.Hint != "" {
		_, _ = fmt.Fprintf(fb, "  %s<%s>[-]", Tag(fb.theme.MutedColor), tview.Escape(msg.Hint))
	}
}
