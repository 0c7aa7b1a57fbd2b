package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/frigo/internal/status"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusLine is what a list footer shows.
type StatusLine struct {
	Total     string // empty hides the total
	State     status.State
	FetchedAt time.Time
	FromCache bool
	Shown     int
	Size      int
}

// StatusBar is the one-line footer under a list: the total of the visible
// rows on the left, the fetch state on the right.
type StatusBar struct {
	*tview.TextView
	theme *ui.Theme
	line  StatusLine
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	return &StatusBar{TextView: tv, theme: theme}
}

// Update renders line.
func (sb *StatusBar) Update(line StatusLine) {
	sb.line = line
	sb.render()
}

func (sb *StatusBar) render() {
	sb.SetBackgroundColor(sb.theme.BgColor)
	sb.Clear()
	_, _ = fmt.Fprint(sb, formatStatus(sb.line, sb.theme))
}

func formatStatus(l StatusLine, theme *ui.Theme) string {
	var out string
	if l.Total != "" {
		out = fmt.Sprintf(" %s[::b]Total:[-:-:-] %s%s[-]  ", ui.Tag(theme.FgColor), ui.Tag(theme.CounterColor), l.Total)
	}
	out += fmt.Sprintf("%s%d of %d", ui.Tag(theme.MutedColor), l.Shown, l.Size)

	switch {
	case l.State == status.Loading:
		out += " | loading"
	case l.State == status.Error:
		out += " | " + ui.Tag(theme.FlashErrColor) + "fetch failed[-]"
	case l.FromCache && !l.FetchedAt.IsZero():
		out += " | cached " + l.FetchedAt.Local().Format("02/01 15:04")
	case !l.FetchedAt.IsZero():
		out += " | updated " + l.FetchedAt.Local().Format("15:04:05")
	}
	return out + "[-]"
}
