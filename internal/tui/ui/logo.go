package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

var logoArt = [...]string{
	"╔═╗┬─┐┬┌─┐┌─┐",
	"╠╣ ├┬┘││ ┬│ │",
	"╚  ┴└─┴└─┘└─┘",
}

// Logo shows the wordmark and which portal is open.
type Logo struct {
	*tview.TextView
	theme  *Theme
	portal string
}

// NewLogo creates the logo, showing no portal until a session starts.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBorderPadding(1, 0, 1, 0)

	l := &Logo{TextView: tv, theme: theme}
	l.Render()
	return l
}

// SetPortal sets the caption under the wordmark, e.g. "admin".
func (l *Logo) SetPortal(portal string) {
	l.portal = portal
	l.Render()
}

// Render redraws the logo with the current theme.
func (l *Logo) Render() {
	l.SetBackgroundColor(l.theme.BgColor)
	l.Clear()
	for _, line := range logoArt {
		_, _ = fmt.Fprintf(l, "[%s::b]%s[-:-:-]\n", colorName(l.theme.TitleColor), line)
	}
	caption := "contas a receber"
	if l.portal != "" {
		caption = "portal " + l.portal
	}
	_, _ = fmt.Fprintf(l, "%s%s[-]", Tag(l.theme.MutedColor), tview.Escape(caption))
}
