package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ProfileData is what the header shows about the running profile.
type ProfileData struct {
	Profile       string
	User          string
	Role          string
	API           string
	Notifications int
	Pending       int
	Range         string
}

// ProfileInfo displays profile and session metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
	data  ProfileData
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders data.
func (pi *ProfileInfo) Update(data ProfileData) {
	pi.data = data
	pi.Render()
}

// Render redraws with the current theme.
func (pi *ProfileInfo) Render() {
	pi.SetBackgroundColor(pi.theme.BgColor)
	pi.Clear()

	d := pi.data
	user := d.User
	if user == "" {
		user = "-"
	} else if d.Role != "" {
		user += " (" + d.Role + ")"
	}
	badge := fmt.Sprintf("%d", d.Notifications)
	if d.Notifications > 0 {
		badge = fmt.Sprintf("%s%d[-]", Tag(pi.theme.FlashErrColor), d.Notifications)
	}

	label := Tag(pi.theme.FgColor)
	value := Tag(pi.theme.CounterColor)
	_, _ = fmt.Fprintf(pi,
		"%s[::b]Profile:[-:-:-] %s%s[-]\n"+
			"%s[::b]User:[-:-:-]    %s%s[-]\n"+
			"%s[::b]API:[-:-:-]     %s%s[-]\n"+
			"%s[::b]Period:[-:-:-]  %s%s[-]\n"+
			"%s[::b]Alerts:[-:-:-]  %s[-]  %s[::b]Queued:[-:-:-] %s%d[-]",
		label, value, tview.Escape(d.Profile),
		label, value, tview.Escape(user),
		label, value, tview.Escape(d.API),
		label, value, d.Range,
		label, badge, label, value, d.Pending,
	)
}
