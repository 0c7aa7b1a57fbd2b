package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoginView asks for credentials.
type LoginView struct {
	*tview.Flex
	form     *tview.Form
	message  *tview.TextView
	theme    *ui.Theme
	api      string
	username string
	password string
	busy     bool
	onSubmit func(username, password string)
}

// NewLoginView creates the login page for the backend at apiURL.
func NewLoginView(theme *ui.Theme, apiURL string) *LoginView {
	lv := &LoginView{
		form:    tview.NewForm(),
		message: tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
		theme:   theme,
		api:     apiURL,
	}
	lv.form.AddInputField("Username", "", 32, nil, func(text string) { lv.username = text })
	lv.form.AddPasswordField("Password", "", 32, '*', func(text string) { lv.password = text })
	lv.form.AddButton("Log in", lv.submit)

	box := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(lv.form, 7, 0, true).
		AddItem(lv.message, 2, 0, false)

	lv.Flex = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(box, 9, 0, true).
			AddItem(nil, 0, 1, false), 56, 0, true).
		AddItem(nil, 0, 1, false)
	lv.Render()
	return lv
}

// Name implements ui.Component.
func (lv *LoginView) Name() string { return PageLogin }

// Start implements ui.Component.
func (lv *LoginView) Start() {}

// Stop implements ui.Component.
func (lv *LoginView) Stop() {}

// Hints implements ui.Component.
func (lv *LoginView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Log in"},
		{Key: "Ctrl-C", Description: "Quit"},
	}
}

// Render applies the current theme.
func (lv *LoginView) Render() {
	lv.SetBackgroundColor(lv.theme.BgColor)
	styleBox(lv.form.Box, lv.theme, " Log in to "+tview.Escape(lv.api)+" ")
	lv.form.SetFieldBackgroundColor(lv.theme.FieldBgColor)
	lv.form.SetFieldTextColor(lv.theme.FgColor)
	lv.form.SetLabelColor(lv.theme.MenuKeyColor)
	lv.form.SetButtonBackgroundColor(lv.theme.BorderColor)
	lv.message.SetBackgroundColor(lv.theme.BgColor)
}

// SetOnSubmit sets the callback for the Log in button.
func (lv *LoginView) SetOnSubmit(fn func(username, password string)) {
	lv.onSubmit = fn
}

// SetBusy shows that a login request is in flight and ignores resubmits.
func (lv *LoginView) SetBusy(busy bool) {
	lv.busy = busy
	lv.message.Clear()
	if busy {
		_, _ = fmt.Fprintf(lv.message, "%slogging in...[-]", ui.Tag(lv.theme.MutedColor))
	}
}

// SetError shows msg under the form.
func (lv *LoginView) SetError(msg string) {
	lv.busy = false
	lv.message.Clear()
	_, _ = fmt.Fprintf(lv.message, "%s%s[-]", ui.Tag(lv.theme.FlashErrColor), tview.Escape(msg))
}

func (lv *LoginView) submit() {
	if lv.busy || lv.onSubmit == nil {
		return
	}
	if strings.TrimSpace(lv.username) == "" || lv.password == "" {
		lv.SetError("username and password are required")
		return
	}
	lv.onSubmit(lv.username, lv.password)
}
