package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Theme holds color constants for the TUI.
type Theme struct {
	Name              string
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	DangerKeyColor    tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	MutedColor        tcell.Color
	PaidColor         tcell.Color
	OverdueColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
	FieldBgColor      tcell.Color
}

// Dark returns a k9s-inspired dark theme.
func Dark() *Theme {
	return &Theme{
		Name:              "dark",
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		DangerKeyColor:    tcell.ColorOrangeRed,
		TitleColor:        tcell.ColorFuchsia,
		CounterColor:      tcell.ColorPapayaWhip,
		MutedColor:        tcell.ColorGray,
		PaidColor:         tcell.ColorLimeGreen,
		OverdueColor:      tcell.ColorOrangeRed,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,
		FieldBgColor:      tcell.ColorDarkSlateGray,
	}
}

// Light returns a theme for terminals with a light background.
func Light() *Theme {
	return &Theme{
		Name:              "light",
		BgColor:           tcell.ColorWhite,
		FgColor:           tcell.ColorDarkSlateGray,
		BorderColor:       tcell.ColorSteelBlue,
		BorderFocusColor:  tcell.ColorNavy,
		TableHeaderFg:     tcell.ColorBlack,
		TableHeaderBg:     tcell.ColorWhite,
		TableCursorFg:     tcell.ColorWhite,
		TableCursorBg:     tcell.ColorSteelBlue,
		CrumbActiveFg:     tcell.ColorWhite,
		CrumbActiveBg:     tcell.ColorDarkOrange,
		CrumbInactiveFg:   tcell.ColorWhite,
		CrumbInactiveBg:   tcell.ColorSteelBlue,
		MenuKeyColor:      tcell.ColorNavy,
		DangerKeyColor:    tcell.ColorFireBrick,
		TitleColor:        tcell.ColorPurple,
		CounterColor:      tcell.ColorSaddleBrown,
		MutedColor:        tcell.ColorDimGray,
		PaidColor:         tcell.ColorGreen,
		OverdueColor:      tcell.ColorFireBrick,
		FlashInfoColor:    tcell.ColorNavy,
		FlashWarnColor:    tcell.ColorDarkOrange,
		FlashErrColor:     tcell.ColorFireBrick,
		PromptBorderColor: tcell.ColorSteelBlue,
		FieldBgColor:      tcell.ColorLightGray,
	}
}

// ThemeFor returns the theme called name, falling back to Dark.
func ThemeFor(name string) *Theme {
	if name == "light" {
		return Light()
	}
	return Dark()
}

// Other returns the name of the theme a toggle switches to.
func (t *Theme) Other() string {
	if t.Name == "light" {
		return "dark"
	}
	return "light"
}

// Apply copies the palette into tview's global styles, which forms and
// modals read when they are created.
func (t *Theme) Apply() {
	tview.Styles.PrimitiveBackgroundColor = t.BgColor
	tview.Styles.ContrastBackgroundColor = t.FieldBgColor
	tview.Styles.MoreContrastBackgroundColor = t.BorderColor
	tview.Styles.BorderColor = t.BorderColor
	tview.Styles.TitleColor = t.TitleColor
	tview.Styles.GraphicsColor = t.BorderColor
	tview.Styles.PrimaryTextColor = t.FgColor
	tview.Styles.SecondaryTextColor = t.MenuKeyColor
	tview.Styles.TertiaryTextColor = t.CounterColor
	tview.Styles.InverseTextColor = t.TableCursorFg
	tview.Styles.ContrastSecondaryTextColor = t.CounterColor
}
