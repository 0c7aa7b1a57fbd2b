package views

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
)

// sanitizeForTerminal removes codepoints that tcell renders with the wrong
// width: skin tone modifiers, zero width joiners and variation selectors.
// Client names pasted from phones carry them often enough to break columns.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isProblematicRune(r) {
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

func isProblematicRune(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r == 0x200D:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	case r == '\n' || r == '\r' || r == '\t':
		return true
	default:
		return false
	}
}

// clean prepares backend text for a table cell or text view.
func clean(s string) string {
	return tview.Escape(sanitizeForTerminal(strings.TrimSpace(s)))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func headerCell(theme *ui.Theme, title string, align, expand int) *tview.TableCell {
	return tview.NewTableCell(" " + title).
		SetSelectable(false).
		SetTextColor(theme.TableHeaderFg).
		SetBackgroundColor(theme.TableHeaderBg).
		SetAttributes(tcell.AttrBold).
		SetAlign(align).
		SetExpansion(expand)
}

func textCell(text string, color tcell.Color, align, expand int) *tview.TableCell {
	return tview.NewTableCell(" " + clean(text)).
		SetTextColor(color).
		SetAlign(align).
		SetExpansion(expand)
}

func styleBox(b *tview.Box, theme *ui.Theme, title string) {
	b.SetBorder(true)
	b.SetBorderColor(theme.BorderColor)
	b.SetBackgroundColor(theme.BgColor)
	b.SetTitleColor(theme.TitleColor)
	b.SetTitle(title)
}
