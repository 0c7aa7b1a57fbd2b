package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/format"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
	qrcode "github.com/skip2/go-qrcode"
)

// ClientLoader fetches the latest copy of a client.
type ClientLoader func(ctx context.Context, id api.ID) (*api.Client, error)

// ClientDetail shows one client and a QR code carrying their contact card.
type ClientDetail struct {
	*tview.Flex
	info  *tview.TextView
	qr    *tview.TextView
	theme *ui.Theme
	load  ClientLoader
	queue func(func())

	client api.Client
	cancel context.CancelFunc
}

// NewClientDetail creates the page for c. load refreshes it in the background
// when the page opens; queue runs a function on the UI goroutine.
func NewClientDetail(theme *ui.Theme, c api.Client, load ClientLoader, queue func(func())) *ClientDetail {
	cd := &ClientDetail{
		Flex:   tview.NewFlex(),
		info:   tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		qr:     tview.NewTextView().SetTextAlign(tview.AlignCenter),
		theme:  theme,
		load:   load,
		queue:  queue,
		client: c,
	}
	cd.AddItem(cd.info, 0, 1, true)
	cd.AddItem(cd.qr, 0, 1, false)
	cd.Render()
	return cd
}

// Name implements ui.Component.
func (cd *ClientDetail) Name() string { return PageClient }

// Start refetches the client.
func (cd *ClientDetail) Start() {
	if cd.load == nil || cd.queue == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	cd.cancel = cancel
	id := cd.client.ID
	go func() {
		defer cancel()
		c, err := cd.load(ctx, id)
		if err != nil || c == nil {
			return
		}
		cd.queue(func() {
			cd.client = *c
			cd.Render()
		})
	}()
}

// Stop abandons the refetch.
func (cd *ClientDetail) Stop() {
	if cd.cancel != nil {
		cd.cancel()
	}
}

// Hints implements ui.Component.
func (cd *ClientDetail) Hints() []ui.MenuHint { return nil }

// Client returns the client shown.
func (cd *ClientDetail) Client() api.Client { return cd.client }

// Render redraws the card and QR code.
func (cd *ClientDetail) Render() {
	c := cd.client
	styleBox(cd.info.Box, cd.theme, " "+clean(c.Nome)+" ")
	styleBox(cd.qr.Box, cd.theme, " Contact card ")
	cd.info.SetTextColor(cd.theme.FgColor)
	cd.qr.SetTextColor(cd.theme.FgColor)

	label := ui.Tag(cd.theme.MenuKeyColor)
	rows := []struct{ k, v string }{
		{"Reference", c.Referencia},
		{"Phone", c.Telefone},
		{"E-mail", c.Email},
		{"Address", c.Endereco},
		{"Login", c.Username()},
		{"Since", format.DateBR(c.CreatedAt)},
	}
	cd.info.Clear()
	_, _ = fmt.Fprintln(cd.info)
	for _, r := range rows {
		_, _ = fmt.Fprintf(cd.info, " %s[::b]%-10s[-:-:-] %s\n", label, r.k, clean(orDash(r.v)))
	}

	cd.qr.Clear()
	_, _ = fmt.Fprint(cd.qr, "\n"+renderQR(VCard(c)))
}

// VCard encodes c as a vCard 3.0 contact.
func VCard(c api.Client) string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + vcardEscape(c.Nome),
		"N:" + vcardEscape(c.Nome) + ";;;;",
	}
	if c.Telefone != "" {
		lines = append(lines, "TEL;TYPE=CELL:"+vcardEscape(c.Telefone))
	}
	if c.Email != "" {
		lines = append(lines, "EMAIL:"+vcardEscape(c.Email))
	}
	if c.Endereco != "" {
		lines = append(lines, "ADR;TYPE=HOME:;;"+vcardEscape(c.Endereco)+";;;;")
	}
	if c.Referencia != "" {
		lines = append(lines, "NOTE:"+vcardEscape(c.Referencia))
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n") + "\r\n"
}

var vcardReplacer = strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\r\n", `\n`, "\n", `\n`)

func vcardEscape(s string) string {
	return vcardReplacer.Replace(strings.TrimSpace(s))
}

// renderQR converts a string to a compact QR code using Unicode half-block
// characters, two modules per terminal row.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "(QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top && !bot:
				sb.WriteRune('▀')
			case !top && bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
