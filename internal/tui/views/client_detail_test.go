package views

import (
	"strings"
	"testing"

	"github.com/matheus3301/frigo/internal/api"
)

func TestVCard(t *testing.T) {
	c := api.Client{
		Nome:       "Souza, Ana",
		Telefone:   "85 99999-0000",
		Email:      "ana@example.com",
		Endereco:   "Rua 7; casa 2",
		Referencia: "vizinha\nda padaria",
	}
	card := VCard(c)

	if !strings.HasPrefix(card, "BEGIN:VCARD\r\nVERSION:3.0\r\n") {
		t.Errorf("card header = %q", card)
	}
	if !strings.HasSuffix(card, "END:VCARD\r\n") {
		t.Errorf("card should end with END:VCARD and CRLF: %q", card)
	}
	for _, want := range []string{
		`FN:Souza\, Ana`,
		`N:Souza\, Ana;;;;`,
		"TEL;TYPE=CELL:85 99999-0000",
		"EMAIL:ana@example.com",
		`ADR;TYPE=HOME:;;Rua 7\; casa 2;;;;`,
		`NOTE:vizinha\nda padaria`,
	} {
		if !strings.Contains(card, want+"\r\n") {
			t.Errorf("card missing line %q:\n%s", want, card)
		}
	}
}

func TestVCardSkipsEmptyFields(t *testing.T) {
	card := VCard(api.Client{Nome: "Ana"})
	for _, absent := range []string{"TEL", "EMAIL", "ADR", "NOTE"} {
		if strings.Contains(card, absent) {
			t.Errorf("card should not contain %s:\n%s", absent, card)
		}
	}
}

func TestRenderQR(t *testing.T) {
	out := renderQR(VCard(api.Client{Nome: "Ana", Telefone: "85 99999-0000"}))
	if strings.HasPrefix(out, "(QR generation failed") {
		t.Fatal(out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 10 {
		t.Errorf("QR has %d rows, expected a full code", len(lines))
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Error("QR should be drawn with block characters")
	}
}
