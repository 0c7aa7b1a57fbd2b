package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/format"
	"github.com/shopspring/decimal"
)

func purchases() []api.Purchase {
	return []api.Purchase{
		{ID: "1", Descricao: "Geladeira", Total: decimal.RequireFromString("1500"), Cliente: &api.ClientRef{Nome: "Ana"}},
		{ID: "2", Descricao: "Conserto\tfogão", Total: decimal.RequireFromString("80.5"), Status: 1},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, purchases(), listArgs{}, purchaseColumns, purchaseTotal); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "DATE") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "Conserto fogão") || !strings.Contains(lines[2], "paid") {
		t.Errorf("row = %q", lines[2])
	}
	if !strings.Contains(lines[3], "2 of 2") || !strings.Contains(lines[3], "Total: "+format.BRL(decimal.RequireFromString("1580.5"))) {
		t.Errorf("summary = %q", lines[3])
	}
}

func TestRenderFiltered(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, purchases(), listArgs{query: "ana"}, purchaseColumns, purchaseTotal); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "1 of 2") {
		t.Errorf("output:\n%s", buf.String())
	}

	buf.Reset()
	if err := render(&buf, purchases(), listArgs{query: "zzz"}, purchaseColumns, purchaseTotal); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `no results for "zzz" (2 total)`) {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, purchases(), listArgs{query: "geladeira", json: true}, purchaseColumns, purchaseTotal); err != nil {
		t.Fatal(err)
	}
	var out struct {
		Items []api.Purchase `json:"items"`
		Shown int            `json:"shown"`
		Size  int            `json:"size"`
		Total string         `json:"total"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", buf.String(), err)
	}
	if out.Shown != 1 || out.Size != 2 || out.Total != "1500.00" || out.Items[0].ID != "1" {
		t.Errorf("output = %+v", out)
	}

	buf.Reset()
	if err := render(&buf, []api.Client(nil), listArgs{json: true}, clientColumns, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"items": []`) || strings.Contains(buf.String(), "total") {
		t.Errorf("empty output = %s", buf.String())
	}
}

func TestParseRange(t *testing.T) {
	now := time.Date(2026, time.April, 20, 9, 0, 0, 0, time.Local)
	r, err := parseRange("", "", now)
	if err != nil {
		t.Fatal(err)
	}
	if format.Day(r.from) != "2026-04-01" || format.Day(r.to) != "2026-04-30" {
		t.Errorf("default range = %s..%s", format.Day(r.from), format.Day(r.to))
	}

	r, err = parseRange("10/04/2026", "", now)
	if err != nil || format.Day(r.from) != "2026-04-10" {
		t.Errorf("from override = %v, %v", r.from, err)
	}

	if _, err := parseRange("30/04/2026", "01/04/2026", now); err == nil {
		t.Error("reversed range should fail")
	}
	if _, err := parseRange("abril", "", now); err == nil {
		t.Error("bad date should fail")
	}
}

func TestEntityNamesSorted(t *testing.T) {
	names := entityNames()
	if len(names) != len(listers) || names[0] != "clients" || names[len(names)-1] != "reminders" {
		t.Errorf("entityNames() = %v", names)
	}
}
