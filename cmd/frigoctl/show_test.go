package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/store"
	"go.uber.org/zap"
)

func TestShowProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/produtos/7" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"id":7,"nome":"Fogão","descricao":"4 bocas","precoAVista":123456,"precoAPrazo":150000}`))
	}))
	defer srv.Close()
	c, err := api.New(srv.URL, 5*time.Second, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := cmdShow(context.Background(), &buf, c, "product", "7", false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Fogão", "4 bocas", "R$ 1.234,56", "R$ 1.500,00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := cmdShow(context.Background(), &buf, c, "product", "8", false); err == nil {
		t.Error("expected error for missing product")
	}
	if err := cmdShow(context.Background(), &buf, c, "widget", "7", false); err == nil {
		t.Error("expected error for unknown entity")
	}
}

func TestOutboxListsFailed(t *testing.T) {
	db, err := store.OpenMigrated(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var buf bytes.Buffer
	if err := cmdOutbox(&buf, db, 10, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No failed mutations.") {
		t.Errorf("output:\n%s", buf.String())
	}

	if err := db.QueueOutbox("m1", "clients", "DELETE", "/clients", []byte(`{"id":"3"}`)); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkOutboxFailed("m1", "Cliente possui compras"); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := cmdOutbox(&buf, db, 10, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "DELETE /clients") || !strings.Contains(out, "Cliente possui compras") {
		t.Errorf("output:\n%s", out)
	}
}
