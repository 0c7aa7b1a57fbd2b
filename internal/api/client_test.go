package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "ftp://x", "://bad"} {
		if _, err := New(u, time.Second, nil); err == nil {
			t.Errorf("New(%q) succeeded, want error", u)
		}
	}
}

func TestBearerToken(t *testing.T) {
	var got string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[]`)
	})

	if _, err := c.Clients(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("Authorization = %q before login, want empty", got)
	}

	c.SetToken("tok")
	if _, err := c.Clients(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != "Bearer tok" {
		t.Errorf("Authorization = %q, want Bearer tok", got)
	}
}

func TestLogin(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/session" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "ana" || body["password"] != "pw" {
			t.Errorf("body = %v", body)
		}
		_, _ = io.WriteString(w, `{"id":7,"name":"Ana","role":"USER","token":"t","client":[{"id":"c1"}]}`)
	})

	l, err := c.Login(context.Background(), "ana", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if l.ID != "7" || l.Role != RoleUser || l.Token != "t" || l.ClientID() != "c1" {
		t.Errorf("login = %+v", l)
	}
}

func TestHTTPErrorCarriesBackendMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"Usuário ou senha incorretos"}`)
	})

	_, err := c.Login(context.Background(), "x", "y")
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if he.StatusCode != http.StatusUnauthorized || !he.Unauthorized() {
		t.Errorf("status = %d", he.StatusCode)
	}
	if UserMessage(err) != "Usuário ou senha incorretos" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
}

func TestHTTPErrorWithoutBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.Products(context.Background())
	var he *HTTPError
	if !errors.As(err, &he) || he.Message != "" {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q does not mention status", err)
	}
}

func TestProductsConvertCents(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"p1","nome":"Arroz","precoAVista":1250,"precoAPrazo":1399}]`)
	})
	ps, err := c.Products(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 1 {
		t.Fatalf("got %d products", len(ps))
	}
	if !ps[0].PrecoAVista.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("precoAVista = %s, want 12.50", ps[0].PrecoAVista)
	}
	if !ps[0].PrecoAPrazo.Equal(decimal.RequireFromString("13.99")) {
		t.Errorf("precoAPrazo = %s, want 13.99", ps[0].PrecoAPrazo)
	}
}

func TestProductRoundTripsCents(t *testing.T) {
	p := Product{ID: "p1", Nome: "Feijão", PrecoAVista: decimal.RequireFromString("8.9"), PrecoAPrazo: decimal.RequireFromString("10")}
	req, err := UpdateProduct(p)
	if err != nil {
		t.Fatal(err)
	}
	var wire map[string]any
	if err := json.Unmarshal(req.Body, &wire); err != nil {
		t.Fatal(err)
	}
	if wire["precoAVista"] != float64(890) || wire["precoAPrazo"] != float64(1000) {
		t.Errorf("wire = %v", wire)
	}
	if wire["id"] != "p1" {
		t.Errorf("id = %v, want p1 in body", wire["id"])
	}
}

func TestPurchaseReportQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/relatorio/compras" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("dataInicio") != "2024-03-01" || r.URL.Query().Get("dataFim") != "2024-03-31" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"compras":[
			{"id":"1","descricaoCompra":"Cesta","totalCompra":100.50,"tipoCompra":0,"statusCompra":0,"isVencida":1,"clienteId":3,"cliente":{"nome":"Ana","referencia":"Feira"}},
			{"id":"2","descricaoCompra":"Conserto","totalCompra":"49.50","tipoCompra":1,"statusCompra":1,"isVencida":0,"clienteId":"4"}
		],"somaTotalCompras":150}`)
	})

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local)
	rep, err := c.PurchaseReport(context.Background(), from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Compras) != 2 {
		t.Fatalf("got %d purchases", len(rep.Compras))
	}
	p := rep.Compras[0]
	if !bool(p.Vencida) || p.Paid() || p.ClientName() != "Ana" || p.ClienteID != "3" {
		t.Errorf("purchase 1 = %+v", p)
	}
	if rep.Compras[1].TipoLabel() != "Serviço" || !rep.Compras[1].Paid() {
		t.Errorf("purchase 2 = %+v", rep.Compras[1])
	}
	if !rep.Soma.Equal(decimal.NewFromInt(150)) {
		t.Errorf("soma = %s", rep.Soma)
	}
}

func TestCounts(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/juros/count":
			_, _ = io.WriteString(w, `{"count":2}`)
		case "/lembretes/count":
			_, _ = io.WriteString(w, `{"count":3}`)
		default:
			http.NotFound(w, r)
		}
	})
	got, err := c.Counts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Interest != 2 || got.Reminders != 3 || got.Total() != 5 {
		t.Errorf("counts = %+v", got)
	}
}

func TestCountsFailsIfEitherFails(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/lembretes/count" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"count":2}`)
	})
	if _, err := c.Counts(context.Background()); err == nil {
		t.Error("Counts succeeded with a failing counter")
	}
}

func TestNotificationsMerge(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/juros/clients":
			_, _ = io.WriteString(w, `[{"id":"c1","title":"Ana","description":"juros","date":"2024-03-02"}]`)
		case "/lembretes/today":
			_, _ = io.WriteString(w, `[{"id":"r1","title":"Ligar","details":"fornecedor","dueDate":"2024-03-02"}]`)
		}
	})
	ns, err := c.Notifications(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 2 || ns[0].Kind != NotifyInterest || ns[1].Kind != NotifyReminder {
		t.Fatalf("notifications = %+v", ns)
	}
	if ns[1].Details != "fornecedor" || ns[0].Details != "juros" {
		t.Errorf("details = %q %q", ns[0].Details, ns[1].Details)
	}
	if ns[0].RecordID() == ns[1].RecordID() {
		t.Error("record ids collide across kinds")
	}
}

func TestSendPreparedRequests(t *testing.T) {
	type seen struct {
		method, path, body string
	}
	var got []seen
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = append(got, seen{r.Method, r.URL.Path, string(b)})
		w.WriteHeader(http.StatusNoContent)
	})

	var reqs []Request
	for _, build := range []func() (Request, error){
		func() (Request, error) { return DeleteClient("5") },
		func() (Request, error) {
			return CreatePayment(PaymentInput{Valor: decimal.RequireFromString("49.5"), ClienteID: "5"})
		},
		func() (Request, error) { return DeleteReminder("r1") },
		func() (Request, error) { return MarkNotificationRead(Notification{ID: "r1", Kind: NotifyReminder}) },
		func() (Request, error) { return MarkNotificationRead(Notification{ID: "c1", Kind: NotifyInterest}) },
	} {
		r, err := build()
		if err != nil {
			t.Fatal(err)
		}
		reqs = append(reqs, r)
	}
	for _, r := range reqs {
		if err := c.Send(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}

	want := []seen{
		{"DELETE", "/clients", `{"id":"5"}`},
		{"POST", "/pagamentos", `{"valorPagamento":49.50,"clienteId":"5"}`},
		{"DELETE", "/lembrete/r1", ``},
		{"PUT", "/lembrete/r1", `{"notification":true}`},
		{"PUT", "/juros/clients/c1", ``},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d requests, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestContextCancelled(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Reminders(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
