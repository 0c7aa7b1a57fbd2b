package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matheus3301/frigo/internal/format"
	"github.com/shopspring/decimal"
)

// ID is a backend identifier. The backend sends ids as strings or numbers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Flag is a boolean the backend encodes as 0/1 or true/false.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true", "1", `"1"`:
		*f = true
	case "false", "0", `"0"`, "null":
		*f = false
	default:
		return fmt.Errorf("flag: unexpected %s", b)
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// number renders d as a JSON number literal with two decimal places.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// moneyFields returns the plain and currency renderings of d, so a query can
// match either "150,00" or "R$ 150,00".
func moneyFields(d decimal.Decimal) []string {
	return []string{format.Plain(d), format.BRL(d), d.StringFixed(2)}
}

// dateFields returns the raw timestamp and its dd/mm/yyyy form.
func dateFields(iso string) []string {
	return []string{iso, format.DateBR(iso)}
}

// Role distinguishes the admin portal from the customer portal.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Login is the backend's answer to POST /session.
type Login struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Token    string `json:"token"`
	Client   []struct {
		ID ID `json:"id"`
	} `json:"client"`
}

// ClientID returns the customer record linked to a USER login, if any.
func (l *Login) ClientID() ID {
	if len(l.Client) == 0 {
		return ""
	}
	return l.Client[0].ID
}

// ClientRef is the slice of a client embedded in purchases and payments.
type ClientRef struct {
	Nome       string `json:"nome"`
	Referencia string `json:"referencia"`
}

// Client is a customer of the business.
type Client struct {
	ID         ID     `json:"id"`
	Nome       string `json:"nome"`
	Email      string `json:"email"`
	Telefone   string `json:"telefone"`
	Endereco   string `json:"endereco"`
	Referencia string `json:"referencia"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
	User       *struct {
		Username string `json:"username"`
	} `json:"user,omitempty"`
}

func (c Client) RecordID() string { return string(c.ID) }

func (c Client) SearchFields() []string {
	f := []string{string(c.ID), c.Nome, c.Email, c.Telefone, c.Endereco, c.Referencia}
	return append(f, dateFields(c.CreatedAt)...)
}

// Username returns the login linked to the client, if the backend sent one.
func (c Client) Username() string {
	if c.User == nil {
		return ""
	}
	return c.User.Username
}

// ClientInput is the body of POST and PUT /clients.
type ClientInput struct {
	ID         ID     `json:"id,omitempty"`
	Nome       string `json:"nome"`
	Email      string `json:"email"`
	Telefone   string `json:"telefone"`
	Endereco   string `json:"endereco"`
	Referencia string `json:"referencia"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Product is a catalogue item. Prices are in reais; the wire carries centavos.
type Product struct {
	ID          ID
	Nome        string
	Descricao   string
	PrecoAVista decimal.Decimal
	PrecoAPrazo decimal.Decimal
	CreatedAt   string
}

type productWire struct {
	ID          ID     `json:"id,omitempty"`
	Nome        string `json:"nome"`
	Descricao   string `json:"descricao"`
	PrecoAVista int64  `json:"precoAVista"`
	PrecoAPrazo int64  `json:"precoAPrazo"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func (p *Product) UnmarshalJSON(b []byte) error {
	var w productWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = Product{
		ID:          w.ID,
		Nome:        w.Nome,
		Descricao:   w.Descricao,
		PrecoAVista: format.FromCents(w.PrecoAVista),
		PrecoAPrazo: format.FromCents(w.PrecoAPrazo),
		CreatedAt:   w.CreatedAt,
	}
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productWire{
		ID:          p.ID,
		Nome:        p.Nome,
		Descricao:   p.Descricao,
		PrecoAVista: format.ToCents(p.PrecoAVista),
		PrecoAPrazo: format.ToCents(p.PrecoAPrazo),
		CreatedAt:   p.CreatedAt,
	})
}

func (p Product) RecordID() string { return string(p.ID) }

func (p Product) SearchFields() []string {
	f := []string{string(p.ID), p.Nome, p.Descricao}
	f = append(f, moneyFields(p.PrecoAVista)...)
	f = append(f, moneyFields(p.PrecoAPrazo)...)
	return append(f, dateFields(p.CreatedAt)...)
}

// Purchase kinds.
const (
	KindGoods   = 0
	KindService = 1
)

// Purchase is a sale on credit to a client.
type Purchase struct {
	ID             ID              `json:"id"`
	Descricao      string          `json:"descricaoCompra"`
	Total          decimal.Decimal `json:"totalCompra"`
	ValorInicial   decimal.Decimal `json:"valorInicialCompra"`
	Tipo           int             `json:"tipoCompra"`
	Status         int             `json:"statusCompra"`
	DataDaCompra   string          `json:"dataDaCompra"`
	DataVencimento string          `json:"dataVencimento"`
	Vencida        Flag            `json:"isVencida"`
	ClienteID      ID              `json:"clienteId"`
	Cliente        *ClientRef      `json:"cliente,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
}

// Paid reports whether the purchase has been settled.
func (p Purchase) Paid() bool { return p.Status == 1 }

// TipoLabel names the purchase kind.
func (p Purchase) TipoLabel() string {
	if p.Tipo == KindService {
		return "Serviço"
	}
	return "Compra"
}

// ClientName returns the embedded client name, or "" when absent.
func (p Purchase) ClientName() string {
	if p.Cliente == nil {
		return ""
	}
	return p.Cliente.Nome
}

func (p Purchase) RecordID() string { return string(p.ID) }

func (p Purchase) SearchFields() []string {
	f := []string{string(p.ID), p.Descricao, p.TipoLabel(), string(p.ClienteID)}
	if p.Cliente != nil {
		f = append(f, p.Cliente.Nome, p.Cliente.Referencia)
	}
	f = append(f, moneyFields(p.Total)...)
	f = append(f, dateFields(p.DataDaCompra)...)
	return append(f, dateFields(p.DataVencimento)...)
}

// PurchaseInput is the body of POST /compras.
type PurchaseInput struct {
	Descricao    string
	Total        decimal.Decimal
	Tipo         int
	DataDaCompra string
	ClienteID    ID
}

func (in PurchaseInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Descricao    string      `json:"descricaoCompra"`
		DataDaCompra string      `json:"dataDaCompra,omitempty"`
		Total        json.Number `json:"totalCompra"`
		ValorInicial json.Number `json:"valorInicialCompra"`
		Tipo         int         `json:"tipoCompra"`
		Status       int         `json:"statusCompra"`
		ClienteID    ID          `json:"clienteId"`
	}{in.Descricao, in.DataDaCompra, number(in.Total), number(in.Total), in.Tipo, 0, in.ClienteID})
}

// PurchaseReport is a list of purchases with the backend's own sum.
type PurchaseReport struct {
	Compras []Purchase      `json:"compras"`
	Soma    decimal.Decimal `json:"somaTotalCompras"`
}

// Payment is money received from a client.
type Payment struct {
	ID        ID              `json:"id"`
	CreatedAt string          `json:"created_at"`
	Valor     decimal.Decimal `json:"valorPagamento"`
	ClienteID ID              `json:"clienteId"`
	Cliente   *ClientRef      `json:"cliente,omitempty"`
}

// ClientName returns the embedded client name, or "" when absent.
func (p Payment) ClientName() string {
	if p.Cliente == nil {
		return ""
	}
	return p.Cliente.Nome
}

func (p Payment) RecordID() string { return string(p.ID) }

func (p Payment) SearchFields() []string {
	f := []string{string(p.ID)}
	if p.Cliente != nil {
		f = append(f, p.Cliente.Nome, p.Cliente.Referencia)
	}
	f = append(f, moneyFields(p.Valor)...)
	return append(f, dateFields(p.CreatedAt)...)
}

// PaymentInput is the body of POST /pagamentos.
type PaymentInput struct {
	Valor     decimal.Decimal
	ClienteID ID
}

func (in PaymentInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Valor     json.Number `json:"valorPagamento"`
		ClienteID ID          `json:"clienteId"`
	}{number(in.Valor), in.ClienteID})
}

// PaymentReport is a list of payments with the backend's own sum.
type PaymentReport struct {
	Pagamentos []Payment       `json:"pagamentos"`
	Total      decimal.Decimal `json:"totalPagamentos"`
}

// Reminder is a dated note the admin wants to be notified about.
type Reminder struct {
	ID           ID     `json:"id"`
	Descricao    string `json:"descricao"`
	Notification int    `json:"notification"`
	DataCadastro string `json:"dataCadastro"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

func (r Reminder) RecordID() string { return string(r.ID) }

func (r Reminder) SearchFields() []string {
	f := []string{string(r.ID), r.Descricao, strconv.Itoa(r.Notification)}
	return append(f, dateFields(r.DataCadastro)...)
}

// ReminderInput is the body of POST /lembrete.
type ReminderInput struct {
	Descricao    string `json:"descricao"`
	DataCadastro string `json:"dataCadastro"`
}

// ReminderUpdate is the body of PUT /lembrete/{id}.
type ReminderUpdate struct {
	Descricao    string `json:"descricao"`
	Notification int    `json:"notification"`
}

// Notification kinds.
const (
	NotifyInterest = "interest"
	NotifyReminder = "reminder"
)

// Notification is either an overdue-interest client or a reminder due today.
type Notification struct {
	ID      ID     `json:"id"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Details string `json:"details"`
	Date    string `json:"date"`
	Status  int    `json:"status"`
	Link    string `json:"link"`
}

func (n Notification) RecordID() string { return n.Kind + ":" + string(n.ID) }

func (n Notification) SearchFields() []string {
	f := []string{string(n.ID), n.Title, n.Details}
	return append(f, dateFields(n.Date)...)
}

type interestWire struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Status      int    `json:"status"`
	Link        string `json:"link"`
}

type reminderDueWire struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	Details string `json:"details"`
	DueDate string `json:"dueDate"`
	Status  int    `json:"status"`
	Link    string `json:"link"`
}

// Counts are the two badge numbers shown on the home page.
type Counts struct {
	Interest  int `json:"interest"`
	Reminders int `json:"reminders"`
}

// Total is the sum of both counters.
func (c Counts) Total() int { return c.Interest + c.Reminders }
