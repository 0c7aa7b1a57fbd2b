package views

import (
	"errors"
	"strings"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/format"
	"github.com/shopspring/decimal"
)

// ValidationError reports a form field the user has to fix.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// FieldKind selects the input widget.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldPassword
	FieldChoice
)

// Field is one form input.
type Field struct {
	Key     string
	Label   string
	Value   string
	Kind    FieldKind
	Options []string
}

// Values are the raw strings the user typed, by field key.
type Values map[string]string

func (v Values) get(key string) string {
	return strings.TrimSpace(v[key])
}

func (v Values) required(key, label string) (string, error) {
	s := v.get(key)
	if s == "" {
		return "", invalid(label, "is required")
	}
	return s, nil
}

func (v Values) amount(key, label string) (decimal.Decimal, error) {
	s := v.get(key)
	if s == "" {
		return decimal.Zero, invalid(label, "is required")
	}
	d, err := format.ParseAmount(s)
	if err != nil {
		return decimal.Zero, invalid(label, "must be an amount greater than zero, e.g. 1.234,56")
	}
	return d, nil
}

func (v Values) date(key, label string) (time.Time, error) {
	s := v.get(key)
	if s == "" {
		return time.Time{}, invalid(label, "is required")
	}
	t, err := format.ParseDate(s)
	if err != nil {
		return time.Time{}, invalid(label, "must be a date like 31/12/2026")
	}
	return t, nil
}

// FormSpec describes a form and how its values become a request.
type FormSpec struct {
	Name   string
	Title  string
	Fields []Field
	Submit func(Values) (api.Request, error)
}

// ClientForm creates a client, or edits c when it is not nil. New clients
// also get a customer login.
func ClientForm(c *api.Client) FormSpec {
	edit := c != nil
	if c == nil {
		c = &api.Client{}
	}
	fields := []Field{
		{Key: "nome", Label: "Name", Value: c.Nome},
		{Key: "referencia", Label: "Reference", Value: c.Referencia},
		{Key: "endereco", Label: "Address", Value: c.Endereco},
		{Key: "telefone", Label: "Phone", Value: c.Telefone},
		{Key: "email", Label: "E-mail", Value: c.Email},
	}
	title := " Edit client "
	if !edit {
		title = " New client "
		fields = append(fields,
			Field{Key: "username", Label: "Username"},
			Field{Key: "password", Label: "Password", Kind: FieldPassword},
		)
	}
	id := c.ID
	return FormSpec{
		Name:   "Client form",
		Title:  title,
		Fields: fields,
		Submit: func(v Values) (api.Request, error) {
			in := api.ClientInput{ID: id, Email: v.get("email")}
			var err error
			if in.Nome, err = v.required("nome", "Name"); err != nil {
				return api.Request{}, err
			}
			if in.Referencia, err = v.required("referencia", "Reference"); err != nil {
				return api.Request{}, err
			}
			if in.Endereco, err = v.required("endereco", "Address"); err != nil {
				return api.Request{}, err
			}
			if in.Telefone, err = v.required("telefone", "Phone"); err != nil {
				return api.Request{}, err
			}
			if in.Email != "" && !strings.Contains(in.Email, "@") {
				return api.Request{}, invalid("E-mail", "is not an e-mail address")
			}
			if edit {
				return api.UpdateClient(in)
			}
			if in.Username, err = v.required("username", "Username"); err != nil {
				return api.Request{}, err
			}
			if in.Password = v["password"]; in.Password == "" {
				return api.Request{}, invalid("Password", "is required")
			}
			return api.CreateClient(in)
		},
	}
}

// ProductForm creates a product, or edits p when it is not nil.
func ProductForm(p *api.Product) FormSpec {
	edit := p != nil
	fields := []Field{
		{Key: "nome", Label: "Name"},
		{Key: "descricao", Label: "Description"},
		{Key: "avista", Label: "Cash price"},
		{Key: "aprazo", Label: "Credit price"},
	}
	title := " New product "
	var id api.ID
	if edit {
		title = " Edit product "
		id = p.ID
		fields[0].Value = p.Nome
		fields[1].Value = p.Descricao
		fields[2].Value = format.Plain(p.PrecoAVista)
		fields[3].Value = format.Plain(p.PrecoAPrazo)
	}
	return FormSpec{
		Name:   "Product form",
		Title:  title,
		Fields: fields,
		Submit: func(v Values) (api.Request, error) {
			out := api.Product{ID: id, Descricao: v.get("descricao")}
			var err error
			if out.Nome, err = v.required("nome", "Name"); err != nil {
				return api.Request{}, err
			}
			if out.PrecoAVista, err = v.amount("avista", "Cash price"); err != nil {
				return api.Request{}, err
			}
			if out.PrecoAPrazo, err = v.amount("aprazo", "Credit price"); err != nil {
				return api.Request{}, err
			}
			if edit {
				return api.UpdateProduct(out)
			}
			return api.CreateProduct(out)
		},
	}
}

// Purchase kind labels, indexed by api.KindGoods and api.KindService.
var purchaseKinds = []string{"Compra", "Serviço"}

const noProduct = "(none)"

// PurchaseForm records a purchase for a client. Picking a product fills a
// blank description and total from it.
func PurchaseForm(client api.Client, products []api.Product, today time.Time) FormSpec {
	names := []string{noProduct}
	for _, p := range products {
		names = append(names, p.Nome)
	}
	clientID := client.ID
	return FormSpec{
		Name:  "Purchase form",
		Title: " New purchase for " + clean(client.Nome) + " ",
		Fields: []Field{
			{Key: "produto", Label: "Product", Kind: FieldChoice, Options: names, Value: noProduct},
			{Key: "descricao", Label: "Description"},
			{Key: "total", Label: "Total"},
			{Key: "tipo", Label: "Kind", Kind: FieldChoice, Options: purchaseKinds, Value: purchaseKinds[api.KindGoods]},
			{Key: "data", Label: "Date", Value: today.Format("02/01/2006")},
		},
		Submit: func(v Values) (api.Request, error) {
			var picked *api.Product
			for i := range products {
				if products[i].Nome == v.get("produto") {
					picked = &products[i]
					break
				}
			}
			if picked != nil {
				if v.get("descricao") == "" {
					v["descricao"] = picked.Nome
				}
				if v.get("total") == "" {
					v["total"] = format.Plain(picked.PrecoAPrazo)
				}
			}

			in := api.PurchaseInput{ClienteID: clientID, Tipo: api.KindGoods}
			var err error
			if in.Descricao, err = v.required("descricao", "Description"); err != nil {
				return api.Request{}, err
			}
			if in.Total, err = v.amount("total", "Total"); err != nil {
				return api.Request{}, err
			}
			if v.get("tipo") == purchaseKinds[api.KindService] {
				in.Tipo = api.KindService
			}
			day, err := v.date("data", "Date")
			if err != nil {
				return api.Request{}, err
			}
			in.DataDaCompra = format.ISO(day)
			return api.CreatePurchase(in)
		},
	}
}

// ErrNothingOwed is returned when a payment is entered for a client with no
// open balance.
var ErrNothingOwed = errors.New("client has no open balance")

// PaymentForm records a payment from a client. The amount may not exceed
// outstanding.
func PaymentForm(client api.Client, outstanding decimal.Decimal) FormSpec {
	clientID := client.ID
	return FormSpec{
		Name:  "Payment form",
		Title: " Payment from " + clean(client.Nome) + " ",
		Fields: []Field{
			{Key: "valor", Label: "Amount (open " + format.BRL(outstanding) + ")"},
		},
		Submit: func(v Values) (api.Request, error) {
			if !outstanding.IsPositive() {
				return api.Request{}, invalid("Amount", ErrNothingOwed.Error())
			}
			amount, err := v.amount("valor", "Amount")
			if err != nil {
				return api.Request{}, err
			}
			if amount.GreaterThan(outstanding) {
				return api.Request{}, invalid("Amount", "is more than the open balance of "+format.BRL(outstanding))
			}
			return api.CreatePayment(api.PaymentInput{Valor: amount, ClienteID: clientID})
		},
	}
}

// ReminderForm creates a reminder, or edits r when it is not nil. The date
// of an existing reminder cannot be changed.
func ReminderForm(r *api.Reminder, today time.Time) FormSpec {
	if r != nil {
		id, notified := r.ID, r.Notification
		return FormSpec{
			Name:   "Reminder form",
			Title:  " Edit reminder ",
			Fields: []Field{{Key: "descricao", Label: "Description", Value: r.Descricao}},
			Submit: func(v Values) (api.Request, error) {
				desc, err := v.required("descricao", "Description")
				if err != nil {
					return api.Request{}, err
				}
				return api.UpdateReminder(id, api.ReminderUpdate{Descricao: desc, Notification: notified})
			},
		}
	}
	return FormSpec{
		Name:  "Reminder form",
		Title: " New reminder ",
		Fields: []Field{
			{Key: "descricao", Label: "Description"},
			{Key: "data", Label: "Date", Value: today.Format("02/01/2006")},
		},
		Submit: func(v Values) (api.Request, error) {
			desc, err := v.required("descricao", "Description")
			if err != nil {
				return api.Request{}, err
			}
			day, err := v.date("data", "Date")
			if err != nil {
				return api.Request{}, err
			}
			return api.CreateReminder(api.ReminderInput{Descricao: desc, DataCadastro: format.ISO(day)})
		},
	}
}
