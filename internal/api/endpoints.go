package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/matheus3301/frigo/internal/format"
	"golang.org/x/sync/errgroup"
)

// Entity names, used as cache keys, outbox tags and bus payloads.
const (
	EntityClients       = "clients"
	EntityProducts      = "products"
	EntityPurchases     = "purchases"
	EntityPayments      = "payments"
	EntityReminders     = "reminders"
	EntityNotifications = "notifications"
)

// Login authenticates and returns the session the backend issued.
func (c *Client) Login(ctx context.Context, username, password string) (*Login, error) {
	var out Login
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/session", nil, body, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("login: backend returned no token")
	}
	return &out, nil
}

// Clients lists every client.
func (c *Client) Clients(ctx context.Context) ([]Client, error) {
	var out []Client
	if err := c.get(ctx, "/clients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClientByID fetches one client.
func (c *Client) ClientByID(ctx context.Context, id ID) (*Client, error) {
	var out Client
	if err := c.get(ctx, "/clients/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClientPurchases lists the purchases of one client, for the admin portal.
func (c *Client) ClientPurchases(ctx context.Context, id ID) (*PurchaseReport, error) {
	var out PurchaseReport
	if err := c.get(ctx, "/clients/purchases/"+url.PathEscape(string(id))+"/compras", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CustomerPurchases lists the purchases of the logged-in customer.
func (c *Client) CustomerPurchases(ctx context.Context, clientID ID) (*PurchaseReport, error) {
	var out PurchaseReport
	if err := c.get(ctx, "/cliente/"+url.PathEscape(string(clientID)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Products lists the catalogue.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "/produtos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductByID fetches one product.
func (c *Client) ProductByID(ctx context.Context, id ID) (*Product, error) {
	var out Product
	if err := c.get(ctx, "/produtos/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func dateRange(from, to time.Time) url.Values {
	return url.Values{"dataInicio": {format.Day(from)}, "dataFim": {format.Day(to)}}
}

// PurchaseReport lists purchases made between from and to, inclusive.
func (c *Client) PurchaseReport(ctx context.Context, from, to time.Time) (*PurchaseReport, error) {
	var out PurchaseReport
	if err := c.get(ctx, "/relatorio/compras", dateRange(from, to), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PurchaseByID fetches one purchase.
func (c *Client) PurchaseByID(ctx context.Context, id ID) (*Purchase, error) {
	var out Purchase
	if err := c.get(ctx, "/compras/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentReport lists payments received between from and to, inclusive.
func (c *Client) PaymentReport(ctx context.Context, from, to time.Time) (*PaymentReport, error) {
	var out PaymentReport
	if err := c.get(ctx, "/pagamentos/entre-datas", dateRange(from, to), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reminders lists every reminder.
func (c *Client) Reminders(ctx context.Context) ([]Reminder, error) {
	var out []Reminder
	if err := c.get(ctx, "/lembretes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReminderByID fetches one reminder.
func (c *Client) ReminderByID(ctx context.Context, id ID) (*Reminder, error) {
	var out Reminder
	if err := c.get(ctx, "/lembrete/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Counts fetches both notification counters concurrently.
func (c *Client) Counts(ctx context.Context) (Counts, error) {
	var (
		interest, reminders struct {
			Count int `json:"count"`
		}
		g, gctx = errgroup.WithContext(ctx)
	)
	g.Go(func() error { return c.get(gctx, "/juros/count", nil, &interest) })
	g.Go(func() error { return c.get(gctx, "/lembretes/count", nil, &reminders) })
	if err := g.Wait(); err != nil {
		return Counts{}, err
	}
	return Counts{Interest: interest.Count, Reminders: reminders.Count}, nil
}

// Notifications merges overdue-interest clients and reminders due today,
// interest first.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var (
		interest  []interestWire
		reminders []reminderDueWire
		g, gctx   = errgroup.WithContext(ctx)
	)
	g.Go(func() error { return c.get(gctx, "/juros/clients", nil, &interest) })
	g.Go(func() error { return c.get(gctx, "/lembretes/today", nil, &reminders) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Notification, 0, len(interest)+len(reminders))
	for _, n := range interest {
		out = append(out, Notification{
			ID: n.ID, Kind: NotifyInterest, Title: n.Title, Details: n.Description,
			Date: n.Date, Status: n.Status, Link: n.Link,
		})
	}
	for _, n := range reminders {
		out = append(out, Notification{
			ID: n.ID, Kind: NotifyReminder, Title: n.Title, Details: n.Details,
			Date: n.DueDate, Status: n.Status, Link: n.Link,
		})
	}
	return out, nil
}

func prepare(entity, method, path string, body any) (Request, error) {
	r := Request{Entity: entity, Method: method, Path: path}
	if body == nil {
		return r, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return Request{}, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	r.Body = raw
	return r, nil
}

type idBody struct {
	ID ID `json:"id"`
}

// CreateClient prepares POST /clients.
func CreateClient(in ClientInput) (Request, error) {
	in.ID = ""
	return prepare(EntityClients, http.MethodPost, "/clients", in)
}

// UpdateClient prepares PUT /clients; the id travels in the body.
func UpdateClient(in ClientInput) (Request, error) {
	return prepare(EntityClients, http.MethodPut, "/clients", in)
}

// DeleteClient prepares DELETE /clients.
func DeleteClient(id ID) (Request, error) {
	return prepare(EntityClients, http.MethodDelete, "/clients", idBody{id})
}

// CreateProduct prepares POST /produtos.
func CreateProduct(p Product) (Request, error) {
	p.ID = ""
	p.CreatedAt = ""
	return prepare(EntityProducts, http.MethodPost, "/produtos", p)
}

// UpdateProduct prepares PUT /produtos; the id travels in the body.
func UpdateProduct(p Product) (Request, error) {
	p.CreatedAt = ""
	return prepare(EntityProducts, http.MethodPut, "/produtos", p)
}

// DeleteProduct prepares DELETE /produtos.
func DeleteProduct(id ID) (Request, error) {
	return prepare(EntityProducts, http.MethodDelete, "/produtos", idBody{id})
}

// CreatePurchase prepares POST /compras.
func CreatePurchase(in PurchaseInput) (Request, error) {
	return prepare(EntityPurchases, http.MethodPost, "/compras", in)
}

// DeletePurchase prepares DELETE /compras.
func DeletePurchase(id ID) (Request, error) {
	return prepare(EntityPurchases, http.MethodDelete, "/compras", idBody{id})
}

// CreatePayment prepares POST /pagamentos.
func CreatePayment(in PaymentInput) (Request, error) {
	return prepare(EntityPayments, http.MethodPost, "/pagamentos", in)
}

// CreateReminder prepares POST /lembrete.
func CreateReminder(in ReminderInput) (Request, error) {
	return prepare(EntityReminders, http.MethodPost, "/lembrete", in)
}

// UpdateReminder prepares PUT /lembrete/{id}.
func UpdateReminder(id ID, in ReminderUpdate) (Request, error) {
	return prepare(EntityReminders, http.MethodPut, "/lembrete/"+url.PathEscape(string(id)), in)
}

// DeleteReminder prepares DELETE /lembrete/{id}.
func DeleteReminder(id ID) (Request, error) {
	return prepare(EntityReminders, http.MethodDelete, "/lembrete/"+url.PathEscape(string(id)), nil)
}

// MarkNotificationRead prepares the PUT that dismisses n.
func MarkNotificationRead(n Notification) (Request, error) {
	if n.Kind == NotifyReminder {
		return prepare(EntityNotifications, http.MethodPut, "/lembrete/"+url.PathEscape(string(n.ID)),
			map[string]bool{"notification": true})
	}
	return prepare(EntityNotifications, http.MethodPut, "/juros/clients/"+url.PathEscape(string(n.ID)), nil)
}
