package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/auth"
	"github.com/matheus3301/frigo/internal/collection"
	"github.com/matheus3301/frigo/internal/format"
	"github.com/shopspring/decimal"
)

type listArgs struct {
	entity string
	query  string
	from   time.Time
	to     time.Time
	json   bool
}

type column[T any] struct {
	title string
	value func(T) string
}

// lister fetches one entity and prints it.
type lister func(ctx context.Context, w io.Writer, sess *auth.Session, c *api.Client, a listArgs) error

var listers = map[string]lister{
	"clients": func(ctx context.Context, w io.Writer, _ *auth.Session, c *api.Client, a listArgs) error {
		items, err := c.Clients(ctx)
		if err != nil {
			return err
		}
		return render(w, items, a, clientColumns, nil)
	},
	"products": func(ctx context.Context, w io.Writer, _ *auth.Session, c *api.Client, a listArgs) error {
		items, err := c.Products(ctx)
		if err != nil {
			return err
		}
		return render(w, items, a, productColumns, nil)
	},
	"purchases": func(ctx context.Context, w io.Writer, _ *auth.Session, c *api.Client, a listArgs) error {
		r, err := c.PurchaseReport(ctx, a.from, a.to)
		if err != nil {
			return err
		}
		return render(w, r.Compras, a, purchaseColumns, purchaseTotal)
	},
	"payments": func(ctx context.Context, w io.Writer, _ *auth.Session, c *api.Client, a listArgs) error {
		r, err := c.PaymentReport(ctx, a.from, a.to)
		if err != nil {
			return err
		}
		return render(w, r.Pagamentos, a, paymentColumns, func(p api.Payment) decimal.Decimal { return p.Valor })
	},
	"reminders": func(ctx context.Context, w io.Writer, _ *auth.Session, c *api.Client, a listArgs) error {
		items, err := c.Reminders(ctx)
		if err != nil {
			return err
		}
		return render(w, items, a, reminderColumns, nil)
	},
	"notifications": func(ctx context.Context, w io.Writer, _ *auth.Session, c *api.Client, a listArgs) error {
		items, err := c.Notifications(ctx)
		if err != nil {
			return err
		}
		return render(w, items, a, notificationColumns, nil)
	},
	"mine": func(ctx context.Context, w io.Writer, sess *auth.Session, c *api.Client, a listArgs) error {
		if sess.ClientID == "" {
			return fmt.Errorf("%s is not linked to a client", sess.Username)
		}
		r, err := c.CustomerPurchases(ctx, sess.ClientID)
		if err != nil {
			return err
		}
		return render(w, r.Compras, a, purchaseColumns, purchaseTotal)
	},
}

func entityNames() []string {
	names := make([]string, 0, len(listers))
	for n := range listers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func cmdList(ctx context.Context, w io.Writer, svc *auth.Service, c *api.Client, a listArgs) error {
	list, ok := listers[a.entity]
	if !ok {
		return fmt.Errorf("unknown entity %q (want one of %s)", a.entity, strings.Join(entityNames(), ", "))
	}
	sess := svc.Current()
	if sess == nil {
		return auth.ErrNoSession
	}
	if a.entity != "mine" && !sess.Admin() {
		return fmt.Errorf("%s is only available to admins; try: frigoctl list mine", a.entity)
	}
	return list(ctx, w, sess, c, a)
}

func purchaseTotal(p api.Purchase) decimal.Decimal { return p.Total }

var clientColumns = []column[api.Client]{
	{"ID", func(c api.Client) string { return string(c.ID) }},
	{"NAME", func(c api.Client) string { return c.Nome }},
	{"REFERENCE", func(c api.Client) string { return c.Referencia }},
	{"PHONE", func(c api.Client) string { return c.Telefone }},
	{"USER", func(c api.Client) string { return c.Username() }},
}

var productColumns = []column[api.Product]{
	{"ID", func(p api.Product) string { return string(p.ID) }},
	{"NAME", func(p api.Product) string { return p.Nome }},
	{"CASH", func(p api.Product) string { return format.BRL(p.PrecoAVista) }},
	{"CREDIT", func(p api.Product) string { return format.BRL(p.PrecoAPrazo) }},
}

var purchaseColumns = []column[api.Purchase]{
	{"DATE", func(p api.Purchase) string { return format.DateBR(p.DataDaCompra) }},
	{"CLIENT", func(p api.Purchase) string { return p.ClientName() }},
	{"DESCRIPTION", func(p api.Purchase) string { return p.Descricao }},
	{"KIND", func(p api.Purchase) string { return p.TipoLabel() }},
	{"STATUS", func(p api.Purchase) string {
		switch {
		case p.Paid():
			return "paid"
		case bool(p.Vencida):
			return "overdue"
		}
		return "open"
	}},
	{"TOTAL", func(p api.Purchase) string { return format.BRL(p.Total) }},
}

var paymentColumns = []column[api.Payment]{
	{"DATE", func(p api.Payment) string { return format.DateBR(p.CreatedAt) }},
	{"CLIENT", func(p api.Payment) string { return p.ClientName() }},
	{"AMOUNT", func(p api.Payment) string { return format.BRL(p.Valor) }},
}

var reminderColumns = []column[api.Reminder]{
	{"ID", func(r api.Reminder) string { return string(r.ID) }},
	{"DATE", func(r api.Reminder) string { return format.DateBR(r.DataCadastro) }},
	{"DESCRIPTION", func(r api.Reminder) string { return r.Descricao }},
}

var notificationColumns = []column[api.Notification]{
	{"KIND", func(n api.Notification) string { return n.Kind }},
	{"TITLE", func(n api.Notification) string { return n.Title }},
	{"DETAILS", func(n api.Notification) string { return n.Details }},
	{"DATE", func(n api.Notification) string { return format.DateBR(n.Date) }},
}

type listOutput[T any] struct {
	Items []T    `json:"items"`
	Shown int    `json:"shown"`
	Size  int    `json:"size"`
	Total string `json:"total,omitempty"`
}

// render filters items by the query and prints them as a table or JSON.
func render[T collection.Record](w io.Writer, items []T, a listArgs, cols []column[T], total collection.Field[T]) error {
	v := collection.Project(items, a.query, total)

	if a.json {
		out := listOutput[T]{Items: v.Items, Shown: len(v.Items), Size: v.Size}
		if out.Items == nil {
			out.Items = []T{}
		}
		if total != nil {
			out.Total = v.Total.StringFixed(2)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	for _, it := range v.Items {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = oneLine(c.value(it))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary := fmt.Sprintf("%d of %d", len(v.Items), v.Size)
	if v.NoResults() {
		summary = fmt.Sprintf("no results for %q (%d total)", v.Query, v.Size)
	}
	if total != nil {
		summary += "  Total: " + format.BRL(v.Total)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

func oneLine(s string) string {
	s = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(strings.TrimSpace(s))
	if s == "" {
		return "-"
	}
	return s
}
