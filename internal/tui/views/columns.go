package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/collection"
	"github.com/matheus3301/frigo/internal/format"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
	"github.com/shopspring/decimal"
)

// Page names. They double as key binding scopes.
const (
	PageLogin             = "Login"
	PageHome              = "Home"
	PageHelp              = "Help"
	PageClients           = "Clients"
	PageClient            = "Client"
	PageClientPurchases   = "Client purchases"
	PageProducts          = "Products"
	PagePurchases         = "Purchases"
	PagePayments          = "Payments"
	PageReminders         = "Reminders"
	PageNotifications     = "Notifications"
	PageCustomerPurchases = "My purchases"
	PageConfirm           = "Confirm"
)

func purchaseTotal(p api.Purchase) decimal.Decimal { return p.Total }
func paymentValue(p api.Payment) decimal.Decimal   { return p.Valor }

func purchaseStatus(p api.Purchase) string {
	switch {
	case p.Paid():
		return "paid"
	case bool(p.Vencida):
		return "overdue"
	}
	return "open"
}

func purchaseColor(p api.Purchase, t *ui.Theme) (tcell.Color, bool) {
	switch {
	case p.Paid():
		return t.PaidColor, true
	case bool(p.Vencida):
		return t.OverdueColor, true
	}
	return 0, false
}

// ClientsSpec lists clients.
func ClientsSpec() ListSpec[api.Client] {
	return ListSpec[api.Client]{
		Name:  PageClients,
		Empty: "no clients yet (n to add one)",
		Columns: []Column[api.Client]{
			{Title: "NAME", Expand: 2, Value: func(c api.Client) string { return c.Nome }},
			{Title: "REFERENCE", Expand: 1, Value: func(c api.Client) string { return orDash(c.Referencia) }},
			{Title: "PHONE", Value: func(c api.Client) string { return orDash(c.Telefone) }},
			{Title: "ADDRESS", Expand: 2, Value: func(c api.Client) string { return orDash(c.Endereco) }},
			{Title: "SINCE", Align: tview.AlignRight, Value: func(c api.Client) string { return format.DateBR(c.CreatedAt) }},
		},
	}
}

// ProductsSpec lists the catalogue.
func ProductsSpec() ListSpec[api.Product] {
	return ListSpec[api.Product]{
		Name:  PageProducts,
		Empty: "no products yet (n to add one)",
		Columns: []Column[api.Product]{
			{Title: "NAME", Expand: 2, Value: func(p api.Product) string { return p.Nome }},
			{Title: "DESCRIPTION", Expand: 3, Value: func(p api.Product) string { return orDash(p.Descricao) }},
			{Title: "CASH", Align: tview.AlignRight, Value: func(p api.Product) string { return format.BRL(p.PrecoAVista) }},
			{Title: "CREDIT", Align: tview.AlignRight, Value: func(p api.Product) string { return format.BRL(p.PrecoAPrazo) }},
		},
	}
}

func purchaseColumns(withClient bool) []Column[api.Purchase] {
	cols := []Column[api.Purchase]{
		{Title: "DATE", Value: func(p api.Purchase) string { return format.DateBR(p.DataDaCompra) }},
	}
	if withClient {
		cols = append(cols, Column[api.Purchase]{Title: "CLIENT", Expand: 2, Value: func(p api.Purchase) string { return orDash(p.ClientName()) }})
	}
	return append(cols,
		Column[api.Purchase]{Title: "DESCRIPTION", Expand: 3, Value: func(p api.Purchase) string { return p.Descricao }},
		Column[api.Purchase]{Title: "KIND", Value: func(p api.Purchase) string { return p.TipoLabel() }},
		Column[api.Purchase]{Title: "DUE", Value: func(p api.Purchase) string { return orDash(format.DateBR(p.DataVencimento)) }},
		Column[api.Purchase]{Title: "STATUS", Value: purchaseStatus, Color: purchaseColor},
		Column[api.Purchase]{Title: "TOTAL", Align: tview.AlignRight, Value: func(p api.Purchase) string { return format.BRL(p.Total) }},
	)
}

// PurchasesSpec lists purchases of every client in the report period.
func PurchasesSpec() ListSpec[api.Purchase] {
	return ListSpec[api.Purchase]{
		Name:    PagePurchases,
		Empty:   "no purchases in this period (:range to change it)",
		Total:   purchaseTotal,
		Columns: purchaseColumns(true),
	}
}

// ClientPurchasesSpec lists one client's purchases.
func ClientPurchasesSpec() ListSpec[api.Purchase] {
	return ListSpec[api.Purchase]{
		Name:    PageClientPurchases,
		Empty:   "no purchases (b to add one)",
		Total:   purchaseTotal,
		Columns: purchaseColumns(false),
	}
}

// CustomerPurchasesSpec lists the logged-in customer's purchases.
func CustomerPurchasesSpec() ListSpec[api.Purchase] {
	return ListSpec[api.Purchase]{
		Name:    PageCustomerPurchases,
		Empty:   "no purchases",
		Total:   purchaseTotal,
		Columns: purchaseColumns(false),
	}
}

// PaymentsSpec lists payments in the report period.
func PaymentsSpec() ListSpec[api.Payment] {
	return ListSpec[api.Payment]{
		Name:  PagePayments,
		Empty: "no payments in this period (:range to change it)",
		Total: paymentValue,
		Columns: []Column[api.Payment]{
			{Title: "DATE", Value: func(p api.Payment) string { return format.DateBR(p.CreatedAt) }},
			{Title: "CLIENT", Expand: 2, Value: func(p api.Payment) string { return orDash(p.ClientName()) }},
			{Title: "REFERENCE", Expand: 1, Value: func(p api.Payment) string {
				if p.Cliente == nil {
					return "-"
				}
				return orDash(p.Cliente.Referencia)
			}},
			{Title: "AMOUNT", Align: tview.AlignRight, Value: func(p api.Payment) string { return format.BRL(p.Valor) }},
		},
	}
}

// RemindersSpec lists reminders.
func RemindersSpec() ListSpec[api.Reminder] {
	return ListSpec[api.Reminder]{
		Name:  PageReminders,
		Empty: "no reminders (n to add one)",
		Columns: []Column[api.Reminder]{
			{Title: "DATE", Value: func(r api.Reminder) string { return format.DateBR(r.DataCadastro) }},
			{Title: "DESCRIPTION", Expand: 3, Value: func(r api.Reminder) string { return r.Descricao }},
			{Title: "NOTIFIED", Value: func(r api.Reminder) string {
				if r.Notification != 0 {
					return "yes"
				}
				return "no"
			}},
		},
	}
}

// NotificationsSpec lists overdue-interest clients and reminders due today.
func NotificationsSpec() ListSpec[api.Notification] {
	return ListSpec[api.Notification]{
		Name:  PageNotifications,
		Empty: "all caught up",
		Columns: []Column[api.Notification]{
			{Title: "KIND", Value: func(n api.Notification) string {
				if n.Kind == api.NotifyInterest {
					return "interest"
				}
				return "reminder"
			}, Color: func(n api.Notification, t *ui.Theme) (tcell.Color, bool) {
				if n.Kind == api.NotifyInterest {
					return t.OverdueColor, true
				}
				return t.CounterColor, true
			}},
			{Title: "TITLE", Expand: 2, Value: func(n api.Notification) string { return n.Title }},
			{Title: "DETAILS", Expand: 3, Value: func(n api.Notification) string { return orDash(n.Details) }},
			{Title: "DATE", Align: tview.AlignRight, Value: func(n api.Notification) string { return format.DateBR(n.Date) }},
		},
	}
}

// Outstanding sums what is still owed on the unpaid purchases.
func Outstanding(purchases []api.Purchase) decimal.Decimal {
	unpaid := make([]api.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if !p.Paid() {
			unpaid = append(unpaid, p)
		}
	}
	return collection.Sum(unpaid, func(p api.Purchase) decimal.Decimal { return p.Total })
}
