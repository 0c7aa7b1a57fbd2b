package views

import (
	"time"

	"github.com/matheus3301/frigo/internal/api"
	intsync "github.com/matheus3301/frigo/internal/sync"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/shopspring/decimal"
)

// ClientPurchases is the purchase list of one client.
type ClientPurchases struct {
	*List[api.Purchase]
	Client api.Client
}

// NewClientPurchases creates the list of c's purchases.
func NewClientPurchases(theme *ui.Theme, c api.Client, coord *intsync.Coordinator[api.Purchase], poll time.Duration) *ClientPurchases {
	spec := ClientPurchasesSpec()
	spec.Title = "Purchases of " + c.Nome
	return &ClientPurchases{
		List:   NewList(theme, spec, coord, poll),
		Client: c,
	}
}

// Outstanding is what the client still owes across the loaded purchases.
func (cp *ClientPurchases) Outstanding() decimal.Decimal {
	return Outstanding(cp.Items())
}
