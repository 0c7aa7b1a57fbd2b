// Package model holds the state the terminal UI renders that outlives any
// single page: the session, the report period, notification counts, queued
// mutations and the flash message.
package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/auth"
	"github.com/matheus3301/frigo/internal/bus"
	"github.com/matheus3301/frigo/internal/collection"
	"github.com/matheus3301/frigo/internal/config"
	"github.com/matheus3301/frigo/internal/format"
	"github.com/matheus3301/frigo/internal/notify"
	"github.com/matheus3301/frigo/internal/outbox"
	"github.com/matheus3301/frigo/internal/store"
	intsync "github.com/matheus3301/frigo/internal/sync"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"go.uber.org/zap"
)

// ErrBadRange is returned when a report period ends before it starts.
var ErrBadRange = errors.New("period ends before it starts")

// Deps are the services the view model drives.
type Deps struct {
	Profile    string
	Config     *config.Config
	ConfigPath string
	Auth       *auth.Service
	Client     *api.Client
	DB         *store.DB
	Bus        *bus.Bus
	Counter    *notify.Counter
	Logger     *zap.Logger
}

// ViewModel caches cross-page state fed by bus events and signals UI refreshes.
type ViewModel struct {
	deps   Deps
	logger *zap.Logger
	Flash  *ui.FlashModel

	mu      sync.RWMutex
	theme   string
	counts  api.Counts
	pending int
	from    time.Time
	to      time.Time
	dirty   map[string]bool

	refreshCh chan struct{}
}

// NewViewModel creates a view model. The report period starts as the
// current month.
func NewViewModel(d Deps) *ViewModel {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if d.Config == nil {
		d.Config = config.Defaults()
	}
	from, to := format.MonthRange(time.Now())
	vm := &ViewModel{
		deps:      d,
		logger:    logger.Named("tui"),
		Flash:     ui.NewFlashModel(),
		theme:     d.Config.Theme,
		from:      from,
		to:        to,
		dirty:     make(map[string]bool),
		refreshCh: make(chan struct{}, 1),
	}
	if d.DB != nil {
		if pending, err := d.DB.PendingOutbox(); err == nil {
			vm.pending = len(pending)
		}
	}
	return vm
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// Run consumes bus events until ctx is done.
func (vm *ViewModel) Run(ctx context.Context) {
	if vm.deps.Bus == nil {
		return
	}
	events, unsub := vm.deps.Bus.Subscribe(128, "list.", "mutation.", "notify.", "session.")
	defer unsub()
	dropped := vm.deps.Bus.Dropped()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			vm.handle(ctx, evt)
			if n := vm.deps.Bus.Dropped(); n != dropped {
				vm.logger.Warn("bus dropped events", zap.Uint64("total", n))
				dropped = n
			}
			vm.signalRefresh()
		}
	}
}

func (vm *ViewModel) handle(ctx context.Context, evt bus.Event) {
	switch evt.Kind {
	case bus.MutationQueued:
		vm.mu.Lock()
		vm.pending++
		vm.mu.Unlock()
	case bus.MutationApplied, bus.MutationFailed:
		m, ok := evt.Payload.(outbox.Mutation)
		if !ok {
			return
		}
		vm.mu.Lock()
		if vm.pending > 0 {
			vm.pending--
		}
		for _, e := range Affected(m.Entity) {
			vm.dirty[e] = true
		}
		vm.mu.Unlock()
		if evt.Kind == bus.MutationFailed {
			vm.Flash.Err(m.Err)
		} else {
			vm.Flash.Info(MutationMessage(m))
		}
		if vm.deps.Counter != nil && vm.Admin() {
			go func() { _ = vm.deps.Counter.Refresh(ctx) }()
		}
	case bus.NotifyCount:
		if c, ok := evt.Payload.(api.Counts); ok {
			vm.mu.Lock()
			vm.counts = c
			vm.mu.Unlock()
		}
	case bus.ListFailed:
		r, ok := evt.Payload.(intsync.Result)
		if !ok || r.Err == nil {
			return
		}
		var httpErr *api.HTTPError
		if errors.As(r.Err, &httpErr) && httpErr.Unauthorized() && vm.Session() != nil {
			vm.Flash.Warn("session expired, log in again")
			if err := vm.Logout(); err != nil {
				vm.logger.Warn("logout after 401 failed", zap.Error(err))
			}
			return
		}
		vm.Flash.Retry(fmt.Sprintf("%s: %s", r.Entity, api.UserMessage(r.Err)))
	}
}

// Affected lists the entities whose lists go stale when entity is mutated.
func Affected(entity string) []string {
	switch entity {
	case api.EntityPurchases:
		return []string{api.EntityPurchases, api.EntityClients}
	case api.EntityPayments:
		return []string{api.EntityPayments, api.EntityPurchases, api.EntityClients}
	case api.EntityReminders, api.EntityNotifications:
		return []string{api.EntityReminders, api.EntityNotifications}
	default:
		return []string{entity}
	}
}

var entityNouns = map[string]string{
	api.EntityClients:       "client",
	api.EntityProducts:      "product",
	api.EntityPurchases:     "purchase",
	api.EntityPayments:      "payment",
	api.EntityReminders:     "reminder",
	api.EntityNotifications: "notification",
}

// MutationMessage is the confirmation shown once m reached the backend.
func MutationMessage(m outbox.Mutation) string {
	noun := entityNouns[m.Entity]
	if noun == "" {
		noun = m.Entity
	}
	switch m.Method {
	case http.MethodPost:
		return noun + " created"
	case http.MethodPut:
		if m.Entity == api.EntityNotifications {
			return "notification marked as read"
		}
		return noun + " updated"
	case http.MethodDelete:
		return noun + " deleted"
	}
	return noun + " saved"
}

// TakeDirty returns the entities mutated since the last call and forgets them.
func (vm *ViewModel) TakeDirty() map[string]bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := vm.dirty
	vm.dirty = make(map[string]bool)
	return out
}

// Session returns the logged-in user, or nil.
func (vm *ViewModel) Session() *auth.Session {
	if vm.deps.Auth == nil {
		return nil
	}
	return vm.deps.Auth.Current()
}

// Admin reports whether the current session gets the admin portal.
func (vm *ViewModel) Admin() bool {
	s := vm.Session()
	return s != nil && s.Admin()
}

// Login authenticates and refreshes the badge for admins.
func (vm *ViewModel) Login(ctx context.Context, username, password string) (*auth.Session, error) {
	sess, err := vm.deps.Auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	vm.mu.Lock()
	vm.counts = api.Counts{}
	vm.mu.Unlock()
	if vm.deps.Counter != nil && sess.Admin() {
		go func() { _ = vm.deps.Counter.Refresh(ctx) }()
	}
	vm.signalRefresh()
	return sess, nil
}

// Logout forgets the session and its cached lists.
func (vm *ViewModel) Logout() error {
	if err := vm.deps.Auth.Logout(); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.counts = api.Counts{}
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// Counts returns the latest notification counters.
func (vm *ViewModel) Counts() api.Counts {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.counts
}

// Pending returns how many mutations are waiting in the outbox.
func (vm *ViewModel) Pending() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.pending
}

// Range returns the report period, both days inclusive.
func (vm *ViewModel) Range() (time.Time, time.Time) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.from, vm.to
}

// SetRange changes the report period.
func (vm *ViewModel) SetRange(from, to time.Time) error {
	if to.Before(from) {
		return ErrBadRange
	}
	vm.mu.Lock()
	vm.from, vm.to = from, to
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// RangeLabel renders the period as dd/mm/yyyy - dd/mm/yyyy.
func (vm *ViewModel) RangeLabel() string {
	from, to := vm.Range()
	return from.Format("02/01/2006") + " - " + to.Format("02/01/2006")
}

// PollInterval is how often open lists refetch; zero means once per visit.
func (vm *ViewModel) PollInterval() time.Duration {
	return vm.deps.Config.PollInterval.Duration
}

// Theme returns the active theme name.
func (vm *ViewModel) Theme() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.theme
}

// SetTheme switches the theme and persists the choice in config.toml.
func (vm *ViewModel) SetTheme(name string) error {
	if name != config.ThemeDark && name != config.ThemeLight {
		return fmt.Errorf("unknown theme %q", name)
	}
	vm.mu.Lock()
	vm.theme = name
	vm.mu.Unlock()
	if vm.deps.ConfigPath == "" {
		return nil
	}
	if err := config.Update(vm.deps.ConfigPath, func(c *config.Config) { c.Theme = name }); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// Header is what the profile panel shows.
func (vm *ViewModel) Header() ui.ProfileData {
	d := ui.ProfileData{
		Profile: vm.deps.Profile,
		Pending: vm.Pending(),
		Range:   vm.RangeLabel(),
	}
	if vm.deps.Client != nil {
		d.API = strings.TrimSuffix(vm.deps.Client.BaseURL(), "/")
	}
	if s := vm.Session(); s != nil {
		d.User = s.Name
		if d.User == "" {
			d.User = s.Username
		}
		d.Role = string(s.Role)
		if s.Admin() {
			d.Notifications = vm.Counts().Total()
		}
	}
	return d
}

// Submit queues r for the outbox sender.
func (vm *ViewModel) Submit(r api.Request) error {
	if _, err := outbox.Queue(vm.deps.DB, vm.deps.Bus, r); err != nil {
		return err
	}
	return nil
}

func newList[T collection.Record](vm *ViewModel, entity, key string, fetch intsync.Fetcher[T]) *intsync.Coordinator[T] {
	var cache intsync.Cache
	if vm.deps.DB != nil {
		cache = vm.deps.DB
	}
	return intsync.New(fetch, intsync.Options{
		Entity:   entity,
		CacheKey: key,
		Cache:    cache,
		Bus:      vm.deps.Bus,
		Logger:   vm.logger,
	})
}

// Clients returns a fresh coordinator for the client list.
func (vm *ViewModel) Clients() *intsync.Coordinator[api.Client] {
	return newList(vm, api.EntityClients, "clients", vm.deps.Client.Clients)
}

// Products returns a fresh coordinator for the catalogue.
func (vm *ViewModel) Products() *intsync.Coordinator[api.Product] {
	return newList(vm, api.EntityProducts, "products", vm.deps.Client.Products)
}

// Reminders returns a fresh coordinator for the reminder list.
func (vm *ViewModel) Reminders() *intsync.Coordinator[api.Reminder] {
	return newList(vm, api.EntityReminders, "reminders", vm.deps.Client.Reminders)
}

// Notifications returns a fresh coordinator for the merged notification list.
func (vm *ViewModel) Notifications() *intsync.Coordinator[api.Notification] {
	return newList(vm, api.EntityNotifications, "notifications", vm.deps.Client.Notifications)
}

func (vm *ViewModel) rangeKey(entity string) string {
	from, to := vm.Range()
	return entity + ":" + format.Day(from) + ":" + format.Day(to)
}

// PurchaseReport returns a coordinator for purchases in the current period.
func (vm *ViewModel) PurchaseReport() *intsync.Coordinator[api.Purchase] {
	from, to := vm.Range()
	return newList(vm, api.EntityPurchases, vm.rangeKey(api.EntityPurchases), func(ctx context.Context) ([]api.Purchase, error) {
		r, err := vm.deps.Client.PurchaseReport(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return r.Compras, nil
	})
}

// PaymentReport returns a coordinator for payments in the current period.
func (vm *ViewModel) PaymentReport() *intsync.Coordinator[api.Payment] {
	from, to := vm.Range()
	return newList(vm, api.EntityPayments, vm.rangeKey(api.EntityPayments), func(ctx context.Context) ([]api.Payment, error) {
		r, err := vm.deps.Client.PaymentReport(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return r.Pagamentos, nil
	})
}

// ClientPurchases returns a coordinator for one client's purchases.
func (vm *ViewModel) ClientPurchases(id api.ID) *intsync.Coordinator[api.Purchase] {
	return newList(vm, api.EntityPurchases, "clients/"+string(id)+"/purchases", func(ctx context.Context) ([]api.Purchase, error) {
		r, err := vm.deps.Client.ClientPurchases(ctx, id)
		if err != nil {
			return nil, err
		}
		return r.Compras, nil
	})
}

// CustomerPurchases returns a coordinator for the logged-in customer's own
// purchases.
func (vm *ViewModel) CustomerPurchases() *intsync.Coordinator[api.Purchase] {
	var id api.ID
	if s := vm.Session(); s != nil {
		id = s.ClientID
	}
	return newList(vm, api.EntityPurchases, "me/purchases", func(ctx context.Context) ([]api.Purchase, error) {
		if id == "" {
			return nil, auth.ErrNoSession
		}
		r, err := vm.deps.Client.CustomerPurchases(ctx, id)
		if err != nil {
			return nil, err
		}
		return r.Compras, nil
	})
}
