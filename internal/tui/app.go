// Package tui is the terminal front-end: a stack of pages over the backend
// lists, with a k9s-style header, command and filter prompt, and flash bar.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/auth"
	"github.com/matheus3301/frigo/internal/tui/keys"
	"github.com/matheus3301/frigo/internal/tui/model"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/matheus3301/frigo/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const lookupTimeout = 15 * time.Second

// adminPages are refused to customer sessions.
var adminPages = map[string]bool{
	views.PageClients:       true,
	views.PageProducts:      true,
	views.PagePurchases:     true,
	views.PagePayments:      true,
	views.PageReminders:     true,
	views.PageNotifications: true,
}

// entityView is a page backed by one backend collection.
type entityView interface {
	ui.Component
	Entity() string
	Refresh()
}

// App is the main TUI application shell.
type App struct {
	app    *tview.Application
	theme  *ui.Theme
	vm     *model.ViewModel
	client *api.Client
	logger *zap.Logger

	registry *keys.Registry
	pages    *ui.Pages
	root     *tview.Flex
	header   *tview.Flex
	logo     *ui.Logo
	info     *ui.ProfileInfo
	menu     *ui.Menu
	crumbs   *ui.Crumbs
	prompt   *ui.Prompt
	flash    *ui.FlashBar

	promptOn bool
	session  *auth.Session

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(vm *model.ViewModel, client *api.Client, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.ThemeFor(vm.Theme())
	theme.Apply()

	a := &App{
		app:      tview.NewApplication(),
		theme:    theme,
		vm:       vm,
		client:   client,
		logger:   logger.Named("tui"),
		registry: keys.NewRegistry(),
		pages:    ui.NewPages(),
		logo:     ui.NewLogo(theme),
		info:     ui.NewProfileInfo(theme),
		menu:     ui.NewMenu(theme),
		crumbs:   ui.NewCrumbs(theme),
		prompt:   ui.NewPrompt(theme),
		flash:    ui.NewFlashBar(theme),
		ctx:      ctx,
		cancel:   cancel,
	}

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func (a *App) setupBindings() {
	r := a.registry
	r.AddGlobal(keys.Rune(':', "Command", func() { a.activatePrompt(ui.PromptCommand) }))
	r.AddGlobal(keys.Rune('/', "Filter", func() {
		if _, ok := a.pages.Current().(ui.Filterable); ok {
			a.activatePrompt(ui.PromptFilter)
		}
	}))
	r.AddGlobal(keys.Rune('r', "Refresh", a.refreshCurrent))
	r.AddGlobal(keys.Rune('t', "Theme", func() { a.switchTheme("") }))
	r.AddGlobal(keys.Rune('?', "Help", func() { a.open(views.PageHelp) }))
	r.AddGlobal(keys.Rune('q', "Back/Quit", a.back))
	esc := keys.Key(tcell.KeyEscape, "Esc", "Back", a.escape)
	esc.Visible = false
	r.AddGlobal(esc)

	for _, page := range []string{views.PageClients, views.PageClient} {
		r.AddView(page, keys.Rune('n', "New", func() { a.pushForm(views.ClientForm(nil)) }))
		r.AddView(page, keys.Rune('e', "Edit", a.editClient))
		r.AddView(page, keys.Rune('c', "Purchases", a.clientAction(a.openClientPurchases)))
		r.AddView(page, keys.Rune('b', "Buy", a.clientAction(a.newPurchase)))
		r.AddView(page, keys.Rune('p', "Payment", a.clientAction(a.newPayment)))
		r.AddView(page, dangerous(keys.Rune('d', "Delete", a.deleteClient)))
	}

	r.AddView(views.PageClientPurchases, keys.Rune('b', "Buy", a.clientAction(a.newPurchase)))
	r.AddView(views.PageClientPurchases, keys.Rune('p', "Payment", a.clientAction(a.newPayment)))
	for _, page := range []string{views.PageClientPurchases, views.PagePurchases} {
		r.AddView(page, dangerous(keys.Rune('d', "Delete", a.deletePurchase)))
	}

	r.AddView(views.PageProducts, keys.Rune('n', "New", func() { a.pushForm(views.ProductForm(nil)) }))
	r.AddView(views.PageProducts, keys.Rune('e', "Edit", a.editProduct))
	r.AddView(views.PageProducts, dangerous(keys.Rune('d', "Delete", a.deleteProduct)))

	r.AddView(views.PageReminders, keys.Rune('n', "New", func() { a.pushForm(views.ReminderForm(nil, time.Now())) }))
	r.AddView(views.PageReminders, keys.Rune('e', "Edit", a.editReminder))
	r.AddView(views.PageReminders, dangerous(keys.Rune('d', "Delete", a.deleteReminder)))

	r.AddView(views.PageNotifications, keys.Rune('m', "Mark read", a.markRead))
}

func dangerous(act *keys.Action) *keys.Action {
	act.Danger = true
	return act
}

func (a *App) setupCallbacks() {
	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack)
		cur := a.pages.Current()
		if cur == nil {
			return
		}
		filter := ""
		if f, ok := cur.(ui.Filterable); ok {
			filter = f.Filter()
		}
		a.crumbs.SetFilter(filter)
		a.menu.Update(append(cur.Hints(), a.registry.Hints(cur.Name())...))
		if ev, ok := cur.(entityView); ok {
			if r, ok := ev.(ui.Renderer); ok {
				r.Render()
			}
		}
		a.app.SetFocus(cur)
	})

	a.prompt.SetCompletions(CommandNames())
	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode != ui.PromptFilter {
			return
		}
		if f, ok := a.pages.Current().(ui.Filterable); ok {
			f.SetFilter(text)
			a.crumbs.SetFilter(text)
		}
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.closePrompt()
		if mode == ui.PromptCommand {
			a.runCommand(text)
		}
	})
	a.prompt.SetOnCancel(func(mode ui.PromptMode) {
		if mode == ui.PromptFilter {
			a.setFilter("")
		}
		a.closePrompt()
	})
}

func (a *App) setupLayout() {
	a.header = tview.NewFlex().
		AddItem(a.info, 50, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(a.logo, 16, 0, false)
	a.root = tview.NewFlex().SetDirection(tview.FlexRow)
	a.layout()
	a.app.SetRoot(a.root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.promptOn {
			return event
		}
		cur := a.pages.Current()
		if cur == nil {
			return event
		}
		// Forms and dialogs own every key, Esc included.
		switch cur.(type) {
		case *views.FormView, *views.LoginView, *views.Confirm:
			return event
		}
		if a.registry.HandleEvent(cur.Name(), event) {
			return nil
		}
		return event
	})
}

func (a *App) layout() {
	a.root.Clear()
	a.root.SetBackgroundColor(a.theme.BgColor)
	a.header.SetBackgroundColor(a.theme.BgColor)
	a.root.AddItem(a.header, 6, 0, false)
	if a.promptOn {
		a.root.AddItem(a.prompt, 3, 0, true)
	}
	a.root.AddItem(a.pages, 0, 1, !a.promptOn)
	a.root.AddItem(a.crumbs, 1, 0, false)
	a.root.AddItem(a.flash, 1, 0, false)
}

func (a *App) activatePrompt(mode ui.PromptMode) {
	text := ""
	if f, ok := a.pages.Current().(ui.Filterable); ok && mode == ui.PromptFilter {
		text = f.Filter()
	}
	a.prompt.Activate(mode, text)
	a.promptOn = true
	a.layout()
	a.app.SetFocus(a.prompt)
}

func (a *App) closePrompt() {
	a.promptOn = false
	a.layout()
	if cur := a.pages.Current(); cur != nil {
		a.app.SetFocus(cur)
	}
}

func (a *App) setFilter(query string) {
	if f, ok := a.pages.Current().(ui.Filterable); ok {
		f.SetFilter(query)
	}
	a.crumbs.SetFilter(query)
}

// Run shows the login or home page and blocks until the user quits.
func (a *App) Run() error {
	go a.vm.Run(a.ctx)
	go a.refreshLoop()
	a.applySession()
	a.info.Update(a.vm.Header())
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

func (a *App) refreshLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.vm.RefreshCh():
			a.app.QueueUpdateDraw(a.sync)
		case <-a.vm.Flash.Watch():
			a.app.QueueUpdateDraw(a.drawFlash)
		case <-ticker.C:
			a.app.QueueUpdateDraw(a.drawFlash)
		case <-a.ctx.Done():
			return
		}
	}
}

// sync pulls shared state into the widgets. UI goroutine only.
func (a *App) sync() {
	a.applySession()
	a.info.Update(a.vm.Header())

	dirty := a.vm.TakeDirty()
	counts := a.vm.Counts()
	for _, c := range a.pages.Components() {
		switch v := c.(type) {
		case *views.Home:
			v.SetCounts(counts)
		case entityView:
			if dirty[v.Entity()] {
				v.Refresh()
			}
		}
	}
	if ev, ok := a.pages.Current().(entityView); ok {
		if r, ok := ev.(ui.Renderer); ok {
			r.Render()
		}
	}
	a.drawFlash()
}

func (a *App) drawFlash() {
	a.flash.Update(a.vm.Flash.Current())
}

// applySession shows the login page when logged out and home after login.
func (a *App) applySession() {
	sess := a.vm.Session()
	if sess == a.session && a.pages.Depth() > 0 {
		return
	}
	a.session = sess
	if sess == nil {
		a.logo.SetPortal("")
		a.pages.Reset(a.newLogin())
		return
	}
	if sess.Admin() {
		a.logo.SetPortal("admin")
	} else {
		a.logo.SetPortal("cliente")
	}
	a.logger.Info("session ready", zap.String("role", string(sess.Role)))
	a.pages.Reset(a.newHome(sess))
}

func (a *App) newLogin() *views.LoginView {
	lv := views.NewLoginView(a.theme, a.client.BaseURL())
	lv.SetOnSubmit(func(username, password string) {
		lv.SetBusy(true)
		go func() {
			ctx, cancel := context.WithTimeout(a.ctx, lookupTimeout)
			defer cancel()
			_, err := a.vm.Login(ctx, username, password)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					lv.SetError(loginMessage(err))
					return
				}
				a.applySession()
			})
		}()
	})
	return lv
}

func loginMessage(err error) string {
	var httpErr *api.HTTPError
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return err.Error()
	case errors.As(err, &httpErr) && (httpErr.Unauthorized() || httpErr.StatusCode == 400):
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return "invalid username or password"
	}
	return api.UserMessage(err)
}

func (a *App) newHome(sess *auth.Session) *views.Home {
	entries := views.CustomerEntries()
	if sess.Admin() {
		entries = views.AdminEntries()
	}
	name := sess.Name
	if name == "" {
		name = sess.Username
	}
	h := views.NewHome(a.theme, name, entries)
	h.SetCounts(a.vm.Counts())
	h.SetOnOpen(a.open)
	return h
}

func (a *App) back() {
	if a.pages.Depth() > 1 {
		a.pages.Pop()
		return
	}
	a.Stop()
}

func (a *App) escape() {
	if f, ok := a.pages.Current().(ui.Filterable); ok && f.Filter() != "" {
		a.setFilter("")
		return
	}
	a.pages.Pop()
}

func (a *App) refreshCurrent() {
	if r, ok := a.pages.Current().(ui.Refreshable); ok {
		r.Refresh()
	}
}

func (a *App) popToRoot() {
	for a.pages.Depth() > 1 {
		a.pages.Pop()
	}
}

// open shows page. Lists replace whatever is above home; help stacks.
func (a *App) open(page string) {
	if a.vm.Session() == nil {
		return
	}
	if adminPages[page] && !a.vm.Admin() {
		a.vm.Flash.Warn(page + " is not available for your account")
		a.drawFlash()
		return
	}
	if page == views.PageCustomerPurchases && a.vm.Admin() {
		a.vm.Flash.Warn("only customers have their own purchases")
		a.drawFlash()
		return
	}

	poll := a.vm.PollInterval()
	var c ui.Component
	switch page {
	case views.PageHome:
		a.popToRoot()
		return
	case views.PageHelp:
		if a.pages.Current() != nil && a.pages.Current().Name() == views.PageHelp {
			return
		}
		a.pages.Push(views.NewHelpView(a.theme, a.vm.Admin()))
		return
	case views.PageClients:
		l := views.NewList(a.theme, views.ClientsSpec(), a.vm.Clients(), poll)
		l.SetOnSelect(a.openClient)
		c = l
	case views.PageProducts:
		c = views.NewList(a.theme, views.ProductsSpec(), a.vm.Products(), poll)
	case views.PagePurchases:
		spec := views.PurchasesSpec()
		spec.Title = "Purchases " + a.vm.RangeLabel()
		l := views.NewList(a.theme, spec, a.vm.PurchaseReport(), poll)
		l.SetOnSelect(func(p api.Purchase) { a.openClientPurchases(purchaseClient(p)) })
		c = l
	case views.PagePayments:
		spec := views.PaymentsSpec()
		spec.Title = "Payments " + a.vm.RangeLabel()
		l := views.NewList(a.theme, spec, a.vm.PaymentReport(), poll)
		l.SetOnSelect(func(p api.Payment) { a.openClientPurchases(paymentClient(p)) })
		c = l
	case views.PageReminders:
		c = views.NewList(a.theme, views.RemindersSpec(), a.vm.Reminders(), poll)
	case views.PageNotifications:
		l := views.NewList(a.theme, views.NotificationsSpec(), a.vm.Notifications(), poll)
		l.SetOnSelect(func(api.Notification) { a.markRead() })
		c = l
	case views.PageCustomerPurchases:
		c = views.NewList(a.theme, views.CustomerPurchasesSpec(), a.vm.CustomerPurchases(), poll)
	default:
		a.vm.Flash.Warn("unknown page " + page)
		a.drawFlash()
		return
	}
	a.logger.Debug("open page", zap.String("page", page))
	a.popToRoot()
	a.pages.Push(c)
}

func purchaseClient(p api.Purchase) api.Client {
	c := api.Client{ID: p.ClienteID, Nome: p.ClientName()}
	if p.Cliente != nil {
		c.Referencia = p.Cliente.Referencia
	}
	return c
}

func paymentClient(p api.Payment) api.Client {
	c := api.Client{ID: p.ClienteID, Nome: p.ClientName()}
	if p.Cliente != nil {
		c.Referencia = p.Cliente.Referencia
	}
	return c
}

func (a *App) openClient(c api.Client) {
	a.pages.Push(views.NewClientDetail(a.theme, c, a.client.ClientByID, func(fn func()) {
		a.app.QueueUpdateDraw(fn)
	}))
}

func (a *App) openClientPurchases(c api.Client) {
	if cur, ok := a.pages.Current().(*views.ClientPurchases); ok && cur.Client.ID == c.ID {
		return
	}
	a.pages.Push(views.NewClientPurchases(a.theme, c, a.vm.ClientPurchases(c.ID), a.vm.PollInterval()))
}

// currentClient returns the client the current page is about.
func (a *App) currentClient() (api.Client, bool) {
	switch c := a.pages.Current().(type) {
	case *views.List[api.Client]:
		return c.Selected()
	case *views.ClientDetail:
		return c.Client(), true
	case *views.ClientPurchases:
		return c.Client, true
	}
	return api.Client{}, false
}

func (a *App) clientAction(fn func(api.Client)) func() {
	return func() {
		if c, ok := a.currentClient(); ok {
			fn(c)
		}
	}
}

func (a *App) pushForm(spec views.FormSpec) {
	fv := views.NewFormView(a.theme, spec)
	fv.SetOnCancel(func() { a.pages.Pop() })
	fv.SetOnDone(func(r api.Request) {
		if a.submit(r) {
			a.pages.Pop()
		}
	})
	a.pages.Push(fv)
}

// submit queues r and reports whether it was accepted.
func (a *App) submit(r api.Request) bool {
	if err := a.vm.Submit(r); err != nil {
		a.logger.Error("queue mutation", zap.Error(err))
		a.vm.Flash.Err(err.Error())
		a.drawFlash()
		return false
	}
	a.vm.Flash.Info("saving...")
	a.drawFlash()
	return true
}

func (a *App) confirm(text string, build func() (api.Request, error), after func()) {
	a.pages.Push(views.NewConfirm(a.theme, text,
		func() {
			a.pages.Pop()
			r, err := build()
			if err != nil {
				a.vm.Flash.Err(err.Error())
				a.drawFlash()
				return
			}
			if a.submit(r) && after != nil {
				after()
			}
		},
		func() { a.pages.Pop() },
	))
}

func (a *App) editClient() {
	if c, ok := a.currentClient(); ok {
		a.pushForm(views.ClientForm(&c))
	}
}

func (a *App) deleteClient() {
	c, ok := a.currentClient()
	if !ok {
		return
	}
	_, onDetail := a.pages.Current().(*views.ClientDetail)
	a.confirm(fmt.Sprintf("Delete client %s and everything linked to them?", c.Nome),
		func() (api.Request, error) { return api.DeleteClient(c.ID) },
		func() {
			if onDetail {
				a.pages.Pop()
			}
		})
}

func (a *App) newPurchase(c api.Client) {
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, lookupTimeout)
		defer cancel()
		products, err := a.client.Products(ctx)
		if err != nil {
			a.logger.Warn("load products for purchase form", zap.Error(err))
			a.vm.Flash.Warn("could not load products: " + api.UserMessage(err))
		}
		a.app.QueueUpdateDraw(func() {
			a.pushForm(views.PurchaseForm(c, products, time.Now()))
		})
	}()
}

func (a *App) newPayment(c api.Client) {
	if cp, ok := a.pages.Current().(*views.ClientPurchases); ok && len(cp.Items()) > 0 {
		a.pushForm(views.PaymentForm(c, cp.Outstanding()))
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, lookupTimeout)
		defer cancel()
		report, err := a.client.ClientPurchases(ctx, c.ID)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.vm.Flash.Err("could not load purchases: " + api.UserMessage(err))
				a.drawFlash()
				return
			}
			a.pushForm(views.PaymentForm(c, views.Outstanding(report.Compras)))
		})
	}()
}

func (a *App) deletePurchase() {
	var (
		p  api.Purchase
		ok bool
	)
	switch l := a.pages.Current().(type) {
	case *views.ClientPurchases:
		p, ok = l.Selected()
	case *views.List[api.Purchase]:
		p, ok = l.Selected()
	}
	if !ok {
		return
	}
	a.confirm(fmt.Sprintf("Delete purchase %q?", p.Descricao),
		func() (api.Request, error) { return api.DeletePurchase(p.ID) }, nil)
}

func (a *App) editProduct() {
	if l, ok := a.pages.Current().(*views.List[api.Product]); ok {
		if p, ok := l.Selected(); ok {
			latest(a, p, func(ctx context.Context) (*api.Product, error) { return a.client.ProductByID(ctx, p.ID) },
				func(p api.Product) { a.pushForm(views.ProductForm(&p)) })
		}
	}
}

// latest refetches a record before editing it. The listed copy is used when
// the backend cannot be reached.
func latest[T any](a *App, listed T, fetch func(ctx context.Context) (*T, error), then func(T)) {
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, lookupTimeout)
		defer cancel()
		rec, err := fetch(ctx)
		if err != nil || rec == nil {
			a.logger.Warn("refetch before edit", zap.Error(err))
			rec = &listed
		}
		a.app.QueueUpdateDraw(func() { then(*rec) })
	}()
}

func (a *App) deleteProduct() {
	if l, ok := a.pages.Current().(*views.List[api.Product]); ok {
		if p, ok := l.Selected(); ok {
			a.confirm(fmt.Sprintf("Delete product %s?", p.Nome),
				func() (api.Request, error) { return api.DeleteProduct(p.ID) }, nil)
		}
	}
}

func (a *App) editReminder() {
	if l, ok := a.pages.Current().(*views.List[api.Reminder]); ok {
		if r, ok := l.Selected(); ok {
			latest(a, r, func(ctx context.Context) (*api.Reminder, error) { return a.client.ReminderByID(ctx, r.ID) },
				func(r api.Reminder) { a.pushForm(views.ReminderForm(&r, time.Now())) })
		}
	}
}

func (a *App) deleteReminder() {
	if l, ok := a.pages.Current().(*views.List[api.Reminder]); ok {
		if r, ok := l.Selected(); ok {
			a.confirm(fmt.Sprintf("Delete reminder %q?", r.Descricao),
				func() (api.Request, error) { return api.DeleteReminder(r.ID) }, nil)
		}
	}
}

func (a *App) markRead() {
	l, ok := a.pages.Current().(*views.List[api.Notification])
	if !ok {
		return
	}
	n, ok := l.Selected()
	if !ok {
		return
	}
	r, err := api.MarkNotificationRead(n)
	if err != nil {
		a.vm.Flash.Err(err.Error())
		a.drawFlash()
		return
	}
	a.submit(r)
}

func (a *App) switchTheme(name string) {
	if name == "" {
		name = a.theme.Other()
	}
	if name != "dark" && name != "light" {
		a.vm.Flash.Warn("usage: :theme [dark|light]")
		a.drawFlash()
		return
	}
	if err := a.vm.SetTheme(name); err != nil {
		a.logger.Warn("persist theme", zap.Error(err))
		a.vm.Flash.Warn("theme not saved: " + err.Error())
	} else {
		a.vm.Flash.Info("theme: " + name)
	}
	*a.theme = *ui.ThemeFor(name)
	a.theme.Apply()
	a.restyle()
}

func (a *App) restyle() {
	a.logo.Render()
	a.info.Render()
	a.menu.Render()
	a.crumbs.Render()
	a.prompt.Render()
	a.layout()
	for _, c := range a.pages.Components() {
		if r, ok := c.(ui.Renderer); ok {
			r.Render()
		}
	}
	a.drawFlash()
}

func (a *App) runCommand(text string) {
	cmd := ParseCommand(text)
	if cmd.Name == "" {
		return
	}
	if page, ok := JumpTarget(cmd.Name); ok {
		a.open(page)
		return
	}
	switch cmd.Name {
	case "q", "quit":
		a.Stop()
	case "h", "help":
		a.open(views.PageHelp)
	case "logout":
		if err := a.vm.Logout(); err != nil {
			a.vm.Flash.Err(err.Error())
		}
		a.applySession()
	case "theme":
		a.switchTheme(cmd.Args)
	case "range":
		a.setRange(cmd.Args)
	default:
		a.vm.Flash.Warn("unknown command: " + cmd.Name)
	}
	a.drawFlash()
}

func (a *App) setRange(args string) {
	from, to, err := ParseRange(args, time.Now())
	if err == nil {
		err = a.vm.SetRange(from, to)
	}
	if err != nil {
		a.vm.Flash.Warn(err.Error())
		return
	}
	a.vm.Flash.Info("period: " + a.vm.RangeLabel())
	a.info.Update(a.vm.Header())
	if cur := a.pages.Current(); cur != nil {
		switch cur.Name() {
		case views.PagePurchases, views.PagePayments:
			a.open(cur.Name())
		}
	}
}
