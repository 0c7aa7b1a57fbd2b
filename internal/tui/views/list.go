package views

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/collection"
	"github.com/matheus3301/frigo/internal/format"
	"github.com/matheus3301/frigo/internal/status"
	intsync "github.com/matheus3301/frigo/internal/sync"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
)

// Column renders one attribute of a record.
type Column[T any] struct {
	Title  string
	Align  int
	Expand int
	Value  func(T) string
	// Color overrides the foreground for a cell; nil uses the theme default.
	Color func(T, *ui.Theme) (tcell.Color, bool)
}

// ListSpec describes one entity list.
type ListSpec[T collection.Record] struct {
	Name string
	// Title replaces Name in the border when set.
	Title   string
	Columns []Column[T]
	// Total is summed over the visible rows; nil hides the footer total.
	Total collection.Field[T]
	// Empty is shown when the backend returned nothing.
	Empty string
}

// List is the table every entity page uses: rows from a coordinator,
// narrowed by the filter prompt, with the total of the visible rows below.
type List[T collection.Record] struct {
	*tview.Flex
	table  *tview.Table
	footer *StatusBar
	theme  *ui.Theme
	spec   ListSpec[T]
	coord  *intsync.Coordinator[T]
	poll   time.Duration

	query    string
	view     collection.View[T]
	onSelect func(T)

	ctx    context.Context
	cancel context.CancelFunc
}

// NewList creates a list over coord. Nothing is fetched until Start.
func NewList[T collection.Record](theme *ui.Theme, spec ListSpec[T], coord *intsync.Coordinator[T], poll time.Duration) *List[T] {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)

	l := &List[T]{
		Flex:   tview.NewFlex().SetDirection(tview.FlexRow),
		table:  table,
		footer: NewStatusBar(theme),
		theme:  theme,
		spec:   spec,
		coord:  coord,
		poll:   poll,
	}
	l.AddItem(table, 0, 1, true)
	l.AddItem(l.footer, 1, 0, false)

	table.SetSelectedFunc(func(row, _ int) {
		if l.onSelect == nil {
			return
		}
		if rec, ok := l.at(row); ok {
			l.onSelect(rec)
		}
	})
	return l
}

// Name implements ui.Component.
func (l *List[T]) Name() string { return l.spec.Name }

// Start restores the cached copy and begins fetching.
func (l *List[T]) Start() {
	l.ctx, l.cancel = context.WithCancel(context.Background())
	_, _ = l.coord.Restore()
	l.Render()
	go l.coord.Poll(l.ctx, l.poll)
}

// Stop cancels in-flight fetches; late results are dropped.
func (l *List[T]) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	l.coord.Close()
}

// Hints implements ui.Component. Bindings come from the app's registry.
func (l *List[T]) Hints() []ui.MenuHint { return nil }

// Entity names the backend collection behind the list.
func (l *List[T]) Entity() string { return l.coord.Entity() }

// Refresh refetches in the background.
func (l *List[T]) Refresh() {
	if l.ctx == nil {
		return
	}
	go func() { _ = l.coord.Refresh(l.ctx) }()
}

// SetOnSelect sets the callback for Enter on a row.
func (l *List[T]) SetOnSelect(fn func(T)) {
	l.onSelect = fn
}

// SetFilter narrows the rows to those matching query.
func (l *List[T]) SetFilter(query string) {
	l.query = query
	l.Render()
	l.table.ScrollToBeginning()
	l.table.Select(1, 0)
}

// Filter returns the active query.
func (l *List[T]) Filter() string { return l.query }

// Items returns the whole collection, unfiltered.
func (l *List[T]) Items() []T { return l.coord.Items() }

// Visible returns the projection currently drawn.
func (l *List[T]) Visible() collection.View[T] { return l.view }

// Selected returns the record under the cursor.
func (l *List[T]) Selected() (T, bool) {
	row, _ := l.table.GetSelection()
	return l.at(row)
}

func (l *List[T]) at(row int) (T, bool) {
	idx := row - 1
	if idx < 0 || idx >= len(l.view.Items) {
		var zero T
		return zero, false
	}
	return l.view.Items[idx], true
}

// Render recomputes the projection and redraws. UI goroutine only.
func (l *List[T]) Render() {
	var keep string
	if rec, ok := l.Selected(); ok {
		keep = rec.RecordID()
	}

	l.view = l.coord.View(l.query, l.spec.Total)
	snap := l.coord.Snapshot()

	styleBox(l.table.Box, l.theme, l.title())
	l.table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(l.theme.TableCursorFg).
		Background(l.theme.TableCursorBg))
	l.table.Clear()

	for col, c := range l.spec.Columns {
		l.table.SetCell(0, col, headerCell(l.theme, c.Title, c.Align, c.Expand))
	}

	if len(l.view.Items) == 0 {
		msg := l.emptyMessage(snap)
		l.table.SetCell(1, 0, tview.NewTableCell(" "+msg).
			SetSelectable(false).
			SetTextColor(l.theme.MutedColor))
	}

	selected := 1
	for i, rec := range l.view.Items {
		row := i + 1
		for col, c := range l.spec.Columns {
			color := l.theme.FgColor
			if c.Color != nil {
				if fg, ok := c.Color(rec, l.theme); ok {
					color = fg
				}
			}
			l.table.SetCell(row, col, textCell(c.Value(rec), color, c.Align, c.Expand))
		}
		if keep != "" && rec.RecordID() == keep {
			selected = row
		}
	}
	if len(l.view.Items) > 0 {
		l.table.Select(selected, 0)
	}

	line := StatusLine{
		State:     snap.State,
		FetchedAt: snap.FetchedAt,
		FromCache: snap.FromCache,
		Shown:     len(l.view.Items),
		Size:      l.view.Size,
	}
	if l.spec.Total != nil {
		line.Total = format.BRL(l.view.Total)
	}
	l.footer.Update(line)
}

func (l *List[T]) title() string {
	name := l.spec.Name
	if l.spec.Title != "" {
		name = clean(l.spec.Title)
	}
	if l.view.Filtered() {
		return fmt.Sprintf(" %s (%d/%d) ", name, len(l.view.Items), l.view.Size)
	}
	return fmt.Sprintf(" %s (%d) ", name, l.view.Size)
}

func (l *List[T]) emptyMessage(snap intsync.Snapshot) string {
	switch {
	case l.view.NoResults():
		return fmt.Sprintf("no results for \"%s\"", clean(l.query))
	case snap.State == status.Error && snap.Size == 0 && snap.Err != nil:
		return "could not load: " + clean(api.UserMessage(snap.Err)) + " (r to retry)"
	case snap.State == status.Idle || snap.State == status.Loading:
		return "loading..."
	}
	if l.spec.Empty != "" {
		return l.spec.Empty
	}
	return "nothing here yet"
}
