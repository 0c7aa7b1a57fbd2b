package tui

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/matheus3301/frigo/internal/format"
	"github.com/matheus3301/frigo/internal/tui/views"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// jumps maps command names and aliases to the page they open.
var jumps = map[string]string{
	"home":          views.PageHome,
	"clients":       views.PageClients,
	"cl":            views.PageClients,
	"products":      views.PageProducts,
	"pr":            views.PageProducts,
	"purchases":     views.PagePurchases,
	"pu":            views.PagePurchases,
	"payments":      views.PagePayments,
	"pa":            views.PagePayments,
	"reminders":     views.PageReminders,
	"re":            views.PageReminders,
	"notifications": views.PageNotifications,
	"no":            views.PageNotifications,
	"mine":          views.PageCustomerPurchases,
}

// JumpTarget returns the page a command opens, if it is a jump.
func JumpTarget(name string) (string, bool) {
	page, ok := jumps[strings.ToLower(name)]
	return page, ok
}

// actions are the commands that do something other than open a page.
var actions = []string{"quit", "help", "logout", "theme", "range"}

// CommandNames lists every full command name for completion. Two-letter
// aliases are left out.
func CommandNames() []string {
	names := append([]string(nil), actions...)
	for name := range jumps {
		if len(name) > 2 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ErrRangeUsage is returned for malformed :range arguments.
var ErrRangeUsage = errors.New("usage: :range <from> <to> | :range month")

// ParseRange reads the arguments of :range. "month" (or nothing) selects the
// month containing now; otherwise two dates in dd/mm/yyyy or yyyy-mm-dd.
func ParseRange(args string, now time.Time) (time.Time, time.Time, error) {
	fields := strings.Fields(args)
	switch {
	case len(fields) == 0 || (len(fields) == 1 && strings.EqualFold(fields[0], "month")):
		from, to := format.MonthRange(now)
		return from, to, nil
	case len(fields) != 2:
		return time.Time{}, time.Time{}, ErrRangeUsage
	}
	from, err := format.ParseDate(fields[0])
	if err != nil {
		return time.Time{}, time.Time{}, ErrRangeUsage
	}
	to, err := format.ParseDate(fields[1])
	if err != nil {
		return time.Time{}, time.Time{}, ErrRangeUsage
	}
	return from, to, nil
}
