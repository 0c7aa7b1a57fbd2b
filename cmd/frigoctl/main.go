package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/app"
	"github.com/matheus3301/frigo/internal/auth"
	"github.com/matheus3301/frigo/internal/format"
	"github.com/matheus3301/frigo/internal/lock"
	"github.com/matheus3301/frigo/internal/profile"
	"github.com/matheus3301/frigo/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	configFlag := flag.String("config", "", "config file (default ~/.frigo/config.toml)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	fromFlag := flag.String("from", "", "report start date (dd/mm/yyyy), default first day of this month")
	toFlag := flag.String("to", "", "report end date (dd/mm/yyyy), default last day of this month")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if args[0] == "profiles" {
		cmdProfiles(*jsonFlag)
		return
	}

	var (
		svc    *auth.Service
		client *api.Client
		db     *store.DB
	)
	container := app.New(app.Params{
		Profile:    *profileFlag,
		ConfigPath: *configFlag,
		Console:    os.Stderr,
		LogLevel:   zapcore.WarnLevel,
	}, fx.Populate(&svc, &client, &db))
	if err := container.Err(); err != nil {
		fatal(err)
	}
	if err := container.Start(context.Background()); err != nil {
		fatal(err)
	}
	defer func() { _ = container.Stop(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch args[0] {
	case "login":
		err = cmdLogin(ctx, svc, args[1:], *jsonFlag)
	case "logout":
		err = svc.Logout()
	case "whoami":
		err = cmdWhoami(svc, *jsonFlag)
	case "counts":
		err = cmdCounts(ctx, svc, client, *jsonFlag)
	case "list":
		if len(args) < 2 {
			err = errors.New("usage: frigoctl list <entity> [query]")
			break
		}
		var r reportRange
		if r, err = parseRange(*fromFlag, *toFlag, time.Now()); err != nil {
			break
		}
		err = cmdList(ctx, os.Stdout, svc, client, listArgs{
			entity: args[1],
			query:  strings.Join(args[2:], " "),
			from:   r.from,
			to:     r.to,
			json:   *jsonFlag,
		})
	case "show":
		if len(args) != 3 {
			err = errors.New("usage: frigoctl show <entity> <id>")
			break
		}
		if sess := svc.Current(); sess == nil {
			err = auth.ErrNoSession
			break
		} else if !sess.Admin() {
			err = errors.New("show is only available to admins")
			break
		}
		err = cmdShow(ctx, os.Stdout, client, args[1], args[2], *jsonFlag)
	case "outbox":
		err = cmdOutbox(os.Stdout, db, 20, *jsonFlag)
	default:
		printUsage()
		err = fmt.Errorf("unknown command: %s", args[0])
	}
	if err != nil {
		_ = container.Stop(context.Background())
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: frigoctl [--profile <name>] [--json] [--from d] [--to d] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login [username]        Log in (password read from the terminal or stdin)")
	fmt.Fprintln(os.Stderr, "  logout                  Forget the session and cached lists")
	fmt.Fprintln(os.Stderr, "  whoami                  Show the logged-in user")
	fmt.Fprintln(os.Stderr, "  counts                  Show notification counters")
	fmt.Fprintln(os.Stderr, "  list <entity> [query]   List "+strings.Join(entityNames(), ", "))
	fmt.Fprintln(os.Stderr, "  show <entity> <id>      Show one "+strings.Join(showNames(), ", "))
	fmt.Fprintln(os.Stderr, "  outbox                  List the last mutations the backend rejected")
	fmt.Fprintln(os.Stderr, "  profiles                List known profiles")
}

type reportRange struct {
	from, to time.Time
}

func parseRange(from, to string, now time.Time) (reportRange, error) {
	r := reportRange{}
	r.from, r.to = format.MonthRange(now)
	var err error
	if from != "" {
		if r.from, err = format.ParseDate(from); err != nil {
			return r, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if r.to, err = format.ParseDate(to); err != nil {
			return r, fmt.Errorf("--to: %w", err)
		}
	}
	if r.to.Before(r.from) {
		return r, errors.New("--to is before --from")
	}
	return r, nil
}

func cmdLogin(ctx context.Context, svc *auth.Service, args []string, jsonOut bool) error {
	in := bufio.NewReader(os.Stdin)
	username := ""
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Fprint(os.Stderr, "Username: ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		username = strings.TrimSpace(line)
	}

	password, err := readPassword(in)
	if err != nil {
		return err
	}
	sess, err := svc.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(whoami(sess))
		return nil
	}
	fmt.Printf("Logged in as %s (%s)\n", sess.Username, sess.Role)
	return nil
}

func readPassword(in *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type sessionInfo struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	ClientID string `json:"client_id,omitempty"`
}

func whoami(s *auth.Session) sessionInfo {
	return sessionInfo{Username: s.Username, Name: s.Name, Role: string(s.Role), ClientID: string(s.ClientID)}
}

func cmdWhoami(svc *auth.Service, jsonOut bool) error {
	sess := svc.Current()
	if sess == nil {
		return auth.ErrNoSession
	}
	if jsonOut {
		outputJSON(whoami(sess))
		return nil
	}
	fmt.Printf("User:    %s\n", sess.Username)
	fmt.Printf("Name:    %s\n", sess.Name)
	fmt.Printf("Role:    %s\n", sess.Role)
	if sess.ClientID != "" {
		fmt.Printf("Client:  %s\n", sess.ClientID)
	}
	return nil
}

func cmdCounts(ctx context.Context, svc *auth.Service, client *api.Client, jsonOut bool) error {
	sess := svc.Current()
	if sess == nil {
		return auth.ErrNoSession
	}
	if !sess.Admin() {
		return errors.New("counts are only available to admins")
	}
	c, err := client.Counts(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		outputJSON(map[string]int{"interest": c.Interest, "reminders": c.Reminders, "total": c.Total()})
		return nil
	}
	fmt.Printf("Overdue interest: %d\n", c.Interest)
	fmt.Printf("Reminders due:    %d\n", c.Reminders)
	return nil
}

type profileInfo struct {
	Name  string `json:"name"`
	Dir   string `json:"dir"`
	InUse string `json:"in_use,omitempty"`
}

func cmdProfiles(jsonOut bool) {
	names, err := profile.List()
	if err != nil {
		fatal(err)
	}
	infos := make([]profileInfo, len(names))
	for i, n := range names {
		infos[i] = profileInfo{Name: n, Dir: profile.Dir(n)}
		if h, err := lock.Inspect(profile.Dir(n)); err == nil && h != nil {
			infos[i].InUse = h.String()
		}
	}
	if jsonOut {
		outputJSON(infos)
		return
	}
	if len(infos) == 0 {
		fmt.Println("No profiles found.")
		return
	}
	for _, p := range infos {
		fmt.Printf("%-20s %s", p.Name, p.Dir)
		if p.InUse != "" {
			fmt.Printf("  [in use by %s]", p.InUse)
		}
		fmt.Println()
	}
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
