package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/shoppro/shoppro/internal/config"
	"github.com/shoppro/shoppro/internal/logging"
	"github.com/shoppro/shoppro/internal/tui"
	"github.com/shoppro/shoppro/pkg/auth"
	"github.com/shoppro/shoppro/pkg/client"
	"github.com/shoppro/shoppro/pkg/domain"
	"github.com/shoppro/shoppro/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a subcommand needs.
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  *session.Store
	client *client.Client
	flow   *auth.Flow

	// expired is called when a token refresh fails.
	expired func()
}

func setup() (*env, func(), error) {
	cfg := config.Load()

	log, closer, err := logging.Open(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	store, err := session.Open(session.NewFileStorage(cfg.SessionPath()))
	if err != nil {
		closer.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("open session: %w", err)
	}

	e := &env{cfg: cfg, log: log, store: store, expired: printExpiredHint}
	e.client = client.New(cfg.APIURL, store,
		client.WithLogger(log),
		client.WithTimeout(cfg.Timeout),
		client.WithSessionExpired(func() {
			if e.expired != nil {
				e.expired()
			}
		}),
	)
	e.flow = auth.NewFlow(e.client, store, log)
	e.flow.Restore()

	log.Debug().Str("api", cfg.APIURL).Str("version", version).Msg("shoppro starting")
	return e, func() { closer.Close() }, nil //nolint:errcheck
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("shoppro " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		}
	}

	e, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if len(args) > 0 {
		switch args[0] {
		case "login":
			return runAuth(ctx, e.flow, modeLogin, args[1:], os.Stdin, os.Stdout)
		case "register":
			return runAuth(ctx, e.flow, modeRegister, args[1:], os.Stdin, os.Stdout)
		case "logout":
			return runLogout(ctx, e.flow, e.store, os.Stdout)
		case "stores":
			return runStores(ctx, e.client, os.Stdout)
		default:
			return fmt.Errorf("unknown command %q (try shoppro help)", args[0])
		}
	}

	return runTUI(e)
}

func runTUI(e *env) error {
	app := tui.NewApp(tui.Options{
		API:      e.client,
		Auth:     e.flow,
		Session:  e.store,
		WebURL:   e.cfg.WebURL,
		Version:  version,
		PageSize: e.cfg.PageSize,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	e.expired = func() { p.Send(tui.SessionExpiredMsg{}) }
	unsubscribe := e.store.Subscribe(func(s session.Session) {
		p.Send(tui.SessionChangedMsg{Session: s})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// authenticator is the part of auth.Flow the sign-in commands use.
type authenticator interface {
	Login(ctx context.Context, email, password string) auth.Result
	Register(ctx context.Context, email, password string) auth.Result
	SelectTenant(slug string) error
}

type authArgs struct {
	store string
	email string
}

func parseAuthArgs(name string, args []string) (authArgs, error) {
	var a authArgs
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&a.store, "store", "", "store slug")
	fs.StringVar(&a.email, "email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return a, fmt.Errorf("%s: %w", name, err)
	}
	a.store = strings.TrimSpace(a.store)
	a.email = strings.TrimSpace(a.email)
	if a.store == "" || a.email == "" {
		return a, fmt.Errorf("usage: shoppro %s --store <slug> --email <email>", name)
	}
	return a, nil
}

// readPassword returns SHOPPRO_PASSWORD when set, otherwise one line of r.
func readPassword(r io.Reader, w io.Writer) (string, error) {
	if pw := os.Getenv("SHOPPRO_PASSWORD"); pw != "" {
		return pw, nil
	}
	fmt.Fprint(w, "Password: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}

func runAuth(ctx context.Context, a authenticator, mode authMode, args []string, stdin io.Reader, stdout io.Writer) error {
	name := "login"
	if mode == modeRegister {
		name = "register"
	}
	parsed, err := parseAuthArgs(name, args)
	if err != nil {
		return err
	}
	password, err := readPassword(stdin, stdout)
	if err != nil {
		return err
	}

	if err := a.SelectTenant(parsed.store); err != nil {
		return fmt.Errorf("select store: %w", err)
	}

	var res auth.Result
	if mode == modeRegister {
		res = a.Register(ctx, parsed.email, password)
	} else {
		res = a.Login(ctx, parsed.email, password)
	}
	if !res.Success {
		return errors.New(res.Error)
	}
	fmt.Fprintf(stdout, "Signed in to %s as %s.\n", parsed.store, parsed.email)
	return nil
}

func runLogout(ctx context.Context, f interface{ Logout(context.Context) }, src tui.SessionSource, stdout io.Writer) error {
	if !src.Get().IsAuthenticated() {
		fmt.Fprintln(stdout, "Already logged out.")
		return nil
	}
	f.Logout(ctx)
	fmt.Fprintln(stdout, "Logged out.")
	return nil
}

type tenantLister interface {
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
}

func runStores(ctx context.Context, api tenantLister, stdout io.Writer) error {
	tenants, err := api.ListTenants(ctx)
	if err != nil {
		return errors.New(client.Message(err, "Failed to load stores. Please try again."))
	}
	if len(tenants) == 0 {
		fmt.Fprintln(stdout, "No stores yet. Create one from the sign-in screen.")
		return nil
	}
	for _, t := range tenants {
		fmt.Fprintf(stdout, "%-12s %s\n", t.TenantSlug, t.Name)
	}
	return nil
}
