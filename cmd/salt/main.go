// salt is a terminal client for the Salt API. It keeps the login session in
// a local bbolt file so subsequent commands reuse the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/sistema-salt/salt-backend/internal/client"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

type options struct {
	baseURL     string
	sessionPath string
	timeout     time.Duration
	email       string
	password    string
	verbose     bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options

	flagSet := pflag.NewFlagSet("salt", pflag.ContinueOnError)
	flagSet.StringVar(&opts.baseURL, "url", envOr("SALT_URL", "http://localhost:8080"), "API base URL")
	flagSet.StringVar(&opts.sessionPath, "session", defaultSessionPath(), "session file")
	flagSet.DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "HTTP request timeout")
	flagSet.StringVar(&opts.email, "email", "", "email for login")
	flagSet.StringVar(&opts.password, "password", "", "password for login (default $SALT_PASSWORD)")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(flagSet)
		return nil
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if opts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := client.NewClient(client.Config{BaseURL: opts.baseURL, Timeout: opts.timeout})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.sessionPath), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	session, err := client.OpenSession(opts.sessionPath)
	if err != nil {
		return err
	}
	defer session.Close()

	store := client.NewStore(api, session)
	args := flagSet.Args()

	switch args[0] {
	case "login":
		return login(ctx, store, opts)
	case "logout":
		if err := store.Logout(); err != nil {
			return err
		}
		fmt.Println("Sessão encerrada")
		return nil
	}

	if _, err := store.Restore(ctx); err != nil {
		if errors.Is(err, client.ErrNotLoggedIn) {
			return errors.New("not logged in: run 'salt login --email <email>'")
		}
		return err
	}

	switch args[0] {
	case "whoami":
		user := store.CurrentUser()
		fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
		return nil
	case "list":
		if len(args) < 2 {
			return errors.New("usage: salt list <users|categories|products|communications|financials|projects|tasks>")
		}
		return list(store.Snapshot(), args[1])
	case "summary":
		return summary(ctx, api)
	case "board":
		return board(store.Snapshot())
	case "watch":
		return watch(ctx, api)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func login(ctx context.Context, store *client.Store, opts options) error {
	password := opts.password
	if password == "" {
		password = os.Getenv("SALT_PASSWORD")
	}
	if opts.email == "" || password == "" {
		return errors.New("login requires --email and --password (or $SALT_PASSWORD)")
	}

	user, err := store.Login(ctx, opts.email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Conectado como %s (%s)\n", user.Name, user.Role)
	return nil
}

func list(state client.State, resource string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	switch resource {
	case "users":
		fmt.Fprintln(w, "ID\tNOME\tEMAIL\tPAPEL")
		for _, u := range state.Users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		}
	case "categories":
		sections := client.CategoriesByLocation(state.Categories)
		fmt.Fprintln(w, "ID\tNOME\tLOCAL")
		for _, location := range []domain.Location{domain.LocationFinance, domain.LocationCommunication} {
			for _, c := range sections[location] {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Location)
			}
		}
	case "products":
		fmt.Fprintln(w, "ID\tNOME\tQTD\tUNID\tMIN\tCATEGORIA\t")
		for _, p := range state.Products {
			flag := ""
			if p.LowStock() {
				flag = "estoque baixo"
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%s\t%s\n", p.ID, p.Name, p.Quantity, p.Unit, p.MinStock, p.Category, flag)
		}
	case "communications":
		fmt.Fprintln(w, "ID\tTÍTULO\tAUTOR\tDATA")
		for _, c := range state.Communications {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Title, client.AuthorName(state.Users, c.AuthorID), c.CreatedAt.Format("02/01/2006"))
		}
	case "financials":
		fmt.Fprintln(w, "ID\tDESCRIÇÃO\tTIPO\tVALOR\tAUTOR")
		for _, f := range state.Financials {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.Description, f.Type, f.Amount.StringFixed(2), client.AuthorName(state.Users, f.AuthorID))
		}
	case "projects":
		fmt.Fprintln(w, "ID\tNOME\tSTATUS")
		for _, p := range state.Projects {
			fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.Status)
		}
	case "tasks":
		fmt.Fprintln(w, "ID\tTÍTULO\tPROJETO\tSTATUS\tAUTOR")
		for _, t := range state.Tasks {
			project := "-"
			if t.ProjectID != nil {
				project = fmt.Sprint(*t.ProjectID)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Title, project, t.Status, client.AuthorName(state.Users, t.AuthorID))
		}
	default:
		return fmt.Errorf("unknown resource %q", resource)
	}
	return nil
}

func summary(ctx context.Context, api *client.Client) error {
	s, err := api.FinancialSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Entradas: %s\nSaídas:   %s\nSaldo:    %s\nRegistros: %d\n",
		s.Income.StringFixed(2), s.Expense.StringFixed(2), s.Balance.StringFixed(2), s.Count)
	return nil
}

func board(state client.State) error {
	for _, b := range client.Board(state.Projects, state.Tasks) {
		var tasks []*domain.Task
		for _, column := range b.Columns {
			tasks = append(tasks, column.Tasks...)
		}
		progress := client.TaskProgress(tasks)
		fmt.Printf("# %s [%s] %d%% (%d/%d)\n", b.Project.Name, b.Project.Status, progress.Percent(), progress.Completed, progress.Total)
		for _, column := range b.Columns {
			titles := make([]string, 0, len(column.Tasks))
			for _, t := range column.Tasks {
				titles = append(titles, fmt.Sprintf("#%d %s", t.ID, t.Title))
			}
			fmt.Printf("  %-13s %s\n", column.Status+":", strings.Join(titles, ", "))
		}
	}
	return nil
}

func watch(ctx context.Context, api *client.Client) error {
	fmt.Fprintln(os.Stderr, "Aguardando eventos (Ctrl+C para sair)")
	return api.Subscribe(ctx, func(e client.Event) {
		fmt.Printf("%s %s %s\n", e.Timestamp.Local().Format(time.TimeOnly), e.Type, e.Payload)
	})
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "salt-session.db"
	}
	return filepath.Join(dir, "salt", "session.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `salt: terminal client for the Salt API.

Usage:
  salt [flags] <command>

Commands:
  login      authenticate and save the session (--email, --password)
  logout     clear the saved session
  whoami     show the logged-in user
  list RES   list users, categories, products, communications,
             financials, projects or tasks
  summary    income, expense and balance totals
  board      project kanban boards with progress
  watch      stream live change events

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
