package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jrsteele09/go-survey-gateway/client"
	"github.com/jrsteele09/go-survey-gateway/identity"
	"github.com/jrsteele09/go-survey-gateway/sessions"
	"github.com/jrsteele09/go-survey-gateway/surveys"
	"github.com/jrsteele09/go-survey-gateway/tokenstore"
)

const (
	appName           = "surveyctl"
	defaultGatewayURL = "http://localhost:8080"
	requestTimeout    = 30 * time.Second
)

var errNotLoggedIn = errors.New("not logged in; run `surveyctl login` first")

// globalOptions are accepted before the subcommand name
type globalOptions struct {
	gatewayURL string
	tokenFile  string
	ephemeral  bool
}

// env carries what every subcommand needs
type env struct {
	out    io.Writer
	store  tokenstore.Store
	client *client.Client
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{"login", "log in with -u/-p, or -provider to use GitHub/Google in the browser", loginCommand},
	{"whoami", "ask the gateway whether the stored session is valid", whoamiCommand},
	{"logout", "end the session locally and on the gateway", logoutCommand},
	{"list", "list surveys", listCommand},
	{"create", "create a survey: -title T -option A -option B", createCommand},
	{"open", "open the gateway in the browser", openCommand},
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, rest, err := parseGlobalFlags(args, out)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		usage(out)
		return errors.New("missing command")
	}

	var store tokenstore.Store
	if opts.ephemeral {
		store = tokenstore.NewMemoryStore()
	} else {
		store = tokenstore.NewFileStore(opts.tokenFile)
	}
	e := &env{
		out:    out,
		store:  store,
		client: client.New(opts.gatewayURL, store, &http.Client{Timeout: requestTimeout}),
	}

	for _, cmd := range commands {
		if cmd.name == rest[0] {
			return cmd.run(ctx, e, rest[1:])
		}
	}
	usage(out)
	return fmt.Errorf("unknown command %q", rest[0])
}

func parseGlobalFlags(args []string, out io.Writer) (globalOptions, []string, error) {
	var opts globalOptions

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { usage(out) }

	defaultTokenFile, err := tokenstore.DefaultFilePath(appName)
	if err != nil {
		defaultTokenFile = ""
	}
	fs.StringVar(&opts.gatewayURL, "gateway", "", "Gateway base URL (or SURVEY_GATEWAY_URL)")
	fs.StringVar(&opts.tokenFile, "token-file", defaultTokenFile, "Where the session token is kept")
	fs.BoolVar(&opts.ephemeral, "ephemeral", false, "Keep the session in memory for this run only")

	if err := fs.Parse(args); err != nil {
		return globalOptions{}, nil, err
	}

	if opts.gatewayURL == "" {
		opts.gatewayURL = os.Getenv("SURVEY_GATEWAY_URL")
	}
	if opts.gatewayURL == "" {
		opts.gatewayURL = defaultGatewayURL
	}
	if !opts.ephemeral && opts.tokenFile == "" {
		return globalOptions{}, nil, errors.New("no token file location; pass -token-file or -ephemeral")
	}
	return opts, fs.Args(), nil
}

func usage(out io.Writer) {
	fmt.Fprintf(out, "Usage: %s [-gateway URL] [-token-file PATH] [-ephemeral] <command> [flags]\n\nCommands:\n", appName)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, cmd := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.name, cmd.summary)
	}
	_ = tw.Flush()
}

func loginCommand(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(e.out)
	username := fs.String("u", "", "Username")
	password := fs.String("p", "", "Password (or SURVEYCTL_PASSWORD)")
	provider := fs.String("provider", "", "OAuth provider: github or google")
	token := fs.String("token", "", "Store a session token obtained from the browser flow")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sc := sessions.New(e.store)

	if *provider != "" {
		target, err := e.client.OpenInBrowser(e.client.LoginURL(*provider))
		if err != nil {
			fmt.Fprintf(e.out, "Open this URL to log in: %s\n", target)
		} else {
			fmt.Fprintf(e.out, "Continue logging in with %s in your browser.\n", *provider)
		}
		if *token == "" {
			return nil
		}
	}

	if *token != "" {
		if err := sc.Login(*token); err != nil {
			return err
		}
		fmt.Fprintln(e.out, "Session stored.")
		return nil
	}

	if *password == "" {
		*password = os.Getenv("SURVEYCTL_PASSWORD")
	}
	issued, err := e.client.Login(ctx, identity.Credentials{Username: *username, Password: *password})
	if err != nil {
		return err
	}
	if err := sc.Login(issued); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Logged in as %s.\n", *username)
	return nil
}

// whoamiCommand probes the gateway's /auth/me rather than trusting the local file
func whoamiCommand(ctx context.Context, e *env, args []string) error {
	sc := sessions.New(e.store, sessions.WithProber(sessions.ProberFunc(e.client.WhoAmI)))
	if err := sc.Init(ctx); err != nil {
		return err
	}
	if !sc.Allowed() {
		fmt.Fprintln(e.out, "Not logged in.")
		return nil
	}
	token, _ := sc.Token()
	fmt.Fprintf(e.out, "Logged in (token %s).\n", redact(token))
	return nil
}

// logoutCommand ends the stored session. The local store is probed rather than the gateway
// since the session is cleared either way.
func logoutCommand(ctx context.Context, e *env, args []string) error {
	sc := sessions.New(e.store,
		sessions.WithRemoteLogout(e.client.Logout),
		sessions.WithNavigator(func(path string) {
			fmt.Fprintf(e.out, "Logged out. Log in again at %s\n", e.client.BaseURL+path)
		}),
	)
	_ = sc.Init(ctx)
	return sc.Logout(ctx)
}

func listCommand(ctx context.Context, e *env, args []string) error {
	list, err := e.client.ListSurveys(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(e.out, "No surveys yet.")
		return nil
	}
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tOPTIONS")
	for _, s := range list {
		texts := make([]string, 0, len(s.Options))
		for _, o := range s.Options {
			texts = append(texts, o.Text)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Title, strings.Join(texts, ", "))
	}
	return tw.Flush()
}

// stringList collects a repeatable string flag
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func createCommand(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(e.out)
	title := fs.String("title", "", "Survey title")
	var options stringList
	fs.Var(&options, "option", "Option text (repeat for each option)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sc := sessions.New(e.store)
	if err := sc.Init(ctx); err != nil {
		return err
	}
	if !sc.Allowed() {
		return errNotLoggedIn
	}

	result, err := e.client.CreateSurvey(ctx, surveys.NewSurvey(*title, options))
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Created survey %d.\n", result.SurveyID)
	return nil
}

func openCommand(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(e.out)
	path := fs.String("path", "/", "Gateway path to open")
	if err := fs.Parse(args); err != nil {
		return err
	}
	target, err := e.client.OpenInBrowser(*path)
	if err != nil {
		fmt.Fprintf(e.out, "Open this URL: %s\n", target)
	}
	return nil
}

func redact(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
