// Command lexi is a CLI client for the lexinote service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	u "github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/and161185/lexinote/internal/client"
	"github.com/and161185/lexinote/internal/session"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "lexinote")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lexinote")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.OpenFile(tokenPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (run: lexi token -t <jwt>)")
	}
	return tf.AccessToken, nil
}

// parseToken reads subject and expiry without verifying the signature; the server verifies.
func parseToken(tok string) (u.UUID, time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return u.Nil, time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	uid, err := u.FromString(claims.Subject)
	if err != nil {
		return u.Nil, time.Time{}, fmt.Errorf("token subject: %w", err)
	}
	exp := time.Now().Add(15 * time.Minute)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return uid, exp, nil
}

// ---- utils ----

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func usage() {
	fmt.Fprintf(os.Stderr, `lexi CLI
Usage:
  lexi [-addr URL] [-v] <cmd> [args]

Commands:
  version
  token      -t <jwt>                              (saves token)
  providers
  provider   <name> | -i <index>
  lang       <from> <to>
  swap
  translate  [-from en -to zh] [-p name | -i index] <text>
  history    [rm <id> | clear]
  clear
  vocab                                            (associate and show state)
  categories
  add-cat    -name <name> [-desc text]
  rename-cat -id <id> -name <name>
  rm-cat     -id <id>
  select     <category id>
  words      [-n page size]
  more
  sort       <createdAt|word> <asc|desc>
  search     [word]
  add-word   [-cat id] [-notes text] [-word w -tr translation -from en -to zh]
  get        <word>
  notes      -id <id> -text <notes>
  rm-word    -id <id>
  count
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// app carries the per-invocation dependencies of every command.
type app struct {
	addr    string
	timeout time.Duration
	out     io.Writer
	log     *zap.Logger
	dir     string
}

func (a *app) client() (*client.Client, u.UUID, error) {
	tok, err := loadToken()
	if err != nil {
		return nil, u.Nil, err
	}
	uid, _, err := parseToken(tok)
	if err != nil {
		return nil, u.Nil, err
	}
	return client.New(a.addr, tok, a.timeout), uid, nil
}

func (a *app) persister() session.Persister {
	return session.NewFilePersister(a.dir)
}

func (a *app) translation() (*session.TranslationSession, error) {
	c, _, err := a.client()
	if err != nil {
		return nil, err
	}
	return session.NewTranslationSession(c, a.persister(), a.log), nil
}

// vocab returns a session associated with the token's user.
func (a *app) vocab(ctx context.Context) (*session.VocabSession, error) {
	c, uid, err := a.client()
	if err != nil {
		return nil, err
	}
	vs := session.NewVocabSession(c, a.persister(), a.log)
	if err := vs.Associate(ctx, uid); err != nil {
		return nil, err
	}
	return vs, nil
}

// run dispatches one command.
func (a *app) run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "version":
		fmt.Fprintf(a.out, "lexi %s (%s)\n", version, buildDate)
		return nil
	case "token":
		return a.cmdToken(rest)

	case "providers":
		return a.cmdProviders(ctx)
	case "provider":
		return a.cmdProvider(rest)
	case "lang":
		return a.cmdLang(rest)
	case "swap":
		return a.cmdSwap()
	case "translate":
		return a.cmdTranslate(ctx, rest)
	case "history":
		return a.cmdHistory(rest)
	case "clear":
		return a.cmdClear()

	case "vocab":
		return a.cmdVocab(ctx)
	case "categories":
		return a.cmdCategories(ctx)
	case "add-cat":
		return a.cmdAddCategory(ctx, rest)
	case "rename-cat":
		return a.cmdRenameCategory(ctx, rest)
	case "rm-cat":
		return a.cmdDeleteCategory(ctx, rest)
	case "select":
		return a.cmdSelect(ctx, rest)
	case "words":
		return a.cmdWords(ctx, rest)
	case "more":
		return a.cmdMore(ctx)
	case "sort":
		return a.cmdSort(ctx, rest)
	case "search":
		return a.cmdSearch(ctx, rest)
	case "add-word":
		return a.cmdAddWord(ctx, rest)
	case "get":
		return a.cmdGet(ctx, rest)
	case "notes":
		return a.cmdNotes(ctx, rest)
	case "rm-word":
		return a.cmdDeleteWord(ctx, rest)
	case "count":
		return a.cmdCount(ctx)
	default:
		return errUsage
	}
}

var errUsage = errors.New("usage")

func (a *app) cmdToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	t := fs.String("t", "", "access token (JWT)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *t == "" {
		return errors.New("need -t")
	}
	uid, exp, err := parseToken(*t)
	if err != nil {
		return err
	}
	if err := saveToken(*t, exp); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ok user=%s expires=%s\n", uid, exp.UTC().Format(time.RFC3339))
	return nil
}

// main dispatches subcommands.
func main() {
	addr := flag.String("addr", envOr("LEXINOTE_ADDR", "http://localhost:8080"), "server base URL")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		log, _ = zap.NewDevelopment()
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &app{addr: *addr, timeout: 30 * time.Second, out: os.Stdout, log: log, dir: cfgDir()}
	if err := a.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			usage()
		}
		fail(err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
