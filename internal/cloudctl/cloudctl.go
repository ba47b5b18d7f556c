// Package cloudctl implements the cloudctl command line tool: a thin
// front end over the CloudStore gRPC client plus an operator command that
// creates users directly in the database.
package cloudctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/client"
	"github.com/dmitrijs2005/cloudstore/internal/client/config"
	"github.com/spf13/pflag"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

// FileClient is the subset of client.GRPCClient used by the commands.
type FileClient interface {
	SetToken(token string)
	Login(ctx context.Context, userName, password string) (string, error)
	Logout(ctx context.Context) error
	List(ctx context.Context, limit int) ([]client.FileInfo, error)
	Upload(ctx context.Context, filename, contentType string, data []byte) error
	Rename(ctx context.Context, filename, newFilename string) error
	Delete(ctx context.Context, filename string) error
	Download(ctx context.Context, filename string) (*client.File, error)
	Close() error
}

// App carries the process environment of one invocation.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Dial   func(cfg *config.Config) (FileClient, error)

	cfg *config.Config
}

type command struct {
	name    string
	usage   string
	summary string
	flags   func(fs *pflag.FlagSet)
	run     func(ctx context.Context, a *App, fs *pflag.FlagSet, args []string) error
}

var commands = map[string]*command{}

func register(c *command) { commands[c.name] = c }

// Run executes cloudctl with args (without the program name) against the
// real process environment and returns the exit code.
func Run(ctx context.Context, args []string) int {
	a := &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		Dial:   dialGRPC,
	}
	return a.Run(ctx, args)
}

func dialGRPC(cfg *config.Config) (FileClient, error) {
	c, err := client.NewGRPCClient(cfg.ServerEndpointAddr, client.WithMaxMessageSize(cfg.MaxMessageSize))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (a *App) Run(ctx context.Context, args []string) int {
	var (
		configPath string
		server     string
		token      string
		dsn        string
		timeout    time.Duration
	)

	global := pflag.NewFlagSet("cloudctl", pflag.ContinueOnError)
	global.SetOutput(a.Stderr)
	global.SetInterspersed(false)
	global.StringVarP(&configPath, "config", "c", "", "path to config file (json or yaml)")
	global.StringVarP(&server, "server", "a", "", "address and port of the gRPC endpoint")
	global.StringVarP(&token, "token", "t", "", "access token (default $"+config.EnvToken+")")
	global.StringVar(&dsn, "dsn", "", "database DSN for useradd (default $"+config.EnvDSN+")")
	global.DurationVar(&timeout, "timeout", 0, "per-request timeout")
	global.Usage = func() { a.usage(global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		a.usage(global)
		return exitUsage
	}

	cfg, err := config.Load(configPath, a.Getenv)
	if err != nil {
		fmt.Fprintf(a.Stderr, "cloudctl: %v\n", err)
		return exitError
	}
	if server != "" {
		cfg.ServerEndpointAddr = server
	}
	if token != "" {
		cfg.Token = token
	}
	if dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout
	}
	a.cfg = cfg

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(a.Stderr, "cloudctl: unknown command %q\n", rest[0])
		a.usage(global)
		return exitUsage
	}

	fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.Stderr, "usage: cloudctl %s %s\n", cmd.name, cmd.usage)
		fs.PrintDefaults()
	}
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(rest[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if err := cmd.run(ctx, a, fs, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			return exitUsage
		}
		fmt.Fprintf(a.Stderr, "cloudctl %s: %v\n", cmd.name, err)
		return exitError
	}
	return exitOK
}

func (a *App) usage(global *pflag.FlagSet) {
	fmt.Fprintln(a.Stderr, "usage: cloudctl [flags] <command> [args]")
	fmt.Fprintln(a.Stderr, "\nCommands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.Stderr, "  %-8s %s\n", name, commands[name].summary)
	}

	fmt.Fprintln(a.Stderr, "\nFlags:")
	global.PrintDefaults()
}

// connect dials the server and installs the configured token.
func (a *App) connect(needToken bool) (FileClient, error) {
	if needToken && a.cfg.Token == "" {
		return nil, fmt.Errorf("no access token: run login or set %s", config.EnvToken)
	}
	c, err := a.Dial(a.cfg)
	if err != nil {
		return nil, err
	}
	c.SetToken(a.cfg.Token)
	return c, nil
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.RequestTimeout)
}
