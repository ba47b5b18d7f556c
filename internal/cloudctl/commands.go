package cloudctl

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/dbx"
	"github.com/dmitrijs2005/cloudstore/internal/filex"
	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cloudstore/internal/server/services"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

const defaultListLimit = 100

func init() {
	register(&command{
		name:    "useradd",
		usage:   "[--password-stdin] <username>",
		summary: "create a user directly in the server database",
		flags:   passwordStdinFlag,
		run:     runUserAdd,
	})
	register(&command{
		name:    "login",
		usage:   "[--password-stdin] <username>",
		summary: "log in and print an access token",
		flags:   passwordStdinFlag,
		run:     runLogin,
	})
	register(&command{
		name:    "logout",
		usage:   "",
		summary: "revoke the current access token",
		run:     runLogout,
	})
	register(&command{
		name:    "ls",
		usage:   "[--limit N]",
		summary: "list stored files",
		flags: func(fs *pflag.FlagSet) {
			fs.IntP("limit", "n", defaultListLimit, "maximum number of files to list")
		},
		run: runList,
	})
	register(&command{
		name:    "put",
		usage:   "[--type MIME] <local-file|-> [remote-name]",
		summary: "upload a file, replacing one with the same name",
		flags: func(fs *pflag.FlagSet) {
			fs.StringP("type", "T", "", "content type (default: guessed from the extension)")
		},
		run: runPut,
	})
	register(&command{
		name:    "get",
		usage:   "<remote-name> [local-file|-]",
		summary: "download a file",
		run:     runGet,
	})
	register(&command{
		name:    "mv",
		usage:   "<remote-name> <new-name>",
		summary: "rename a file",
		run:     runRename,
	})
	register(&command{
		name:    "rm",
		usage:   "<remote-name>",
		summary: "delete a file",
		run:     runDelete,
	})
}

func passwordStdinFlag(fs *pflag.FlagSet) {
	fs.Bool("password-stdin", false, "read the password from the first line of stdin")
}

func runUserAdd(ctx context.Context, a *App, fs *pflag.FlagSet, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	fromStdin, _ := fs.GetBool("password-stdin")

	pw, err := a.readSecret("Password for "+args[0]+": ", fromStdin)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	db, dialect, err := dbx.Open(a.cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		return err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	logger, err := logging.NewJSONLogger(a.Stderr, "warn")
	if err != nil {
		return err
	}
	us := services.NewUserService(db, rm, nil, nil, auth.NewBcryptHasher(bcrypt.DefaultCost), logger)

	u, err := us.Register(ctx, args[0], string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "user %s created\n", u.UserName)
	return nil
}

func runLogin(ctx context.Context, a *App, fs *pflag.FlagSet, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	fromStdin, _ := fs.GetBool("password-stdin")

	pw, err := a.readSecret("Password: ", fromStdin)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	c, err := a.connect(false)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	token, err := c.Login(ctx, args[0], string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Stdout, token)
	return nil
}

func runLogout(ctx context.Context, a *App, _ *pflag.FlagSet, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	c, err := a.connect(true)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return c.Logout(ctx)
}

func runList(ctx context.Context, a *App, fs *pflag.FlagSet, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	limit, _ := fs.GetInt("limit")

	c, err := a.connect(true)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	files, err := c.List(ctx, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, f := range files {
		fmt.Fprintf(tw, "%d\t%s\n", f.Size, f.Filename)
	}
	return tw.Flush()
}

func runPut(ctx context.Context, a *App, fs *pflag.FlagSet, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	local := args[0]
	remote := filepath.Base(local)
	if len(args) == 2 {
		remote = args[1]
	} else if local == "-" {
		return errUsage
	}

	contentType, _ := fs.GetString("type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(remote))
	}

	var (
		data []byte
		err  error
	)
	if local == "-" {
		data, err = io.ReadAll(a.Stdin)
	} else {
		data, err = os.ReadFile(local)
	}
	if err != nil {
		return err
	}

	c, err := a.connect(true)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return c.Upload(ctx, remote, contentType, data)
}

func runGet(ctx context.Context, a *App, _ *pflag.FlagSet, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	remote := args[0]
	local := filepath.Base(remote)
	if len(args) == 2 {
		local = args[1]
	}

	c, err := a.connect(true)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	f, err := c.Download(ctx, remote)
	if err != nil {
		return err
	}

	if local == "-" {
		_, err = a.Stdout.Write(f.Data)
		return err
	}
	return filex.WriteFile(local, f.Data, 0o644)
}

func runRename(ctx context.Context, a *App, _ *pflag.FlagSet, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	c, err := a.connect(true)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return c.Rename(ctx, args[0], args[1])
}

func runDelete(ctx context.Context, a *App, _ *pflag.FlagSet, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	c, err := a.connect(true)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return c.Delete(ctx, args[0])
}
