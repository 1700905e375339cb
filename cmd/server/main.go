package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/docupload/internal/flagx"
	"github.com/dmitrijs2005/docupload/internal/server"
	"github.com/dmitrijs2005/docupload/internal/server/auth"
	"github.com/dmitrijs2005/docupload/internal/server/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// -issue-token <user> prints an access token and exits.
	user, err := issueTokenFor(args)
	if err != nil {
		return err
	}
	if user != "" {
		token, err := auth.NewIssuer([]byte(cfg.SecretKey), cfg.AccessTokenValidity, cfg.UploadTokenValidity).AccessToken(user)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app, err := server.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}

var errEmptyTokenUser = errors.New("-issue-token needs a user")

func issueTokenFor(args []string) (string, error) {
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("issue-token", "", "print an access token for the user and exit")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-issue-token", "--issue-token"})); err != nil {
		return "", err
	}

	given := false
	fs.Visit(func(f *flag.Flag) { given = given || f.Name == "issue-token" })
	if given && strings.TrimSpace(*user) == "" {
		return "", errEmptyTokenUser
	}
	return strings.TrimSpace(*user), nil
}
