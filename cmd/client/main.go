package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/docupload/internal/client/cli"
	"github.com/dmitrijs2005/docupload/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "docupload:", err)
		os.Exit(2)
	}

	root := cli.NewRootCommand(cli.NewApp(cfg))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "docupload:", err)
		stop()
		os.Exit(1)
	}
}
