package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/tada/internal/common/bootstrap"
	srv "github.com/AlibekovAA/tada/internal/common/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	server := srv.NewServer(srv.NewServerConfig(app.Config), app.Handler)

	hooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			app.Log.Info("stopping background workers")
			cancel()
			app.Close()
			return nil
		},
	}

	if err := srv.Run(ctx, server, app.Log, hooks...); err != nil {
		app.Log.Fatalf("server error: %v", err)
	}
}
