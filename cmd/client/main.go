// The portal notification client: decodes the locally stored credential,
// joins its room over the websocket channel and renders incoming
// notifications as transient terminal toasts.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-portal/internal/client"
	"campus-portal/pkg/logger"
)

func main() {
	var (
		url       = flag.String("url", "ws://localhost:8080/ws", "notification channel endpoint")
		credsPath = flag.String("credentials", "tokens.json", "path to the stored credential tokens")
		duration  = flag.Duration("display", client.DefaultDisplayDuration, "how long each toast stays visible")
		silent    = flag.Bool("silent", false, "disable the notification sound")
	)
	flag.Parse()

	var creds client.CredentialStore
	fileStore, err := client.NewFileCredentialStore(*credsPath)
	if err != nil {
		// No stored credential is fine: the connection stays anonymous and
		// still receives global broadcasts.
		logger.Warn("No credentials loaded from %s: %v", *credsPath, err)
		creds = client.MapCredentialStore{}
	} else {
		creds = fileStore
	}

	var player client.Player = &client.BellPlayer{Out: os.Stdout}
	if *silent {
		player = client.NopPlayer{}
	}

	renderer := client.NewRenderer(os.Stdout)
	store := client.NewStore(*duration, player, renderer.Render)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	logger.Info("Listening for notifications on %s", *url)
	if err := client.Listen(ctx, client.Config{
		URL:           *url,
		Creds:         creds,
		Store:         store,
		ReconnectWait: 3 * time.Second,
	}); err != nil && err != context.Canceled {
		logger.Fatal("Listener stopped: %v", err)
	}
}
