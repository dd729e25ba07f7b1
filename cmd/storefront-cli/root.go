package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/client"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/localstore"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// app holds what every command needs once flags are parsed.
type app struct {
	cfg    config.ClientConfig
	out    io.Writer
	logger *log.Logger

	state    localstore.Storage
	catalog  *client.CatalogClient
	orders   *client.OrderClient
	notifier *client.NotifyClient
	sessions *client.SessionClient
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		cfg:    config.LoadClient(),
		out:    stdout,
		logger: log.New(stderr, "[storefront-cli] ", log.LstdFlags),
	}

	root := &cobra.Command{
		Use:           "storefront-cli",
		Short:         "Browse the perfume catalog, manage a cart and place orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.BaseURL, "url", a.cfg.BaseURL, "storefront API base URL")
	flags.StringVar(&a.cfg.StatePath, "state", a.cfg.StatePath, "file holding the local cart and session")
	flags.StringVar(&a.cfg.SessionToken, "session", a.cfg.SessionToken, "session token issued by the identity provider")
	flags.DurationVar(&a.cfg.UpstreamTimeout, "timeout", a.cfg.UpstreamTimeout, "timeout for each API call")

	root.AddCommand(
		newCatalogCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newSessionCmd(a),
	)
	return root
}

func (a *app) init() error {
	a.state = localstore.NewFile(a.cfg.StatePath)

	base, err := client.NewClient("storefront", a.cfg.BaseURL, &http.Client{Timeout: a.cfg.UpstreamTimeout})
	if err != nil {
		return err
	}
	a.catalog = client.NewCatalogClient(base)
	a.orders = client.NewOrderClient(base)
	a.notifier = client.NewNotifyClient(base, a.logger)
	a.sessions = client.NewSessionClient(base)
	return nil
}

// context tags every API call of one command with the same correlation id.
func (a *app) context(cmd *cobra.Command) context.Context {
	return middleware.WithCorrelationID(cmd.Context(), uuid.NewString())
}

func (a *app) openCart(ctx context.Context) (*cart.Store, error) {
	return cart.Open(ctx, a.state, a.logger)
}

func (a *app) loadSession(ctx context.Context) (*session.Holder, error) {
	return session.LoadHolder(ctx, a.state, a.logger)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
