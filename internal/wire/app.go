// Package wire builds the App the CLI commands share.
package wire

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mithrel/freightdesk/internal/apiclient"
	"github.com/mithrel/freightdesk/internal/auth"
	"github.com/mithrel/freightdesk/internal/config"
	"github.com/mithrel/freightdesk/internal/db"
	"github.com/mithrel/freightdesk/internal/estimates"
	"github.com/mithrel/freightdesk/internal/inbox"
	"github.com/mithrel/freightdesk/internal/keys"
	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/notify"
	"github.com/mithrel/freightdesk/internal/query"
	"github.com/mithrel/freightdesk/internal/quotes"
	"github.com/mithrel/freightdesk/internal/shipments"
)

// App aggregates the services for injection into commands.
type App struct {
	Cfg     *viper.Viper
	Log     *zap.Logger
	Notes   *notify.Log
	Journal db.Journal
	Nav     *nav.Memory
	Keys    keys.KeyStore
	API     *apiclient.Client
	Cache   *query.Cache

	Auth      *auth.Service
	Estimates *estimates.Service
	Quotes    *quotes.Service
	Shipments *shipments.Service
	Inbox     *inbox.Service
}

// BuildApp wires dependencies from a loaded viper instance.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, err := newLogger(v.GetString("log.level"))
	if err != nil {
		return nil, err
	}

	app := &App{Cfg: v, Log: logger, Nav: nav.NewMemory(nav.Dashboard), Cache: query.New(0)}

	app.Notes = notify.NewLog()

	app.Keys = &keys.MemStore{}
	if v.GetBool("session.keyring") && keys.KeyringAvailable() {
		app.Keys = &keys.KeyringStore{}
	}

	cfg := apiclient.Config{
		BaseURL:        v.GetString("api_url"),
		VerifyOTPRoute: v.GetString("routes.verify_otp"),
		UserAgent:      "freightdesk-cli",
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api_url: %w", err)
	}
	jar, err := keys.LoadJar(app.Keys, base)
	if err != nil {
		logger.Warn("session not restored", zap.Error(err))
	} else {
		cfg.Jar = jar
	}
	app.API, err = apiclient.New(cfg, app.Notes, app.Nav, logger)
	if err != nil {
		return nil, err
	}

	app.Auth = auth.New(app.API, app.Nav, app.Notes, app.Cache)
	app.Estimates = estimates.New(app.API, app.Cache)
	app.Quotes = quotes.New(app.API, app.Cache)
	app.Shipments = shipments.New(app.API, app.Cache)
	app.Inbox = inbox.New(app.API, v.GetString("inbox.from_email"))

	// opened last so no later failure leaves it open
	if v.GetBool("notifications.persist") {
		j, err := db.Open(ctx, config.JournalDSN(v))
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		app.Journal = j
		app.Notes.WithSink(db.Sink{J: j})
		app.Notes.OnSinkError = func(err error) {
			logger.Warn("journal write failed", zap.Error(err))
		}
	}
	return app, nil
}

// SaveSession persists the cookie jar so the next run stays signed in.
func (a *App) SaveSession() error {
	return keys.SaveJar(a.Keys, a.API.Jar(), a.API.BaseURL())
}

func (a *App) Close() error {
	_ = a.Log.Sync()
	if a.Journal != nil {
		return a.Journal.Close()
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
