package app

import (
	"context"

	"log/slog"

	"github.com/crownline/pageant-manager/config"
	httpapi "github.com/crownline/pageant-manager/internal/api/http"
	"github.com/crownline/pageant-manager/internal/apisrv/admin"
	"github.com/crownline/pageant-manager/internal/apisrv/frontend"
	"github.com/crownline/pageant-manager/internal/dependency"
	"github.com/crownline/pageant-manager/internal/store"
	"github.com/crownline/pageant-manager/internal/triage"
)

// App is the main application
type App struct {
	hs     *httpapi.Server
	db     dependency.Repository
	poller *triage.Poller
	c      *config.Config
	done   chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting pageant manager")

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql",
			slog.String("err", err.Error()),
		)
		return err
	}

	fileStore, err := a.c.Bucket.Init()
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't init file store",
			slog.String("err", err.Error()),
		)
		return err
	}

	session := triage.NewSession(a.db.Enquiries(), a.c.Triage.PageSize)
	if err := session.Refresh(ctx); err != nil {
		// The poller retries on its interval; the operator just starts from
		// an empty list.
		slog.Default().ErrorContext(ctx, "initial enquiry fetch failed",
			slog.String("err", err.Error()),
		)
	}

	a.poller = triage.NewPoller(session, a.c.Triage.PollInterval)
	if err := a.poller.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start triage poller",
			slog.String("err", err.Error()),
		)
		return err
	}

	adminS := admin.New(session, a.db)
	frontendS := frontend.New(a.db, fileStore)

	a.hs = httpapi.New(&a.c.HTTP)
	if err = a.hs.Start(ctx, adminS, frontendS); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	go func() {
		<-a.hs.Done()
		close(a.done)
	}()

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.poller != nil {
		if err := a.poller.Stop(); err != nil {
			slog.Default().ErrorContext(ctx, "poller stop failed",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.hs != nil {
		a.hs.Stop(ctx)
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() <-chan struct{} {
	return a.done
}
