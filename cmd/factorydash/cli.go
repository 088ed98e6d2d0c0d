package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/config"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
	"github.com/keerthikaa27/factory-order-dashboard/store"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

var errNotLoggedIn = errors.New("not logged in: run `factorydash login` first")

// cliEnv is what every terminal command works against: the backend client
// and the token persisted under the fixed CLI key.
type cliEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	creds  credential.Store
	client *api.Client
	shell  *views.Shell
	close  func()
}

func openCLI() (*cliEnv, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := store.OpenSQLite(cfg.CLI.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.CLI.StatePath, err)
	}
	creds := credential.NewStore(db, credential.DefaultKey, logger.Named("credential"))
	env := newCLIEnv(cfg, logger, creds)
	env.close = func() {
		db.Close()
		logger.Sync()
	}
	return env, nil
}

func newCLIEnv(cfg *config.Config, logger *zap.Logger, creds credential.Store) *cliEnv {
	base, timeout := cfg.APISettings()
	return &cliEnv{
		cfg:    cfg,
		logger: logger,
		creds:  creds,
		client: api.NewClient(base, timeout, creds, logger.Named("api")),
		shell:  views.NewShell(creds, cfg.Auth.ForceLogoutOnUnauthorized),
		close:  func() {},
	}
}

// requireLogin is the terminal counterpart of the dashboard's login gate.
func (e *cliEnv) requireLogin(ctx context.Context) error {
	if e.shell.Check(ctx) != "" {
		return errNotLoggedIn
	}
	return nil
}

// check applies the 401 policy and turns a failed call into a command error.
func (e *cliEnv) check(ctx context.Context, f api.Failure, err error) error {
	if f.OK() {
		return nil
	}
	if e.shell.Guard(ctx, f) != "" {
		return fmt.Errorf("session expired, token cleared: run `factorydash login` again")
	}
	if d := api.Detail(err); d != "" {
		return errors.New(d)
	}
	return err
}
