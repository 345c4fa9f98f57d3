package main

import (
	"strings"

	"github.com/jrsteele09/go-classroom/auth"
	"github.com/jrsteele09/go-classroom/authclient"
	"github.com/jrsteele09/go-classroom/internal/config"
	"github.com/jrsteele09/go-classroom/kv"
	"github.com/jrsteele09/go-classroom/kv/filekv"
	"github.com/jrsteele09/go-classroom/presentation"
	"github.com/jrsteele09/go-classroom/session"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const metadataStore = "store"

type services struct {
	store     *session.Store
	checker   *session.Checker
	auth      *auth.Service
	generator *presentation.Generator
}

func getServices(c *cli.Context) (*services, error) {
	store, err := getKV(c)
	if err != nil {
		return nil, err
	}

	cfg := config.New()
	backend := strings.TrimRight(c.String(flagBackend), "/")
	sessions := session.NewStore(store)
	return &services{
		store:     sessions,
		checker:   session.NewChecker(sessions),
		auth:      auth.NewService(authclient.New(backend+"/auth", authclient.WithTimeout(cfg.GetAuthTimeout())), sessions),
		generator: presentation.NewGenerator(backend, nil),
	}, nil
}

func getKV(c *cli.Context) (kv.Store, error) {
	if store, ok := c.App.Metadata[metadataStore].(kv.Store); ok && store != nil {
		return store, nil
	}
	path := c.String(flagStorage)
	if path == "" {
		var err error
		if path, err = filekv.DefaultPath(config.New().GetDataFolder()); err != nil {
			return nil, errors.Wrap(err, "error locating session storage")
		}
	}
	return filekv.New(path), nil
}
