// Command authstub serves an in-memory sign-in/sign-up/sign-out backend and
// a fake presentation generator for local development.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrsteele09/go-classroom/authstub"
	"github.com/jrsteele09/go-classroom/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running auth stub")
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	secret := config.GetEnv("AUTHSTUB_SECRET", "")
	if secret == "" {
		log.Warn().Msg("AUTHSTUB_SECRET not set, using an insecure development secret")
		secret = "dev-secret-do-not-use"
	}
	port := config.GetEnv("AUTHSTUB_PORT", "8000")

	stub := authstub.New(authstub.Config{
		Secret:        []byte(secret),
		TokenTTL:      config.GetEnvDuration("AUTHSTUB_TOKEN_TTL", time.Hour),
		PublicURLBase: config.GetEnv("AUTHSTUB_PUBLIC_URL", fmt.Sprintf("http://localhost:%s/storage/generated-ppt", port)),
	})

	if email := config.GetEnv("AUTHSTUB_SEED_EMAIL", ""); email != "" {
		if err := stub.AddUser("Demo Teacher", email, config.GetEnv("AUTHSTUB_SEED_PASSWORD", "password")); err != nil {
			return fmt.Errorf("seed user %s: %w", email, err)
		}
		log.Info().Str("email", email).Msg("Seeded user")
	}

	srv := &http.Server{Addr: ":" + port, Handler: stub}
	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Auth stub listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errs:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
