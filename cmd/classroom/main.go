package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrsteele09/go-classroom/internal/config"
	"github.com/jrsteele09/go-classroom/kv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println()
	if err := newApp(nil).RunContext(ctx, os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		stop()
		os.Exit(1)
	}
	fmt.Println()
}

// newApp builds the command line app. store overrides where the session is
// kept; nil means the storage file.
func newApp(store kv.Store) *cli.App {
	app := cli.NewApp()
	app.Metadata = map[string]interface{}{metadataStore: store}
	app.Name = "classroom"
	app.Usage = "Sign in to Classroom and generate presentations from the terminal"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    flagBackend,
			Usage:   "Address of the backend serving /auth and /ppt",
			EnvVars: []string{"BACKEND_URL"},
			Value:   config.New().GetBackendURL(),
		},
		&cli.StringFlag{
			Name:    flagStorage,
			Usage:   "Location of the file the session is kept in (default ~/.classroom/storage.json)",
			EnvVars: []string{"CLASSROOM_STORAGE"},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "classes",
			Usage: "List the classes presentations can be generated for",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: classesList,
		},
		{
			Name:  "generate",
			Usage: "Generate a presentation (requires a valid session)",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     flagGrade,
					Aliases:  []string{"g"},
					Usage:    "The class the presentation is for (6, 7 or 8)",
					Required: true,
				},
				&cli.StringFlag{
					Name:     flagSubject,
					Aliases:  []string{"s"},
					Usage:    "The subject, e.g. Science",
					Required: true,
				},
				&cli.StringFlag{
					Name:     flagTopic,
					Aliases:  []string{"t"},
					Usage:    "The topic, e.g. Photosynthesis",
					Required: true,
				},
				&cli.StringFlag{
					Name:  flagLanguage,
					Usage: "The language of the slides",
					Value: "English",
				},
				&cli.IntFlag{
					Name:    flagPages,
					Aliases: []string{"p"},
					Usage:   "Number of slides (1-20)",
					Value:   5,
				},
			},
			Action: generate,
		},
		{
			Name:  "signin",
			Usage: "Sign in and keep the session locally",
			Flags: []cli.Flag{
				cliFlagEmail,
				cliFlagPassword,
			},
			Action: signIn,
		},
		{
			Name:   "signout",
			Usage:  "Sign out and discard the local session",
			Action: signOut,
		},
		{
			Name:  "signup",
			Usage: "Register a new account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagName,
					Aliases:  []string{"n"},
					Usage:    "Your name",
					Required: true,
				},
				cliFlagEmail,
				cliFlagPassword,
			},
			Action: signUp,
		},
		{
			Name:  "status",
			Usage: "Show whether the local session is valid",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    flagWatch,
					Aliases: []string{"w"},
					Usage:   "Keep checking until the session expires or you interrupt",
				},
				&cli.DurationFlag{
					Name:  flagInterval,
					Usage: "How often --watch re-checks the session",
					Value: config.New().GetSessionWatchInterval(),
				},
			},
			Action: status,
		},
	}
	return app
}
