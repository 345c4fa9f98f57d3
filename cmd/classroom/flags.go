package main

import "github.com/urfave/cli/v2"

const (
	flagBackend  = "backend"
	flagEmail    = "email"
	flagGrade    = "grade"
	flagInterval = "interval"
	flagLanguage = "language"
	flagName     = "name"
	flagOutput   = "output"
	flagPages    = "pages"
	flagPassword = "password"
	flagStorage  = "storage"
	flagSubject  = "subject"
	flagTopic    = "topic"
	flagWatch    = "watch"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage:   "Return output in another format. Supported formats: table, json",
		Value:   "table",
	}
	cliFlagEmail = &cli.StringFlag{
		Name:     flagEmail,
		Aliases:  []string{"e"},
		Usage:    "Your email address",
		Required: true,
	}
	cliFlagPassword = &cli.StringFlag{
		Name:     flagPassword,
		Aliases:  []string{"p"},
		Usage:    "Your password",
		EnvVars:  []string{"CLASSROOM_PASSWORD"},
		Required: true,
	}
)
