package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/jrsteele09/go-classroom/presentation"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

func generate(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("generate requires no arguments")
	}

	svc, err := getServices(c)
	if err != nil {
		return err
	}

	rec := svc.checker.Current(c.Context)
	if rec == nil {
		return errors.New("no valid session; please use `classroom signin` to continue")
	}

	result, err := svc.generator.Generate(c.Context, oauth2.StaticTokenSource(rec.Token()), presentation.Request{
		Grade:    c.Int(flagGrade),
		Subject:  c.String(flagSubject),
		Topic:    c.String(flagTopic),
		Language: c.String(flagLanguage),
		Pages:    c.Int(flagPages),
	})
	if err != nil {
		return errors.Wrap(err, "error generating presentation")
	}

	table := uitable.New()
	table.AddRow("FILE", "DOWNLOAD")
	table.AddRow(result.Filename, result.PublicURL)
	fmt.Fprintln(c.App.Writer, table)
	return nil
}
