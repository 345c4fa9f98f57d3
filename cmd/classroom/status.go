package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gosuri/uitable"
	"github.com/jrsteele09/go-classroom/session"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func status(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("status requires no arguments")
	}

	svc, err := getServices(c)
	if err != nil {
		return err
	}

	printStatus(c, svc)
	if !c.Bool(flagWatch) || !svc.checker.IsValid(c.Context) {
		return nil
	}

	fmt.Fprintln(c.App.Writer, "\nWatching the session; interrupt to stop.")
	watcher := session.NewWatcher(svc.checker, c.Duration(flagInterval), func() {
		fmt.Fprintln(c.App.Writer, "Session expired. Use `classroom signin` to continue.")
	})
	if err := watcher.Run(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "error watching session")
	}
	return nil
}

func printStatus(c *cli.Context, svc *services) {
	rec := svc.store.Load(c.Context)
	valid := svc.checker.IsValid(c.Context)

	table := uitable.New()
	table.AddRow("SIGNED IN", "EMAIL", "EXPIRES", "REMAINING")
	if rec == nil {
		table.AddRow("no", "", "", "")
	} else {
		table.AddRow(
			yesNo(valid),
			rec.Email(),
			rec.Expiry().Local().Format(time.RFC1123),
			svc.checker.Remaining(c.Context).Round(time.Second),
		)
	}
	fmt.Fprintln(c.App.Writer, table)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
