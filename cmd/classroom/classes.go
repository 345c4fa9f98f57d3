package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/jrsteele09/go-classroom/classes"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func classesList(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("classes requires no arguments")
	}

	// Command-specific flags
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	all := classes.All()

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.MaxColWidth = 80
		table.Wrap = true
		table.AddRow("GRADE", "CLASS", "DESCRIPTION")
		for _, class := range all {
			table.AddRow(class.Grade, class.Title, class.Description)
		}
		fmt.Fprintln(c.App.Writer, table)

	case "json":
		prettyJSON, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting classes")
		}
		fmt.Fprintln(c.App.Writer, string(prettyJSON))
	}

	return nil
}
