package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func signIn(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("signin requires no arguments")
	}

	svc, err := getServices(c)
	if err != nil {
		return err
	}

	resp, err := svc.auth.SignIn(c.Context, c.String(flagEmail), c.String(flagPassword))
	if err != nil {
		return err
	}

	rec := resp.Data.Session
	if !rec.HasCredentials() {
		return errors.New("the service accepted the credentials but returned no session")
	}
	fmt.Fprintf(c.App.Writer, "Signed in as %s. Session valid until %s.\n", c.String(flagEmail), rec.Expiry().Local().Format(time.RFC1123))
	return nil
}

func signUp(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("signup requires no arguments")
	}

	svc, err := getServices(c)
	if err != nil {
		return err
	}

	resp, err := svc.auth.SignUp(c.Context, c.String(flagName), c.String(flagEmail), c.String(flagPassword))
	if err != nil {
		return err
	}

	if resp.Data.Session.HasCredentials() {
		fmt.Fprintf(c.App.Writer, "Account created; signed in as %s.\n", c.String(flagEmail))
		return nil
	}
	fmt.Fprintln(c.App.Writer, "Account created. Use `classroom signin` to continue.")
	return nil
}

func signOut(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("signout requires no arguments")
	}

	svc, err := getServices(c)
	if err != nil {
		return err
	}

	// The local session is discarded even when the service rejects the
	// sign-out, so report the failure without failing the command.
	if err := svc.auth.SignOut(c.Context); err != nil {
		fmt.Fprintf(c.App.Writer, "The service reported: %s\n", err)
	}
	fmt.Fprintln(c.App.Writer, "Signed out.")
	return nil
}
