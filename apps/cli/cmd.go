package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/koperasi/core/guard"
	"github.com/trezcool/koperasi/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errLoginFailed = errors.New("invalid email or password")
	errNoSession   = errors.New("not logged in; run 'koperasi login' first")
)

type commandLine struct {
	store session.Store
	guard *guard.Guard
}

func (cli *commandLine) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "koperasi",
		Short:         "Koperasi dashboard session client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var email, password string
	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Enter password:")
				pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return errors.Wrap(err, "reading password")
				}
				password = string(pwd)
			}
			return cli.login(cmd, email, password)
		},
	}
	login.Flags().StringVar(&email, "email", "", "The account email")
	login.Flags().StringVar(&password, "password", "", "The account password. Prompted when omitted.")

	root.AddCommand(
		login,
		&cobra.Command{
			Use:   "logout",
			Short: "Sign out and clear the persisted session",
			Args:  cobra.NoArgs,
			RunE:  cli.logout,
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the signed in user",
			Args:  cobra.NoArgs,
			RunE:  cli.whoami,
		},
		&cobra.Command{
			Use:   "can ROUTE",
			Short: "Show how the dashboard handles a navigation to ROUTE",
			Args:  cobra.ExactArgs(1),
			RunE:  cli.can,
		},
		&cobra.Command{
			Use:   "menu",
			Short: "List the dashboard pages available to the signed in user",
			Args:  cobra.NoArgs,
			RunE:  cli.menu,
		},
	)
	return root
}

func (cli *commandLine) login(cmd *cobra.Command, email, password string) error {
	if !cli.store.Login(cmd.Context(), email, password) {
		return errLoginFailed
	}
	p, _ := cli.store.Current()
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", p.Name, p.Role.Label())
	return nil
}

func (cli *commandLine) logout(cmd *cobra.Command, _ []string) error {
	cli.store.Logout(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func (cli *commandLine) whoami(cmd *cobra.Command, _ []string) error {
	p, ok := cli.store.Current()
	if !ok {
		return errNoSession
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s <%s>\n", p.Name, p.Email)
	fmt.Fprintf(out, "role: %s\n", p.Role.Label())
	if p.Branch != "" {
		fmt.Fprintf(out, "branch: %s\n", p.Branch)
	}
	return nil
}

func (cli *commandLine) can(cmd *cobra.Command, args []string) error {
	d := cli.guard.Check(args[0], cli.store.Snapshot())
	line := d.Kind.String()
	if d.Kind == guard.Redirect {
		line += " " + d.Target
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

func (cli *commandLine) menu(cmd *cobra.Command, _ []string) error {
	p, ok := cli.store.Current()
	if !ok {
		return errNoSession
	}
	var b strings.Builder
	for _, item := range cli.guard.Menu(p) {
		fmt.Fprintf(&b, "%-12s %s\n", item.Route, item.Label)
	}
	fmt.Fprint(cmd.OutOrStdout(), b.String())
	return nil
}
