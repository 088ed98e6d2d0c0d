package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/keerthikaa27/factory-order-dashboard/views"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the access token",
	Long: `Posts the email and password to the backend once and stores the returned
token for later commands. The password is read from stdin when --password is
not given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := openCLI()
		if err != nil {
			return err
		}
		defer env.close()
		return runLogin(cmd, env, cmd.InOrStdin())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := openCLI()
		if err != nil {
			return err
		}
		defer env.close()
		env.shell.Logout(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (read from stdin when empty)")
}

func runLogin(cmd *cobra.Command, env *cliEnv, stdin io.Reader) error {
	email, password := loginEmail, loginPassword
	in := bufio.NewReader(stdin)
	if email == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Email: ")
		email = readLine(in)
	}
	if password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		password = readPassword(cmd.OutOrStdout(), stdin, in)
	}

	login := views.NewLogin(env.client, env.creds, env.logger.Named("login"))
	if login.Submit(cmd.Context(), email, password) == "" {
		return errors.New(login.State().Error)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", login.State().Email)
	return nil
}

func readLine(r *bufio.Reader) string {
	s, _ := r.ReadString('\n')
	return strings.TrimRight(s, "\r\n")
}

// readPassword reads without echo when stdin is a terminal. Piped input is
// read as a plain line.
func readPassword(out io.Writer, stdin io.Reader, in *bufio.Reader) string {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return readLine(in)
}
