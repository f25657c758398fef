package cli

import (
	"errors"
	"fmt"
	"os"
	"quest/src/repository"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "Create an account that can sign in to the admin site",
	Long: `Create an account that can sign in to the admin site.
The password is prompted for when --password is not given.

Example:
  quest createadmin --username alice`,
	RunE: runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (prompted when empty)")
	createAdminCmd.MarkFlagRequired("username")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	username := strings.TrimSpace(adminUsername)
	if username == "" {
		return errors.New("username cannot be empty")
	}

	password := adminPassword
	if password == "" {
		var err error
		if password, err = readPassword("Password: "); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	logger, cleanup := bootstrap()
	defer cleanup()

	id, err := repository.InsertUser(cmd.Context(), username, hash, true)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("username %q is already taken", username)
		}
		return err
	}

	logger.Info("Admin account created", zap.String("username", username), zap.String("id", id.String()))
	return nil
}

// readPassword prompts without echo, falling back to a plain line read for piped input.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	var password string
	if _, err := fmt.Fscanln(os.Stdin, &password); err != nil {
		return "", err
	}
	return password, nil
}
