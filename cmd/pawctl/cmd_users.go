package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	identityapp "github.com/pawmart/backend/internal/application/identity"
	"github.com/pawmart/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetPasswordValue string

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Reset a user's password and clear any lockout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := boot()
		if err != nil {
			return err
		}
		defer app.Close()

		username := args[0]
		password := resetPasswordValue
		if password == "" {
			fmt.Print("New password: ")
			raw, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(raw, "\r\n")
		}

		userRepo := persistence.NewGormUserRepository(app.db.DB)
		roleRepo := persistence.NewGormRoleRepository(app.db.DB)
		storeRepo := persistence.NewGormStoreRepository(app.db.DB)
		userService := identityapp.NewUserService(userRepo, roleRepo, storeRepo, app.log)

		user, err := userRepo.FindByUsername(cmd.Context(), username)
		if err != nil {
			return fmt.Errorf("find user %q: %w", username, err)
		}

		if err := userService.ResetPassword(cmd.Context(), user.ID, identityapp.ResetPasswordRequest{
			NewPassword: password,
		}); err != nil {
			return fmt.Errorf("reset password: %w", err)
		}

		app.log.Info("Password reset", zap.String("username", username))
		return nil
	},
}

func init() {
	resetPasswordCmd.Flags().StringVar(&resetPasswordValue, "password", "", "New password (prompted interactively when omitted)")
}
