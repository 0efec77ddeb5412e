package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vaaskel/vaaskel/config"
	"github.com/vaaskel/vaaskel/database"
	"github.com/vaaskel/vaaskel/pkg/password"
	"github.com/vaaskel/vaaskel/service"
)

var resetPasswordCmdFlags struct {
	Password string
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Reset the password of a user account",
	Long:  `Reset the password of a user account, for example to recover a locked-out admin.`,
	Args:  cobra.ExactArgs(1),
	Run:   resetPassword,
}

func init() {
	resetPasswordCmd.Flags().StringVar(&resetPasswordCmdFlags.Password, "password", "", "New password (required)")
	_ = resetPasswordCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(resetPasswordCmd)
}

func resetPassword(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint: errcheck

	user, err := db.GetUserByUsername(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("no user named %q", args[0])
		}
		log.Fatalf("failed to look up user: %v", err)
	}

	users := service.NewUserService(db, password.NewBcrypt(bcrypt.DefaultCost))
	if _, err := users.ResetPassword(cmd.Context(), user.ID, resetPasswordCmdFlags.Password); err != nil {
		log.Fatalf("failed to reset password: %v", err)
	}

	fmt.Printf("Password of %s reset successfully!\n", user.Username)
}
