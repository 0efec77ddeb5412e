package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaaskel/vaaskel/config"
	"github.com/vaaskel/vaaskel/database"
	"github.com/vaaskel/vaaskel/pkg/password"
	"github.com/vaaskel/vaaskel/service"
)

var usersCmdFlags struct {
	Offset int
	Limit  int
	Filter string
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List user accounts",
	Long:  `List user accounts with their roles and status flags, optionally filtered by username.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		users := service.NewUserService(db, password.NewBcrypt(bcrypt.DefaultCost))

		total, err := users.CountUsersByUsername(cmd.Context(), usersCmdFlags.Filter)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}

		records, err := users.FindUsersByUsername(cmd.Context(), usersCmdFlags.Filter, usersCmdFlags.Offset, usersCmdFlags.Limit)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		for _, rec := range records {
			assigned, err := users.GetUserRoles(cmd.Context(), rec.ID)
			if err != nil {
				return fmt.Errorf("failed to load roles: %w", err)
			}
			roles := lo.Map(assigned, func(r database.RoleType, _ int) string { return string(r) })
			status := "active"
			if !rec.Enabled {
				status = "disabled"
			} else if !rec.AccountNonLocked {
				status = "locked"
			}
			fmt.Printf("  ID: %d, Username: %s, Roles: [%s], Status: %s, Created: %s\n",
				rec.ID, rec.Username, strings.Join(roles, ", "), status, timediff.TimeDiff(rec.CreatedAt))
		}

		fmt.Printf("\n%s users total\n", humanize.Comma(total))
		return nil
	},
}

func init() {
	usersCmd.Flags().IntVar(&usersCmdFlags.Offset, "offset", 0, "Number of users to skip")
	usersCmd.Flags().IntVar(&usersCmdFlags.Limit, "limit", 50, "Maximum number of users to print")
	usersCmd.Flags().StringVar(&usersCmdFlags.Filter, "filter", "", "Case-insensitive username substring filter")

	rootCmd.AddCommand(usersCmd)
}
