package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/habitd/internal/model"
	"github.com/manav03panchal/habitd/internal/server"
)

// User command flags.
var (
	userFlagUsername string
	userFlagEmail    string
	userFlagPassword string
	userFlagChatID   string
)

// userCmd groups user management commands.
var userCmd = &cobra.Command{
	Use:   "user [command]",
	Short: "Manage user accounts",
}

// userCreateCmd bootstraps a user from the terminal.
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user account directly, bypassing the HTTP API. Useful
for bootstrapping a fresh installation.

Examples:
  habitd user create --username alice --password hunter22xyz
  habitd user create --username bob --password hunter22xyz --chat-id 12345`,
	RunE: runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&userFlagUsername, "username", "", "Username (required)")
	userCreateCmd.Flags().StringVar(&userFlagEmail, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&userFlagPassword, "password", "", "Password (required)")
	userCreateCmd.Flags().StringVar(&userFlagChatID, "chat-id", "", "Telegram chat id for reminders")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	hash, err := server.HashPassword(userFlagPassword)
	if err != nil {
		return err
	}

	user := model.NewUser(userFlagUsername, userFlagEmail, hash)
	user.TelegramChatID = userFlagChatID

	if err := ctx.UserRepo.Create(user); err != nil {
		return err
	}

	cmd.Printf("created %s (%s)\n", user.Username, user.Key)
	return nil
}
