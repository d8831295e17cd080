package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tempowise/internal/model"
	"tempowise/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default categories for a user",
	Long: `Create Work, Study, Exercise, Leisure and Other for a user that has not
been seeded yet. The user is created when it does not exist.`,
	RunE: runSeed,
}

var seedTelegramID int64

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Int64Var(&seedTelegramID, "telegram-id", 0, "Telegram user ID")
	_ = seedCmd.MarkFlagRequired("telegram-id")
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	user, err := findOrCreateUser(ctx, a.users, seedTelegramID)
	if err != nil {
		return err
	}

	seeded, err := a.services(nil).Categories.SeedDefaults(ctx, user)
	if err != nil {
		return err
	}
	if !seeded {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already has default categories\n", displayName(user))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created default categories for %s\n", displayName(user))
	return nil
}

func findOrCreateUser(ctx context.Context, users *repository.UserRepository, telegramID int64) (*model.User, error) {
	user, err := users.FindByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return users.UpsertFromTelegram(ctx, telegramID, "", "", "")
}
