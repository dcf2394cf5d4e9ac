package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Guest identity commands",
	}

	cmd.AddCommand(newGuestRegisterCmd())
	cmd.AddCommand(newGuestShowCmd())
	cmd.AddCommand(newGuestForgetCmd())

	return cmd
}

func newGuestRegisterCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a guest and remember its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]string{"display_name": name}
			var result Guest

			if err := client.Post(cmd.Context(), "/api/v1/guests", req, &result); err != nil {
				return err
			}

			// Save guest id
			if err := cfg.SaveGuest(result.ID); err != nil {
				return fmt.Errorf("failed to save guest id: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGuestShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current guest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.GuestID == "" {
				return fmt.Errorf("no guest registered; run 'bullsctl guest register'")
			}

			var result Guest
			if err := client.Get(cmd.Context(), "/api/v1/guests/"+cfg.GuestID, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGuestForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Delete the current guest and its saved id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.GuestID != "" {
				if err := client.Delete(cmd.Context(), "/api/v1/guests/"+cfg.GuestID); err != nil {
					return err
				}
			}
			if err := cfg.ForgetGuest(); err != nil {
				return err
			}

			output(cmd).PrintMessage("Guest forgotten")
			return nil
		},
	}
}
