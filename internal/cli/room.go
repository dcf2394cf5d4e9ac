package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomListCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomDeleteCmd())
	cmd.AddCommand(newRoomLeaderboardCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var name string
	var players int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"player_name":      name,
				"expected_players": players,
			}
			var result Room

			if err := client.Post(cmd.Context(), "/api/v1/rooms", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your player name (required)")
	cmd.Flags().IntVar(&players, "players", 2, "Number of players expected")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []RoomSummary

			if err := client.Get(cmd.Context(), "/api/v1/rooms", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(cmd.Context(), "/api/v1/rooms/"+args[0], &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_name": name}
			var result Room

			if err := client.Post(cmd.Context(), "/api/v1/rooms/"+args[0]+"/join", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your player name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <room-id>",
		Short: "Delete a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/rooms/"+args[0]); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Room %s deleted", args[0]))
			return nil
		},
	}
}

func newRoomLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <room-id>",
		Short: "Show a room's players by score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Leaderboard

			if err := client.Get(cmd.Context(), "/api/v1/rooms/"+args[0]+"/leaderboard", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
