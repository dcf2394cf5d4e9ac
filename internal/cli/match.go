package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newGuessCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "guess <room-id> <code>",
		Short: "Submit a 4-digit guess",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"player_name": name,
				"guess":       args[1],
			}
			var result GuessResult

			if err := client.Post(cmd.Context(), "/api/v1/rooms/"+args[0]+"/guesses", req, &result); err != nil {
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

func newAttemptCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "attempt <room-id>",
		Short: "Record an attempt without scoring a guess",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_name": name}

			if err := client.Post(cmd.Context(), "/api/v1/rooms/"+args[0]+"/attempts", req, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Attempt recorded")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your player name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCompleteCmd() *cobra.Command {
	var name string
	var timeTaken int64

	cmd := &cobra.Command{
		Use:   "complete <room-id>",
		Short: "Report that you finished without winning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"player_name": name,
				"time_taken":  timeTaken,
			}

			if err := client.Post(cmd.Context(), "/api/v1/rooms/"+args[0]+"/complete", req, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Game completed")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your player name (required)")
	cmd.Flags().Int64Var(&timeTaken, "time", 0, "Time taken in milliseconds")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newScoreCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "score <room-id> <score>",
		Short: "Set a player's score",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid score %q", args[1])
			}

			path := "/api/v1/rooms/" + args[0] + "/players/" + url.PathEscape(name) + "/score"
			if err := client.Put(cmd.Context(), path, map[string]int{"score": score}, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Score for %s set to %d", name, score))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
