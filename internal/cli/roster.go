package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Roster and payment commands",
	}

	cmd.AddCommand(newRosterJoinCmd())
	cmd.AddCommand(newRosterAddCmd())
	cmd.AddCommand(newRosterClaimCmd())
	cmd.AddCommand(newRosterStatusCmd())
	cmd.AddCommand(newRosterRemoveCmd())
	cmd.AddCommand(newRosterResetCmd())

	return cmd
}

func newRosterJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a session's roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}

			var result Entry
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/join", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your name on the roster (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRosterAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <code>",
		Short: "Add an unclaimed entry for someone (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}

			var result Entry
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/players", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRosterClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <code> <entry-id>",
		Short: "Claim an unclaimed roster entry as yours",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Entry
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/players/%s/claim", args[0], args[1]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRosterStatusCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "status <code> <entry-id>",
		Short: "Change an entry's payment status",
		Long: `Change an entry's payment status.

Owners mark their own entry as paid (pending -> review) or withdraw the
mark (review -> pending). The host confirms payments (review -> verified),
rejects them (review -> pending) or reopens verified ones
(verified -> pending).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"status": status}

			var result Entry
			if err := client.Patch(fmt.Sprintf("/api/v1/sessions/%s/players/%s/status", args[0], args[1]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "to", "", "Target status: pending, review, verified (required)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newRosterRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code> <entry-id>",
		Short: "Remove a roster entry (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/sessions/%s/players/%s", args[0], args[1]), nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Entry removed")
			return nil
		},
	}
}

func newRosterResetCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset <code>",
		Short: "Wipe the whole roster (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to wipe the roster without --yes")
			}

			req := map[string]bool{"confirmed": true}
			if err := client.Delete(fmt.Sprintf("/api/v1/sessions/%s/players", args[0]), req); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Roster reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the destructive reset")

	return cmd
}
