package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionUpdateCmd())
	cmd.AddCommand(newSessionTransferHostCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var (
		hostName  string
		turf      string
		location  string
		eventTime string
		mapLink   string
		price     int
		splitMode string
		manual    int
		payTarget string
		slots     int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"host_name":    hostName,
				"turf_name":    turf,
				"location":     location,
				"time":         eventTime,
				"map_link":     mapLink,
				"total_price":  price,
				"split_mode":   splitMode,
				"manual_price": manual,
				"pay_target":   payTarget,
				"max_slots":    slots,
			}
			var result Session

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostName, "host-name", "", "Your name on the roster (required)")
	cmd.Flags().StringVar(&turf, "turf", "", "Turf name (required)")
	cmd.Flags().StringVar(&location, "location", "", "Turf location")
	cmd.Flags().StringVar(&eventTime, "time", "", "Event time")
	cmd.Flags().StringVar(&mapLink, "map-link", "", "Map link")
	cmd.Flags().IntVar(&price, "price", 0, "Total turf price (required)")
	cmd.Flags().StringVar(&splitMode, "split", "even", "Split mode: even, manual")
	cmd.Flags().IntVar(&manual, "manual-price", 0, "Per-head price when split is manual")
	cmd.Flags().StringVar(&payTarget, "pay-target", "", "Where players should send payments")
	cmd.Flags().IntVar(&slots, "slots", 14, "Maximum roster slots")
	_ = cmd.MarkFlagRequired("host-name")
	_ = cmd.MarkFlagRequired("turf")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <code>",
		Short: "Show a session's roster and split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Summary

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionUpdateCmd() *cobra.Command {
	var (
		turf      string
		location  string
		eventTime string
		mapLink   string
		price     int
		splitMode string
		manual    int
		payTarget string
		slots     int
	)

	cmd := &cobra.Command{
		Use:   "update <code>",
		Short: "Update session config (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only send fields the user actually set
			req := map[string]any{}
			if cmd.Flags().Changed("turf") {
				req["turf_name"] = turf
			}
			if cmd.Flags().Changed("location") {
				req["location"] = location
			}
			if cmd.Flags().Changed("time") {
				req["time"] = eventTime
			}
			if cmd.Flags().Changed("map-link") {
				req["map_link"] = mapLink
			}
			if cmd.Flags().Changed("price") {
				req["total_price"] = price
			}
			if cmd.Flags().Changed("split") {
				req["split_mode"] = splitMode
			}
			if cmd.Flags().Changed("manual-price") {
				req["manual_price"] = manual
			}
			if cmd.Flags().Changed("pay-target") {
				req["pay_target"] = payTarget
			}
			if cmd.Flags().Changed("slots") {
				req["max_slots"] = slots
			}
			if len(req) == 0 {
				return fmt.Errorf("nothing to update")
			}

			var result Session
			if err := client.Patch(fmt.Sprintf("/api/v1/sessions/%s", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&turf, "turf", "", "Turf name")
	cmd.Flags().StringVar(&location, "location", "", "Turf location")
	cmd.Flags().StringVar(&eventTime, "time", "", "Event time")
	cmd.Flags().StringVar(&mapLink, "map-link", "", "Map link")
	cmd.Flags().IntVar(&price, "price", 0, "Total turf price")
	cmd.Flags().StringVar(&splitMode, "split", "", "Split mode: even, manual")
	cmd.Flags().IntVar(&manual, "manual-price", 0, "Per-head price when split is manual")
	cmd.Flags().StringVar(&payTarget, "pay-target", "", "Where players should send payments")
	cmd.Flags().IntVar(&slots, "slots", 0, "Maximum roster slots")

	return cmd
}

func newSessionTransferHostCmd() *cobra.Command {
	var newHost string

	cmd := &cobra.Command{
		Use:   "transfer-host <code>",
		Short: "Hand host authority to another roster member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"new_host_identity": newHost}

			var result Session
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/transfer-host", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Host transferred to %s", newHost))
			return nil
		},
	}

	cmd.Flags().StringVar(&newHost, "to", "", "Identity of the new host (required)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
