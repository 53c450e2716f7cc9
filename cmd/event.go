package cmd

import (
	"fmt"
	"slices"

	"github.com/frahmantamala/admin-mock-backend/internal/core/events"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Auth event helpers",
	Long:  `Inspect the auth audit events the server publishes.`,
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the auth event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.AuthEventTypes {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish an auth event through the audit logger",
	Long:  `Publish an auth event to an in-process bus wired to the audit logger, to check the audit log format.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventType := args[0]
		if !slices.Contains(events.AuthEventTypes, eventType) {
			return fmt.Errorf("unknown event type %q", eventType)
		}

		lg := logger.LoggerWrapper()
		bus := events.NewEventBus(lg)
		bus.Subscribe(eventType, events.NewAuditHandler(lg))

		return bus.PublishSync(cmd.Context(), events.NewAuthEvent(eventType, eventUser, eventReason))
	},
}

var (
	eventUser   string
	eventReason string
)

func init() {
	publishEventCmd.Flags().StringVar(&eventUser, "user", "", "username carried by the event")
	publishEventCmd.Flags().StringVar(&eventReason, "reason", "", "reason carried by the event")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)
}
