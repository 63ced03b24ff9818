package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var webhookURL string

// webhookCmd groups the webhook subscription management commands.
var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage Withings webhook subscriptions",
}

var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active webhook subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer logg.Sync()

		cl, err := buildClients(cfg, logg)
		if err != nil {
			return err
		}

		subs, err := cl.withings.ListSubscriptions(context.Background())
		if err != nil {
			return err
		}

		if len(subs) == 0 {
			logg.Info("No active webhook subscriptions")
			return nil
		}
		for _, sub := range subs {
			logg.Info("Active subscription",
				zap.Int("appli", sub.Appli),
				zap.String("callback_url", sub.CallbackURL),
				zap.String("comment", sub.Comment))
		}
		return nil
	},
}

var webhookSubscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Subscribe this server to weight notifications",
	Long: `Registers the webhook callback with Withings. The callback defaults to
the configured public URL; the server must be reachable over HTTPS when
this runs, since Withings probes the URL before accepting it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer logg.Sync()

		url := webhookURL
		if url == "" {
			url = cfg.Server.WebhookURL()
		}
		if url == "" {
			return fmt.Errorf("no callback URL: set --url or server.public_url")
		}

		cl, err := buildClients(cfg, logg)
		if err != nil {
			return err
		}
		return cl.withings.Subscribe(context.Background(), url)
	},
}

var webhookRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke the weight notification subscription",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer logg.Sync()

		url := webhookURL
		if url == "" {
			url = cfg.Server.WebhookURL()
		}
		if url == "" {
			return fmt.Errorf("no callback URL: set --url or server.public_url")
		}

		cl, err := buildClients(cfg, logg)
		if err != nil {
			return err
		}
		return cl.withings.Revoke(context.Background(), url)
	},
}

func init() {
	webhookCmd.PersistentFlags().StringVar(&webhookURL, "url", "", "callback URL (defaults to the configured public URL)")
	webhookCmd.AddCommand(webhookListCmd)
	webhookCmd.AddCommand(webhookSubscribeCmd)
	webhookCmd.AddCommand(webhookRevokeCmd)
	RootCmd.AddCommand(webhookCmd)
}
