package main

import (
	"fmt"

	"github.com/deppfellow/go-forms/internal/config"
	"github.com/spf13/cobra"
)

func checkConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Report which forms are missing configuration",
		Long: `Load the configuration and print, per form, the environment variables
that still need to be set. Values are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			complete := true
			for _, check := range configChecks(cfg) {
				if len(check.missing) == 0 {
					fmt.Fprintf(out, "%-18s ok\n", check.form)
					continue
				}
				complete = false
				fmt.Fprintf(out, "%-18s missing:\n", check.form)
				for _, key := range check.missing {
					fmt.Fprintf(out, "  %s\n", key)
				}
			}

			fmt.Fprintf(out, "%-18s %s\n", "chat", enabled(cfg.Slack.WebhookURL != ""))
			fmt.Fprintf(out, "%-18s %s\n", "email", enabled(cfg.Resend.EmailEnabled()))
			fmt.Fprintf(out, "%-18s %s\n", "shared rate limit", enabled(cfg.Redis.Address != ""))

			if !complete {
				return fmt.Errorf("configuration incomplete")
			}
			return nil
		},
	}
}

type configCheck struct {
	form    string
	missing []string
}

func configChecks(cfg *config.Config) []configCheck {
	return []configCheck{
		{form: "application", missing: cfg.MissingForApplication()},
		{form: "newsletter", missing: cfg.MissingForNewsletter()},
		{form: "newsletter_named", missing: cfg.MissingForNewsletter()},
		{form: "merch", missing: cfg.MissingForMerch()},
	}
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
