package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qrguard/internal/config"
	"qrguard/pkg/logger"
)

// detectCommand constructs the 'detect' subcommand that scores the given
// domains/URLs for phishing risk and prints one JSON record per input.
func detectCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <domain>...",
		Short: "Scores domains or UPI links for phishing risk",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			det := getDetector(ctx, cfg)

			records, err := det.Detect(ctx, args)
			if err != nil {
				logger.Fatal(ctx, "could not run detection", zap.Error(err))
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(records); err != nil {
				logger.Fatal(ctx, "could not encode records", zap.Error(err))
			}

			for _, rec := range records {
				if rec.IsPhishing {
					fmt.Fprintf(os.Stderr, "warning: %s flagged as phishing (%s)\n", rec.Domain, rec.Reason) //nolint: forbidigo, lll
				}
			}
		},
	}

	return cmd
}
