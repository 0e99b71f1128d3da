package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/attributely-go/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "attributely",
	Short: "Marketing attribution backend",
	Long: `attributely tracks conversion events, proxies ad-platform APIs and enriches
campaign insights with derived metrics, an attribution score and recommendations.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(enrichCmd)
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
}
