package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/attributely-go/internal/config"
	"github.com/AngelCh415/attributely-go/internal/enrich"
	"github.com/AngelCh415/attributely-go/internal/models"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [file]",
	Short: "Enrich insight records from a JSON file or stdin",
	Long: `Read one RawInsight object or an array of them and print the enriched JSON.

Examples:
  attributely enrich insights.json
  cat insight.json | attributely enrich --compact`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnrich,
}

var enrichCompact bool

func init() {
	enrichCmd.Flags().BoolVar(&enrichCompact, "compact", false, "Print compact JSON")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	cfg := config.FromEnv()
	log := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
	out, err := enrichJSON(enrich.New(log), data)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !enrichCompact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func enrichJSON(p *enrich.Pipeline, data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var raws []models.RawInsight
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("invalid insight array: %w", err)
		}
		results := p.EnrichAll(raws)
		out := make([]models.EnrichedInsight, len(results))
		for i, r := range results {
			out[i] = r.Insight
		}
		return out, nil
	}
	var raw models.RawInsight
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid insight: %w", err)
	}
	return p.Enrich(raw).Insight, nil
}
