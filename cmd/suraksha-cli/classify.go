package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"suraksha_mesh/internal/classifier"
	"suraksha_mesh/internal/ingest"
	"suraksha_mesh/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputText = "text"

	stdinArg = "-"
)

func classifyCmd() *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Classify telemetry from a file or stdin",
		Long: "Reads one JSON reading or an array of readings, validates and classifies them locally. " +
			"Nothing is persisted.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputJSON, outputYAML, outputText:
			default:
				return fmt.Errorf("unknown output %q; use json, yaml or text", output)
			}

			src := stdinArg
			if len(args) == 1 {
				src = args[0]
			}
			raw, err := readInput(cmd.InOrStdin(), src)
			if err != nil {
				return err
			}

			readings, err := ingest.ParseBatch(raw)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, assessAll(readings, time.Now))
		},
	}
	c.Flags().StringVarP(&output, "output", "o", outputText, "output format: json, yaml or text")
	return c
}

func readInput(stdin io.Reader, src string) ([]byte, error) {
	if src == stdinArg {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	return raw, nil
}

func assessAll(readings []models.TelemetryReading, now func() time.Time) []models.Assessment {
	out := make([]models.Assessment, 0, len(readings))
	for _, r := range readings {
		out = append(out, models.Assessment{
			ID:         uuid.NewString(),
			AssessedAt: now().UTC(),
			Source:     models.SourceCLI,
			Reading:    r,
			Verdict:    classifier.Classify(r),
		})
	}
	return out
}

func render(w io.Writer, format string, as []models.Assessment) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(as)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(as); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderText(w, as)
	}
}

func renderText(w io.Writer, as []models.Assessment) error {
	var b strings.Builder
	for i, a := range as {
		if i > 0 {
			b.WriteString("\n")
		}
		zone := a.Reading.Zone
		if zone == "" {
			zone = "-"
		}
		fmt.Fprintf(&b, "%s [%s] %s\n", a.Reading.WorkerID, zone, a.Verdict.Decision)
		b.WriteString("  reasons:\n")
		for _, r := range a.Verdict.Reasons {
			fmt.Fprintf(&b, "    - %s\n", r)
		}
		b.WriteString("  actions:\n")
		for _, act := range a.Verdict.RecommendedActions {
			fmt.Fprintf(&b, "    - %s\n", act)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
