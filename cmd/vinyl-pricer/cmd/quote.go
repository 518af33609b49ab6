package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/vinyl-pricer/internal/config"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

// quoteEntry is one record in a quote file. The pricing signals sit at the
// top level next to the optional name.
type quoteEntry struct {
	Name          string `json:"name,omitempty" yaml:"name"`
	pricing.Input `yaml:",inline"`
}

func quoteCommand() *cobra.Command {
	var output string

	c := &cobra.Command{
		Use:   "quote <file>",
		Short: "Price records from a YAML or JSON file without a database",
		Long: "Reads a single record or a list of records from a YAML or JSON file and\n" +
			"prints the price, strategy code and notes for each. Pricing settings\n" +
			"come from the config file when it exists, defaults otherwise.",
		Example: `  vinyl-pricer quote records.yaml
  vinyl-pricer quote records.json --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadQuoteEntries(args[0])
			if err != nil {
				return err
			}
			eng, err := quoteEngine(cfgFile)
			if err != nil {
				return err
			}
			return writeQuotes(cmd.OutOrStdout(), eng, entries, output)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json)")

	return c
}

// quoteEngine uses the pricing section of the config file when one exists.
func quoteEngine(path string) (*pricing.Engine, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return pricing.New(pricing.DefaultConfig()), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return pricing.New(cfg.Pricing.Engine()), nil
}

// loadQuoteEntries accepts a single mapping or a sequence of mappings.
// JSON is read through the YAML decoder.
func loadQuoteEntries(path string) ([]quoteEntry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted CLI arg
	if err != nil {
		return nil, fmt.Errorf("reading quote file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing quote file: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, errors.New("quote file is empty")
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var entries []quoteEntry
		if err := root.Decode(&entries); err != nil {
			return nil, fmt.Errorf("decoding quote entries: %w", err)
		}
		return entries, nil
	case yaml.MappingNode:
		var entry quoteEntry
		if err := root.Decode(&entry); err != nil {
			return nil, fmt.Errorf("decoding quote entry: %w", err)
		}
		return []quoteEntry{entry}, nil
	default:
		return nil, errors.New("quote file must hold a record or a list of records")
	}
}

func writeQuotes(w io.Writer, eng *pricing.Engine, entries []quoteEntry, output string) error {
	rows := make([]map[string]string, 0, len(entries))
	for i := range entries {
		row := map[string]string{"Name": entryName(entries[i], i)}
		rows = append(rows, pricing.EnrichRow(row, eng.Compute(&entries[i].Input)))
	}

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPRICE\tSTRATEGY\tNOTES")
		for _, row := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				row["Name"],
				row[pricing.ColumnPrice],
				row[pricing.ColumnStrategy],
				row[pricing.ColumnNotes],
			)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

func entryName(e quoteEntry, i int) string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("#%d", i+1)
}
