package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doctags/doctags/internal/config"
	"github.com/doctags/doctags/internal/types"
)

var (
	listFormat string
	listLocale string
	listHidden bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List processed tags in display order",
	Long: `List prints every processed tag in the stable display order: priority
descending, page count descending, label ascending.

Examples:
  doctags list                    # Table output
  doctags list -f json            # JSON output
  doctags list -f yaml            # YAML output
  doctags list --locale fr        # Resolve labels for another locale
  doctags list --hidden           # Include hidden tags`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json, yaml)")
	listCmd.Flags().StringVar(&listLocale, "locale", "", "Display locale (default is i18n.default_locale)")
	listCmd.Flags().BoolVar(&listHidden, "hidden", false, "Include hidden tags")
	restrictFlag(listCmd, "format", "table", "json", "yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	locale := listLocale
	if locale == "" {
		locale = cfg.I18n.DefaultLocale
	}

	tagStore := newStore(cfg, newLogger())
	if err := tagStore.Initialize(cmd.Context(), locale); err != nil {
		return err
	}
	tags, err := tagStore.AllSorted(locale)
	if err != nil {
		return err
	}

	if !listHidden {
		visible := tags[:0]
		for _, tag := range tags {
			if !tag.Hidden {
				visible = append(visible, tag)
			}
		}
		tags = visible
	}

	if len(tags) == 0 {
		fmt.Println("No tags found.")
		return nil
	}

	switch listFormat {
	case "json":
		out, err := json.MarshalIndent(tags, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(tags)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	default:
		printTagTable(tags)
	}
	return nil
}

func printTagTable(tags []*types.ProcessedTag) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tCOUNT\tPRIORITY\tURL\tRELATED")
	for _, tag := range tags {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			tag.ID, tag.Label, tag.Count, tag.Priority, tag.URL,
			strings.Join(tag.RelatedTags, ","))
	}
	w.Flush()
}
