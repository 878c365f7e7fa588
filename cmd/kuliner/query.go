package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperjump/kuliner/internal/cli"
	"github.com/hyperjump/kuliner/internal/models"
)

const recommendExamples = `  kuliner recommend kopi murah
  kuliner recommend "tempat nongkrong di dago" --top 10
  kuliner recommend masakan padang --price murah
  kuliner recommend sushi braga --output json
  kuliner recommend "Kopi Toko Djawa"             # exact business name`

func newRecommendCmd(a *app) *cobra.Command {
	var (
		price  string
		top    int
		output string
	)
	cmd := &cobra.Command{
		Use:   "recommend <query...>",
		Short: "Recommend food businesses for a free-text query",
		Long: `Ranks the catalog against the query. Typos are corrected, regional synonyms and
location names are understood, and a short note explains when nothing fully matches.
The query is all remaining arguments joined by spaces.`,
		Example: recommendExamples,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			filter, err := models.ParsePriceFilter(price)
			if err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}
			defer a.close()
			e, _, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := e.Recommend(buildQuery(args), filter, top)
			if err != nil {
				return err
			}
			return cli.WriteRecommendation(cmd.OutOrStdout(), rec, format)
		},
	}
	cmd.Flags().StringVar(&price, "price", "all", "price filter: all, low, medium, high (or semua, murah, sedang, mahal)")
	cmd.Flags().IntVarP(&top, "top", "n", 0, "number of results (0 uses search.default_top_n)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

func newBrowseCmd(a *app) *cobra.Command {
	var (
		category, price, location string
		limit                     int
		output                    string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List businesses by category, price tier or location",
		Example: `  kuliner browse --category cafe --limit 10
  kuliner browse --price mahal
  kuliner browse --location braga`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			if category == "" && price == "" && location == "" {
				return errors.New("one of --category, --price or --location is required")
			}
			if err := a.setup(); err != nil {
				return err
			}
			defer a.close()
			e, _, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			var out []*models.Business
			switch {
			case category != "":
				out, err = e.FilterByCategory(category, limit)
			case price != "":
				out, err = e.FilterByPrice(price)
			default:
				out, err = e.FilterByLocation(location)
			}
			if err != nil {
				return err
			}
			if limit > 0 && len(out) > limit {
				out = out[:limit]
			}
			return cli.WriteRecords(cmd.OutOrStdout(), out, format)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category substring, e.g. cafe")
	cmd.Flags().StringVar(&price, "price", "", "price tier label, e.g. murah")
	cmd.Flags().StringVar(&location, "location", "", "address substring, e.g. dago")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records (0 for all)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	cmd.MarkFlagsMutuallyExclusive("category", "price", "location")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}
			defer a.close()
			e, _, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			return cli.WriteStats(cmd.OutOrStdout(), e.Stats(), format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kuliner version %s\n", version)
		},
	}
}
