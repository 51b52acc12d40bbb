package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"arenafeed/lib/serviceutil"
	"arenafeed/services/leaderboard"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showDataDir *string
var showCategory *string
var showModel *string

func init() {
	showDataDir = showCmd.Flags().String("data-dir", "data", "The directory holding the data files.")
	showCategory = showCmd.Flags().String("category", "full", "The category key to render.")
	showModel = showCmd.Flags().String("model", "", "Show only the closest-matching model.")
	rootCmd.AddCommand(showCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

type shownModel struct {
	name   string
	rating leaderboard.ModelRating
}

// closestModel picks the row whose name is most similar to the query,
// so `show text --model gpt4o` works without the exact published name.
func closestModel(rows []shownModel, query string) shownModel {
	best := rows[0]
	var bestSimilarity float64
	for _, row := range rows {
		similarity := matchr.JaroWinkler(
			strings.ToLower(row.name),
			strings.ToLower(query),
			false,
		)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = row
		}
	}
	return best
}

var showCmd = &cobra.Command{
	Use:   "show <variant> [--category <key>] [--model <name>]",
	Short: "Renders a category of a published leaderboard file as a table.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		variants, err := leaderboard.SelectVariants([]string{args[0]})
		if err != nil {
			serviceutil.Fatal("failed to select variant", err)
		}
		variant := variants[0]

		contents, err := os.ReadFile(filepath.Join(*showDataDir, variant.File()))
		if err != nil {
			serviceutil.Fatal("failed to read data file", err)
		}
		doc := map[string]json.RawMessage{}
		err = json.Unmarshal(contents, &doc)
		if err != nil {
			serviceutil.Fatal("failed to parse data file", err)
		}

		raw, ok := doc[*showCategory]
		if !ok {
			serviceutil.Fatal(
				"category not found",
				fmt.Errorf("%s has no category %q", variant.File(), *showCategory),
			)
		}
		ratings := map[string]leaderboard.ModelRating{}
		err = json.Unmarshal(raw, &ratings)
		if err != nil {
			serviceutil.Fatal("failed to parse category", err)
		}
		if len(ratings) == 0 {
			serviceutil.Fatal("category is empty", os.ErrNotExist)
		}

		rows := make([]shownModel, 0, len(ratings))
		for name, rating := range ratings {
			rows = append(rows, shownModel{name: name, rating: rating})
		}
		slices.SortFunc(rows, func(a, b shownModel) int {
			if a.rating.Rating != b.rating.Rating {
				if a.rating.Rating > b.rating.Rating {
					return -1
				}
				return 1
			}
			return strings.Compare(a.name, b.name)
		})

		if *showModel != "" {
			rows = []shownModel{closestModel(rows, *showModel)}
		}

		t := newTable()
		t.AppendHeader(table.Row{"#", "Model", "Rating", "95% CI"})
		for i, row := range rows {
			t.AppendRow(table.Row{
				i + 1,
				row.name,
				fmt.Sprintf("%.1f", row.rating.Rating),
				fmt.Sprintf("[%.1f, %.1f]", row.rating.RatingQ025, row.rating.RatingQ975),
			})
		}
		t.Render()
	},
}
