package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(brandsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(searchCmd)
}

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "Prints the brands in the guitar catalog.",
	Run: func(cmd *cobra.Command, args []string) {
		var brands []string
		res, err := client.R().
			SetContext(cmd.Context()).
			SetResult(&brands).
			Get("/api/brands")
		fatalOnFailure(res, err)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Brand"})
		for _, b := range brands {
			t.AppendRow(table.Row{b})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

type catalogGuitar struct {
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	Category string  `json:"category"`
	Tier     string  `json:"tier"`
	MSRP     float64 `json:"msrp"`
}

var modelsCmd = &cobra.Command{
	Use:   "models <brand>",
	Short: "Prints the catalog models for a brand.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var models []catalogGuitar
		res, err := client.R().
			SetContext(cmd.Context()).
			SetQueryParam("brand", args[0]).
			SetResult(&models).
			Get("/api/models")
		fatalOnFailure(res, err)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Model", "Category", "Tier", "MSRP"})
		for _, m := range models {
			t.AppendRow(table.Row{m.Model, m.Category, m.Tier, fmt.Sprintf("$%.0f", m.MSRP)})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

type searchMatch struct {
	Guitar      catalogGuitar `json:"guitar"`
	Correlation float64       `json:"correlation"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-searches the guitar catalog.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var matches []searchMatch
		res, err := client.R().
			SetContext(cmd.Context()).
			SetQueryParam("q", args[0]).
			SetResult(&matches).
			Get("/api/search")
		fatalOnFailure(res, err)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Brand", "Model", "Correlation"})
		for _, m := range matches {
			t.AppendRow(table.Row{
				m.Guitar.Brand,
				m.Guitar.Model,
				fmt.Sprintf("%.2f", m.Correlation),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
