package commands

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(untrackCmd)
	rootCmd.AddCommand(listCmd)
}

var trackCmd = &cobra.Command{
	Use:   "track <brand> <model>",
	Short: "Starts tracking a guitar and kicks off its first scan.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		res, err := client.R().
			SetContext(cmd.Context()).
			SetBody(map[string]string{"brand": args[0], "model": args[1]}).
			Post("/api/guitars")
		fatalOnFailure(res, err)
		cmd.Printf("now tracking %s %s\n", args[0], args[1])
	},
}

var untrackCmd = &cobra.Command{
	Use:   "untrack <brand> <model>",
	Short: "Stops tracking a guitar and discards its settled results.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		res, err := client.R().
			SetContext(cmd.Context()).
			SetQueryParam("brand", args[0]).
			SetQueryParam("model", args[1]).
			Delete("/api/guitars")
		fatalOnFailure(res, err)
		cmd.Printf("stopped tracking %s %s\n", args[0], args[1])
	},
}

type trackedGuitar struct {
	Brand   string    `json:"brand"`
	Model   string    `json:"model"`
	AddedAt time.Time `json:"added_at"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints all tracked guitars.",
	Run: func(cmd *cobra.Command, args []string) {
		var guitars []trackedGuitar
		res, err := client.R().
			SetContext(cmd.Context()).
			SetResult(&guitars).
			Get("/api/guitars")
		fatalOnFailure(res, err)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Brand", "Model", "Tracked Since"})
		for _, g := range guitars {
			t.AppendRow(table.Row{g.Brand, g.Model, g.AddedAt.Format(time.DateOnly)})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
