package commands

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dealsCmd)
}

type listing struct {
	Price          float64 `json:"price"`
	Source         string  `json:"source"`
	Condition      string  `json:"condition"`
	SellerVerified bool    `json:"seller_verified"`
	Location       string  `json:"location"`
	URL            string  `json:"url"`
	Score          int     `json:"score"`
}

type scanStatus struct {
	ScanID        string  `json:"scan_id"`
	Active        bool    `json:"active"`
	Progress      float64 `json:"progress"`
	CurrentSource string  `json:"current_source"`
	RevealedCount int     `json:"revealed_count"`
	RejectedCount int     `json:"rejected_count"`
	MarketPrice   float64 `json:"market_price"`
	Err           string  `json:"err"`
}

type scanEvent struct {
	Status   scanStatus `json:"status"`
	Listings []listing  `json:"listings"`
}

func renderListings(listings []listing) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Score", "Price", "Condition", "Source", "Location", "URL"})
	for _, l := range listings {
		t.AppendRow(table.Row{
			l.Score,
			fmt.Sprintf("$%.2f", l.Price),
			l.Condition,
			l.Source,
			l.Location,
			l.URL,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// wsUrl rewrites the configured http(s) base url into its ws(s)
// counterpart for the scan stream endpoint.
func wsUrl(brand, model string) (string, error) {
	u, err := url.Parse(BaseUrl)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/scan/ws"
	q := u.Query()
	q.Set("brand", brand)
	q.Set("model", model)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

var scanCmd = &cobra.Command{
	Use:   "scan <brand> <model>",
	Short: "Runs a scan and follows its progress until the results settle.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		endpoint, err := wsUrl(args[0], args[1])
		if err != nil {
			fatal(err)
		}
		conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), endpoint, nil)
		if err != nil {
			fatal(err)
		}
		defer conn.Close()

		var final scanEvent
		for {
			var ev scanEvent
			err := conn.ReadJSON(&ev)
			if err != nil {
				break
			}
			final = ev
			if ev.Status.Active {
				cmd.Printf(
					"%3.0f%%  %-24s  revealed %d  rejected %d\n",
					ev.Status.Progress,
					ev.Status.CurrentSource,
					ev.Status.RevealedCount,
					ev.Status.RejectedCount,
				)
			}
		}

		if final.Status.Err != "" {
			fatal(fmt.Errorf("scan failed: %s", final.Status.Err))
		}
		cmd.Printf("market price $%.2f\n", final.Status.MarketPrice)
		renderListings(final.Listings)
	},
}

type settledResult struct {
	ScanID      string    `json:"scan_id"`
	CompletedAt time.Time `json:"completed_at"`
	NextScanAt  time.Time `json:"next_scan_at"`
	MarketPrice float64   `json:"market_price"`
	Listings    []listing `json:"listings"`
}

var dealsCmd = &cobra.Command{
	Use:   "deals <brand> <model>",
	Short: "Prints the settled results of the last completed scan.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var result settledResult
		res, err := client.R().
			SetContext(cmd.Context()).
			SetQueryParam("brand", args[0]).
			SetQueryParam("model", args[1]).
			SetResult(&result).
			Get("/api/deals")
		fatalOnFailure(res, err)

		cmd.Printf(
			"scanned %s, next scan %s, market price $%.2f\n",
			result.CompletedAt.Format(time.RFC822),
			result.NextScanAt.Format(time.RFC822),
			result.MarketPrice,
		)
		renderListings(result.Listings)
	},
}
