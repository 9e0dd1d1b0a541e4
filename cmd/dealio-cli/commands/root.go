package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var BaseUrl string

var client *resty.Client

var rootCmd = &cobra.Command{
	Use:   "dealio-cli",
	Short: "dealio-cli tracks guitars and inspects deal scans.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		client = resty.New().
			SetBaseURL(BaseUrl).
			SetTimeout(time.Minute)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

// fatalOnFailure exits with the server's error message when the
// response is not a 2xx.
func fatalOnFailure(res *resty.Response, err error) {
	if err != nil {
		fatal(err)
	}
	if res.IsError() {
		fatal(fmt.Errorf("%s: %s", res.Status(), res.String()))
	}
}
