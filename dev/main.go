// Command dev bootstraps a local development environment: the state
// directory, an empty deals database, and a starter config.json5 for
// dealio-server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"dealio-backend/lib/sqliteutil"
	dealsdb "dealio-backend/services/deals/db"
)

const starterConfig = `{
  port: 8000,
  marketfeed: {
    base_url: "http://localhost:9000",
    access_token: "",
    cache_dir: "dev/.state/feedcache",
  },
  deals: {
    database: "dev/.state/deals.db",
    require_listing_url: false,
    scan: {
      min_step_delay_ms: 500,
      max_step_delay_ms: 2000,
      rescan_interval_hours: 6,
    },
  },
}
`

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll("dev/.state", 0777)
	if err != nil && !os.IsExist(err) {
		return err
	}

	db, err := sqliteutil.OpenDB(dealsdb.Schema, "dev/.state/deals.db")
	if err != nil {
		return err
	}
	defer db.Close()
	fmt.Println("deals database ready at dev/.state/deals.db")

	_, err = os.Stat("config.json5")
	if err == nil {
		fmt.Println("config.json5 already exists, leaving it alone")
		return nil
	}
	err = os.WriteFile("config.json5", []byte(starterConfig), 0666)
	if err != nil {
		return err
	}
	fmt.Println("wrote starter config.json5")
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created sucessfully!")
}
