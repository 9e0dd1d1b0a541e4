package main

import (
	"flag"
	"net/http"

	"dealio-backend/lib/configutil"
	"dealio-backend/lib/serviceutil"
	"dealio-backend/services/deals"
	"dealio-backend/services/marketfeed"
)

type DealsConfig struct {
	Database          string           `json:"database"`
	RequireListingUrl bool             `json:"require_listing_url"`
	Scan              deals.ScanConfig `json:"scan"`
}

type Config struct {
	Port       int               `json:"port"`
	Marketfeed marketfeed.Config `json:"marketfeed"`
	Deals      DealsConfig       `json:"deals"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	mux := http.NewServeMux()

	err = InitDeals(ctx, mux, cfg)
	if err != nil {
		serviceutil.Fatal("init deals", err)
	}

	port := cfg.Port
	if port == 0 {
		port = 8000
	}
	go serviceutil.StartHttpServer(port, mux)
	<-ctx.Done()
}
