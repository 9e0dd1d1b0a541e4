package main

import (
	"context"
	"fmt"
	"os"

	"dealio-backend/cmd/dealio-cli/commands"
	"dealio-backend/lib/telemetry"
)

func main() {
	baseUrl, ok := os.LookupEnv("DEALIO_BASE_URL")
	if !ok {
		fmt.Println("You should specify the base url of the dealio server in the environment variable DEALIO_BASE_URL.")
		os.Exit(1)
	}
	commands.BaseUrl = baseUrl

	telemetry.SetupFromEnv(context.Background(), "dealio-cli")
	telemetry.InitSlog(false)
	commands.ExecuteContext(context.Background())
}
