// Command geofix normalizes the coordinates of an insured-locations sheet,
// corrects the ones that fall outside their declared state and writes the
// records that pass, along with a report of the ones dropped.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env", "error", err)
	}

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
