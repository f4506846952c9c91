// migrate applies the embedded schema migrations: go run ./cmd/migrate [--direction up|down].
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"hotelmgt/internal/config"
	"hotelmgt/internal/db/migrate"
)

func main() {
	direction := pflag.StringP("direction", "d", "up", "migration direction: up or down")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; create a .env or export DATABASE_URL")
		os.Exit(1)
	}

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return
		}
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Printf("migrations applied (%s)\n", *direction)
}
