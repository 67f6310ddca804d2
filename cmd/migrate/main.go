package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"weatherboard/internal/config"
	"weatherboard/internal/db"
	"weatherboard/internal/migrate"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <command>\n  migrate  apply pending schema/seed migrations\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "migrate":
		conn, err := db.Open(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "db open: %v\n", err)
			os.Exit(1)
		}
		err = migrate.Run(context.Background(), conn)
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migrations applied")
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}
