package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/di"
)

func main() {
	mode := flag.String("mode", "server", "run mode: server or worker")
	flag.Parse()

	application, err := di.BuildApp()
	if err != nil {
		slog.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background(), *mode); err != nil {
		application.LoggerIns().Error("application exited with error", "error", err)
		os.Exit(1)
	}
}
