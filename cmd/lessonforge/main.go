// Command lessonforge runs the lesson generation service: an HTTP API that
// drives tool-augmented lesson plan generation against the Gemini API and
// keeps generated lessons in an in-memory store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lessonforge/lessonforge"
)

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml (defaults to the working directory)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := lessonforge.New(ctx, lessonforge.Options{ConfigPath: *configPath})
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "server failed:", err)
		os.Exit(1)
	}
}
