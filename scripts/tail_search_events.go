//go:build ignore

// Tails search analytics events off the NATS bus. Useful for checking what
// downstream consumers actually receive.
//
// Usage: go run scripts/tail_search_events.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ai-shopsearch-be/pkg/events"
	pktNats "ai-shopsearch-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	color.Cyan("👂 Tailing search events on %s", natsURL)
	color.Cyan("==========================================")

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		color.Red("❌ Failed to connect: %v", err)
		os.Exit(1)
	}
	defer sub.Close()

	err = sub.Subscribe("events.search.performed", "search-events-tail", func(_ context.Context, event events.Event) error {
		pretty, _ := json.MarshalIndent(event.Payload(), "", "  ")
		color.Green("── %s", event.EventType())
		fmt.Println(string(pretty))
		return nil
	})
	if err != nil {
		color.Red("❌ Subscribe failed: %v", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	color.Yellow("Stopped.")
}
