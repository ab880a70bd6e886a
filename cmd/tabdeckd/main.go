package main

import (
	"log"

	"github.com/tabdeck/tabdeck/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ tabdeckd failed to start: %v", err)
	}
}
