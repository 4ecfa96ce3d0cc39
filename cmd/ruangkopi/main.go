package main

import (
	"log"

	"github.com/MrSnakeDoc/ruangkopi/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ ruangkopi failed to start: %v", err)
	}
}
