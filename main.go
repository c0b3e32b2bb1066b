package main

import (
	"log"

	"github.com/dyike/BrokerGo/internal/cli"
	"github.com/dyike/BrokerGo/internal/config"
)

func main() {
	cfg := config.DefaultConfig()

	if err := cli.RunDemo(cfg); err != nil {
		log.Fatalf("Demo failed: %v", err)
	}
}
