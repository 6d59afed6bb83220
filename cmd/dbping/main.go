package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/lumoshq/lumos/pkg/astra"
	cfgPkg "github.com/lumoshq/lumos/pkg/config"
)

func main() {
	var configPath string
	var timeout time.Duration

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "Connection timeout")
	flag.Parse()

	config, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if config.Astra.Endpoint == "" || config.Astra.Token == "" {
		log.Fatal("ASTRA_DB_API_ENDPOINT and ASTRA_DB_APPLICATION_TOKEN must be defined")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	color.Blue("Connecting to database...")

	client := astra.New(config.Astra.Endpoint, config.Astra.Token, config.Astra.Keyspace)
	collections, err := client.FindCollections(ctx)
	if err != nil {
		color.Red("Error connecting to database: %v", err)
		log.Fatal(err)
	}

	color.Green("✓ Connected to %s (keyspace %s)", config.Astra.Endpoint, config.Astra.Keyspace)
	if len(collections) == 0 {
		color.Yellow("No collections in keyspace")
		return
	}
	color.Cyan("Collections: %s", strings.Join(collections, ", "))
}
