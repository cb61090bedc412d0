package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/wellnesstracker/internal"
	"github.com/2beens/wellnesstracker/internal/config"
	wellnessmcp "github.com/2beens/wellnesstracker/internal/wellness/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// Wellness dashboard MCP server, talks over stdio.
// Stdout belongs to the protocol, so every log line goes to stderr.

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.SetOutput(os.Stderr)
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	googleCredentials, err := internal.GoogleCredentialsFromEnv()
	if err != nil {
		log.Fatalf("google credentials: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, dbPool, err := internal.OpenStore(ctx, internal.OpenStoreParams{
		Config:            cfg,
		GoogleCredentials: googleCredentials,
		ReadOnly:          true,
	})
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	if dbPool != nil {
		defer dbPool.Close()
	}

	service, err := internal.NewDashboardService(cfg, st, nil)
	if err != nil {
		log.Fatalf("new dashboard service: %v", err)
	}

	server := wellnessmcp.NewServer(service, "1.0.0")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Printf("mcp server: %v", err)
	}
}
