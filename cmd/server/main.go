package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/freezeraudit/internal/logging"
	"github.com/dmitrijs2005/freezeraudit/internal/server"
	"github.com/dmitrijs2005/freezeraudit/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.Debug)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(ctx)

}
