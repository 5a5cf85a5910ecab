package main

import (
	"fmt"

	"github.com/magicesim/storefront/api"
	"github.com/magicesim/storefront/services/monitoring/logging"
	"github.com/magicesim/storefront/utils"
)

func main() {

	config, err := utils.LoadConfig(utils.EnvPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	logger := logging.NewLogger(config)

	server, err := api.NewServer(config, logger)
	if err != nil {
		panic(fmt.Sprintf("Could not build server: %v", err))
	}
	defer server.Close()

	if err := server.Start(); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
