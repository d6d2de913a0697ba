package main

import (
	"flag"

	"ratehub/internal/app"

	"github.com/sirupsen/logrus"
)

//	@title			ratehub API
//	@version		1.0
//	@description	Aggregated currency rates, history and valuations.
//	@BasePath		/api/v1
func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	if err := app.Run(*configPath); err != nil {
		logrus.WithError(err).Fatal("ratehub stopped")
	}
}
