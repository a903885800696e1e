package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/internal/app"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

func main() {
	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("failed to initialize wellcal: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
	log.Info("wellcal stopped")
}
