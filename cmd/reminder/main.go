package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/app"
	"github.com/edusphere/backend/internal/remind"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	once := flag.Bool("once", false, "run a single reminder pass and exit")
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	st, err := app.NewStore(config.Database.DSN)
	if err != nil {
		logger.Error.Fatalf("Failed to init store: %v", err)
	}
	defer st.Close()

	reminder, err := remind.NewReminder(config, st)
	if err != nil {
		logger.Error.Fatalf("Failed to build reminder: %v", err)
	}

	if *once {
		if err := reminder.Run(); err != nil {
			logger.Error.Fatalf("Reminder pass failed: %v", err)
		}
		return
	}

	reminder.Start()
	defer reminder.Stop()
	logger.Info.Printf("Reminder scheduler started with cron %q", config.Reminder.Cron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info.Println("Shutting down reminder scheduler")
}
