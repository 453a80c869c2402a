package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salesledger/internal/config"
	"salesledger/internal/http/handlers"
	applog "salesledger/internal/log"
	"salesledger/internal/repos"
)

func main() {
	cfg := config.Load()
	log := applog.L()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.WithError(err).Warnf("could not open log file %s", cfg.LogFile)
		} else {
			defer f.Close()
			applog.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("db.open")
	}
	defer db.Close()

	if err := repos.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("db.seed")
	}

	if cfg.AuthRequired && cfg.AdminPassword == "" {
		log.Warn("auth is required but ADMIN_PASSWORD is empty; only existing users can log in")
	}

	app, _ := handlers.NewApp(cfg, db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.WithError(err).Error("server.shutdown")
		}
	}()

	log.WithField("port", cfg.Port).Info("server.start")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Error("server.listen")
	}
	log.Info("server.stop")
}
