package main

import (
	"ChintuIdrive/server-surveillance/actions"
	"ChintuIdrive/server-surveillance/api"
	"ChintuIdrive/server-surveillance/clients"
	"ChintuIdrive/server-surveillance/collector"
	"ChintuIdrive/server-surveillance/conf"
	"ChintuIdrive/server-surveillance/cryption"
	"ChintuIdrive/server-surveillance/monitor"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON or YAML config file")
	encryptSecret := flag.String("encrypt-secret", "", "print the enc: form of a secret using $"+conf.SecretKeyEnv+" and exit")
	flag.Parse()

	if *encryptSecret != "" {
		enc, err := cryption.EncryptString(*encryptSecret, os.Getenv(conf.SecretKeyEnv))
		if err != nil {
			fmt.Fprintf(os.Stderr, "encrypt secret: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(enc)
		return
	}

	config := conf.GetDefaultConfig()
	if *configPath != "" {
		var err error
		config, err = conf.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(config.LogFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %s\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	senders, err := clients.NewSenders(ctx, config)
	if err != nil {
		log.Fatalf("notification setup: %v", err)
	}
	notifier := actions.NewActor(config.NotifyTimeout(), senders...)

	ssc := collector.NewSystemStatsCollector(config.DiskMountPoint)
	mon, err := monitor.New(monitor.SettingsFromConfig(config), ssc, notifier)
	if err != nil {
		log.Fatalf("monitor setup: %v", err)
	}
	mon.Start()

	server, rl := api.NewServer(config, mon)
	go func() {
		log.Printf("API running on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("api server: %v", err)
			stop()
		}
	}()
	fmt.Printf("surveillance running, API on %s, logging to %s\n", server.Addr, config.LogFilePath)

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown: %v", err)
	}
	rl.Stop()

	mon.Stop()
	mon.Wait()
	log.Printf("stopped")
}
