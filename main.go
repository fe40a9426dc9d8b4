/*
Package main
File: main.go
Description: Server entry point. Loads the battlefield configuration, starts the
real-time WebSocket hub, and runs the heartbeat that paces turn execution.
*/

package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clegas3/Sector-Command/internal/api"
	"github.com/Clegas3/Sector-Command/internal/game"
)

// heartbeat is how often the execution pacing clock advances.
const heartbeat = 100 * time.Millisecond

func main() {
	configPath := flag.String("config", "sector.yaml", "battlefield configuration file")
	scenarioKey := flag.String("scenario", "basic_training", "scenario to run")
	port := flag.String("addr", ":8081", "listen address")
	flag.Parse()

	// 1. Load the static battlefield configuration from YAML
	ctrl, err := loadController(*configPath, *scenarioKey)
	if err != nil {
		log.Fatalf("Config Fail: %v", err)
	}

	// 2. Initialize and start the Real-Time WebSocket Hub
	hub := api.NewHub()
	go hub.Run()
	server := api.NewServer(ctrl, hub)

	// 3. THE PACING HEARTBEAT
	// Execution and results delays only advance while this ticker runs.
	go func() {
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		last := time.Now()
		for now := range ticker.C {
			server.Tick(now.Sub(last))
			last = now
		}
	}()

	// 4. Hot-reload logic: Listen for SIGHUP to reload the config and restart the scenario
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		for range sigChan {
			log.Println("SIGNAL: Reloading battlefield configuration...")
			next, err := loadController(*configPath, *scenarioKey)
			if err != nil {
				log.Printf("SIGNAL: reload failed, keeping current scenario: %v", err)
				continue
			}
			server.Replace(next)
		}
	}()

	// 5. Start the Server
	log.Printf("SECTOR COMMAND Server live on %s", *port)
	log.Printf("Real-time Hub: Online")

	if err := http.ListenAndServe(*port, corsMiddleware(server.Routes())); err != nil {
		log.Fatal(err)
	}
}

func loadController(path, scenario string) (*game.Controller, error) {
	cfg, err := game.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return game.NewController(cfg, scenario, game.Options{})
}

// corsMiddleware lets a browser client on another origin talk to the server.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
