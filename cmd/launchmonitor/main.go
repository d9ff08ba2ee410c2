// Command launchmonitor runs the golf launch monitor: it reads a Doppler
// radar (real or simulated), segments the reading stream into shots, and
// forwards finished shots to a golf simulator and the operator web surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/openlaunch/internal/api"
	"github.com/banshee-data/openlaunch/internal/config"
	"github.com/banshee-data/openlaunch/internal/monitor"
	"github.com/banshee-data/openlaunch/internal/monitoring"
	"github.com/banshee-data/openlaunch/internal/radar"
	"github.com/banshee-data/openlaunch/internal/session"
	"github.com/banshee-data/openlaunch/internal/shot"
	"github.com/banshee-data/openlaunch/internal/sim"
	"github.com/banshee-data/openlaunch/internal/timeutil"
)

var (
	configPath   = flag.String("config", "", "Path to YAML config file (defaults plus OPENLAUNCH_* env apply without one)")
	serialPort   = flag.String("port", "", "Serial port of the OPS243 radar (auto-detect if empty)")
	listen       = flag.String("listen", "", "HTTP listen address for the operator surface (overrides config)")
	mock         = flag.Bool("mock", false, "Use the synthetic radar instead of hardware")
	mockInterval = flag.Duration("mock-interval", 20*time.Second, "Interval between synthetic shots")
	live         = flag.Bool("live", false, "Print every radar reading as it arrives")
	info         = flag.Bool("info", false, "Print radar device info and exit")
	simEnabled   = flag.Bool("sim", false, "Enable simulator shot delivery")
	simHost      = flag.String("sim-host", "", "Simulator host (overrides config)")
	simPort      = flag.Int("sim-port", 0, "Simulator port (overrides config)")
	debug        = flag.Bool("debug", false, "Enable diagnostic logging of filter drops and rejects")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Flags override the layered config for the common operator knobs.
	if *serialPort != "" {
		cfg.SerialPort = *serialPort
	}
	if *listen != "" {
		cfg.Addr = *listen
	}
	if *simEnabled {
		cfg.SimEnabled = true
	}
	if *simHost != "" {
		cfg.SimHost = *simHost
	}
	if *simPort != 0 {
		cfg.SimPort = *simPort
	}
	if *debug {
		cfg.Debug = true
	}
	monitoring.EnableDebug(cfg.Debug)

	var src radar.Source
	if *mock {
		src = radar.NewMock(*mockInterval, true, time.Now().UnixNano())
		log.Printf("using synthetic radar, one shot every %s", *mockInterval)
	} else {
		src = radar.NewOPS243(cfg.SerialPort)
	}

	if err := src.Connect(); err != nil {
		log.Fatalf("failed to connect to radar: %v", err)
	}
	defer src.Disconnect()

	if err := src.ConfigureForGolf(); err != nil {
		log.Fatalf("failed to configure radar: %v", err)
	}

	deviceInfo, err := src.Info()
	if err != nil {
		log.Fatalf("failed to query radar info: %v", err)
	}
	log.Printf("connected to %s (firmware %s)", orUnknown(deviceInfo["Product"]), orUnknown(deviceInfo["Version"]))
	if *info {
		for k, v := range deviceInfo {
			fmt.Printf("  %s: %s\n", k, v)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := session.NewTracker()
	hub := api.NewHub()
	m := monitor.New(src, cfg, timeutil.RealClock{})

	m.OnShot(tracker.Record)
	m.OnShot(hub.BroadcastShot)
	m.OnReading(hub.BroadcastReading)
	if *live {
		m.OnReading(func(r shot.SpeedReading) {
			fmt.Printf("\r  [%.1f mph %s]  ", r.Speed, r.Direction)
		})
	}

	var wg sync.WaitGroup

	var client *sim.Client
	if cfg.SimEnabled {
		client = sim.NewClient(cfg.SimHost, cfg.SimPort)
		if err := client.Connect(); err != nil {
			// The simulator may come up later; deliveries reconnect.
			log.Printf("simulator not available at startup: %v", err)
		}
		dispatcher := sim.NewDispatcher(client, cfg.SimQueueSize)
		m.OnShot(dispatcher.Enqueue)

		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatcher.Run(ctx)
			log.Print("dispatcher routine terminated")
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	// HTTP server goroutine for the operator surface.
	wg.Add(1)
	go func() {
		defer wg.Done()

		server := &http.Server{
			Addr:    cfg.Addr,
			Handler: api.NewServer(cfg, m, hub, tracker).ServeMux(),
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()
		log.Printf("operator surface listening on %s", cfg.Addr)

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			server.Close()
		}
	}()

	log.Print("ready, swing when ready (Ctrl+C to stop)")
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := m.Run(ctx); err != nil {
			log.Printf("monitor terminated: %v", err)
		}
	}()

	wg.Wait()
	if client != nil {
		client.Disconnect()
	}
	log.Print("graceful shutdown complete")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
