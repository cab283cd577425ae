package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/codecat1111/radar-clone/internal/tui"
	"github.com/codecat1111/radar-clone/pkg/client"
	"github.com/codecat1111/radar-clone/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	defaultURL := os.Getenv("RADAR_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000"
	}
	apiURL := flag.String("api", defaultURL, "Base URL of the radar API")
	logFile := flag.String("log-file", "", "Write debug logs to this file")
	flag.Parse()

	// The terminal belongs to the UI, so logs only go to a file
	log := zap.NewNop()
	if *logFile != "" {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{*logFile}
		cfg.ErrorOutputPaths = []string{*logFile}
		l, err := cfg.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		log = l
	}
	defer log.Sync()
	logger.SetLogger(log)

	api := client.NewClient(*apiURL, log)
	log.Info("Starting radarctl", zap.String("api", api.BaseURL))

	if err := run(tui.New(api, log)); err != nil {
		fmt.Fprintf(os.Stderr, "Error running radarctl: %v\n", err)
		os.Exit(1)
	}
}

func run(m tui.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithoutSignalHandler())

	runDone := make(chan struct{})
	defer close(runDone)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
		case <-sigCh:
			p.Kill()
		case <-time.After(5 * time.Second):
			p.Kill()
		}
	}()

	_, err := p.Run()
	return err
}
