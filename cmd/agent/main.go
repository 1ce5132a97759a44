package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nkhalid/wifiwatch/internal/adapter"
	"github.com/nkhalid/wifiwatch/internal/config"
	"github.com/nkhalid/wifiwatch/internal/events"
	"github.com/nkhalid/wifiwatch/internal/logger"
	"github.com/nkhalid/wifiwatch/internal/logsink"
	"github.com/nkhalid/wifiwatch/internal/monitor"
	"github.com/nkhalid/wifiwatch/internal/report"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {

	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Load config (missing file falls back to defaults)
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Init logger
	logger.Init(cfg.Logging)

	sessionID := uuid.New().String()
	start := time.Now()
	log.Info().Str("session", sessionID).Str("log_file", cfg.Monitor.LogFile).Msg("starting wifiwatch agent")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OS Signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	//------------------------------------------
	// SHARED COLLABORATORS
	//------------------------------------------
	sink := logsink.New(cfg.Monitor.LogFile)
	if err := sink.Append("monitoring session started, session " + sessionID); err != nil {
		log.Error().Err(err).Msg("log append failed")
	}

	prober := adapter.NewNetlinkProber()
	runner := report.ExecRunner{}

	//------------------------------------------
	// START MONITOR + EVENT COLLECTOR
	//------------------------------------------
	mon := monitor.New(prober, sink, cfg.Monitor.PollInterval())
	coll := events.NewCollector(
		events.NewJournalSource(runner),
		sink,
		cfg.Events.CollectInterval(),
		cfg.Events.Lookback(),
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		mon.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		coll.Run(ctx)
	}()

	// both loops exiting without a signal means something went wrong;
	// shut down the same way so the report still gets written
	loopsDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(loopsDone)
	}()

	//------------------------------------------
	// WAIT FOR SHUTDOWN SIGNAL
	//------------------------------------------
	select {
	case sig := <-sigChan:
		log.Warn().Str("signal", sig.String()).Msg("shutdown signal received")
	case <-loopsDone:
		log.Error().Msg("background loops stopped unexpectedly")
	}

	//------------------------------------------
	// SHUTDOWN SEQUENCE
	//------------------------------------------
	log.Info().Msg("stopping monitor and collector...")
	cancel()
	wg.Wait()

	log.Info().Msg("generating shutdown report...")
	asm := report.NewAssembler(prober, runner, sink.Path(), cfg.Report.Dir, cfg.Report.PingTarget, cfg.Report.PingCount)
	path, err := asm.Assemble(context.Background(), sessionID, start)
	if err != nil {
		log.Error().Err(err).Msg("report generation failed")
	} else {
		log.Info().Str("report", path).Msg("report written")
	}

	log.Info().Msg("agent stopped cleanly")
}
