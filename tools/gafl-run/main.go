// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// gafl-run drives the in-process executor against a built-in sample target.
// It demonstrates the intended wiring: observers reset before the run,
// watchdog armed around the run, observers collected after it, crash and
// timeout detection handled by the signal monitor. Input selection is a
// plain random loop; corpus management and mutation live elsewhere.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/gafl/gafl/pkg/config"
	"github.com/gafl/gafl/pkg/executor"
	"github.com/gafl/gafl/pkg/input"
	"github.com/gafl/gafl/pkg/log"
	"github.com/gafl/gafl/pkg/observer"
	"github.com/gafl/gafl/pkg/osutil"
	"github.com/gafl/gafl/pkg/stat"
	"github.com/gafl/gafl/pkg/tool"
	"github.com/gafl/gafl/pkg/watchdog"
)

type Config struct {
	// Per-run deadline after which the watchdog kills the process.
	Timeout time.Duration `json:"timeout"`
	// Address to serve Prometheus metrics on ("" disables the server).
	MetricsAddr string `json:"metrics_addr"`
	// Stop after this many executions (0 means run until interrupted).
	MaxExecs int `json:"max_execs"`
	// Maximum length of generated inputs.
	MaxInputLen int `json:"max_input_len"`
	// Directory for inputs that reached new coverage ("" disables saving).
	ArtifactDir string `json:"artifact_dir"`
}

func defaultConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		MaxInputLen: 64,
	}
}

func main() {
	flagConfig := flag.String("config", "", "configuration file")
	flag.Parse()
	cfg := defaultConfig()
	if *flagConfig != "" {
		if err := config.LoadFile(*flagConfig, cfg); err != nil {
			tool.Fail(err)
		}
	}
	log.EnableLogCaching(1000, 1<<20)

	cov := observer.NewCoverage()
	execTime := observer.NewExecTime()
	exec := executor.NewInMemory("gafl-run", func(exec executor.Executor, data []byte) executor.ExitKind {
		return sampleTarget(cov, data)
	})
	exec.AddObserver(cov)
	exec.AddObserver(execTime)
	dog := watchdog.New(cfg.Timeout)

	shutdown := make(chan struct{})
	osutil.HandleInterrupts(shutdown)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-shutdown
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		startMetrics(ctx, g, cfg.MetricsAddr)
	}
	g.Go(func() error {
		return loop(ctx, cfg, exec, cov, execTime, dog)
	})
	g.Go(func() error {
		heartbeat(ctx)
		return nil
	})
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		tool.Fail(err)
	}
}

// startMetrics serves Prometheus metrics until ctx is canceled, with access
// logging routed into the verbose log. Server errors propagate through the
// group so shutdown is uniform with the fuzz loop.
func startMetrics(ctx context.Context, g *errgroup.Group, addr string) {
	srv := &http.Server{
		Addr:    addr,
		Handler: handlers.CombinedLoggingHandler(log.VerboseWriter(2), promhttp.Handler()),
	}
	g.Go(func() error {
		log.Logf(0, "serving metrics on http://%v/metrics", addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.Background())
	})
}

func loop(ctx context.Context, cfg *Config, exec executor.Executor,
	cov *observer.Coverage, execTime *observer.ExecTime, dog *watchdog.Watchdog) error {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; cfg.MaxExecs == 0 || i < cfg.MaxExecs; i++ {
		if ctx.Err() != nil {
			return nil
		}
		data := make([]byte, rnd.Intn(cfg.MaxInputLen)+1)
		rnd.Read(data)
		exec.PlaceInput(input.NewBytes(data))
		if err := exec.ResetObservers(); err != nil {
			log.Logf(0, "observer reset failed: %v", err)
		}
		execTime.Start()
		dog.Arm()
		kind, err := exec.RunTarget()
		dog.Disarm()
		if err != nil {
			return fmt.Errorf("run target: %w", err)
		}
		if err := exec.PostExecObservers(); err != nil {
			log.Logf(0, "observer collection failed: %v", err)
		}
		if kind != executor.ExitOk {
			log.Logf(0, "harness reported %v for input %x", kind, data)
		}
		if edges := cov.NewEdges(); len(edges) > 0 {
			log.Logf(1, "input %x reached %v new edges", data, len(edges))
			if cfg.ArtifactDir != "" {
				if err := saveArtifact(cfg.ArtifactDir, i, data); err != nil {
					log.Logf(0, "failed to save input: %v", err)
				}
			}
		}
	}
	return nil
}

func saveArtifact(dir string, seq int, data []byte) error {
	if err := osutil.MkdirAll(dir); err != nil {
		return err
	}
	return osutil.WriteFile(filepath.Join(dir, fmt.Sprintf("input-%06v", seq)), data)
}

func heartbeat(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Logf(0, "%v", statsLine())
		}
	}
}

func statsLine() string {
	var parts []string
	for _, ui := range stat.Collect() {
		parts = append(parts, fmt.Sprintf("%v=%v", ui.Name, ui.Value))
	}
	return strings.Join(parts, " ")
}

// sampleTarget is a stand-in for an instrumented target: it reports an edge
// per recognized byte pattern. Real targets link their own instrumentation
// and call Coverage.Hit from it.
func sampleTarget(cov *observer.Coverage, data []byte) executor.ExitKind {
	cov.Hit(1)
	if len(data) > 0 && data[0] == 'G' {
		cov.Hit(2)
		if len(data) > 1 && data[1] == 'O' {
			cov.Hit(3)
		}
	}
	if len(data) > 8 {
		cov.Hit(4)
	}
	return executor.ExitOk
}
