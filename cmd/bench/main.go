package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kvbind/pkg/api"
	"kvbind/pkg/binding"
	"kvbind/pkg/common"
	"kvbind/pkg/config"
	"kvbind/pkg/monitor"
	"kvbind/pkg/workload"

	_ "kvbind/pkg/embedded"
	_ "kvbind/pkg/redisdb"
)

func main() {
	dbName := flag.String("db", "embedded", "binding to benchmark ("+strings.Join(binding.Names(), ", ")+")")
	files := flag.StringArrayP("property-file", "P", nil, "property or yaml file, may repeat")
	props := flag.StringArrayP("prop", "p", nil, "key=value override, may repeat")
	phase := flag.String("phase", "all", "load, run or all")
	statusAddr := flag.String("status-addr", "", "serve /metrics and /api/stats on this address")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	if err := run(logger, *dbName, *files, *props, *phase, *statusAddr); err != nil {
		logger.Error("benchmark failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func run(logger *zap.Logger, dbName string, files, props []string, phase, statusAddr string) error {
	if phase != "load" && phase != "run" && phase != "all" {
		return common.ConfigError("phase", "unknown phase %q", phase)
	}

	p, err := config.Load(files, props)
	if err != nil {
		return err
	}
	cfg, err := config.LoadWorkload(p)
	if err != nil {
		return err
	}

	db, err := binding.Open(dbName, p, logger)
	if err != nil {
		return err
	}
	stats := monitor.NewWorkloadStats()
	h := binding.NewHandle(monitor.NewMeasured(db, stats))
	defer func() {
		if err := h.Close(); err != nil {
			logger.Warn("close binding", zap.Error(err))
		}
	}()

	var current atomic.Value
	current.Store(phase)
	if statusAddr != "" {
		srv := api.NewServer(stats, logger)
		srv.SetPhase(func() string { return current.Load().(string) })
		srv.Start(statusAddr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := workload.NewRunner(cfg, h, logger)
	fmt.Printf("kvbind benchmark: db=%s threads=%d records=%d operations=%d\n",
		dbName, cfg.ThreadCount, cfg.RecordCount, cfg.OperationCount)
	fmt.Println("---------------------------------------------------")

	if phase == "load" || phase == "all" {
		current.Store("load")
		sum, err := r.Load(ctx)
		if sum != nil {
			report(sum)
		}
		if err != nil {
			return err
		}
	}
	if phase == "run" || phase == "all" {
		current.Store("run")
		sum, err := r.Run(ctx)
		if sum != nil {
			report(sum)
		}
		if err != nil {
			return err
		}
	}
	current.Store("done")
	return nil
}

func report(sum *workload.Summary) {
	fmt.Printf(">> %s: %d ops in %v | QPS: %.0f\n", strings.ToUpper(sum.Phase), sum.Operations,
		sum.Elapsed.Round(time.Millisecond), sum.Throughput())

	ops := make([]string, 0, len(sum.Counts))
	for op := range sum.Counts {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		for _, st := range common.Statuses {
			if n := sum.Count(op, st); n > 0 {
				fmt.Printf("   [%s] %-15s %d\n", strings.ToUpper(op), st, n)
			}
		}
	}
}
