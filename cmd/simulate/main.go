package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cascade/internal/biz"
	"cascade/internal/conf"

	kzap "github.com/yola1107/kratos/contrib/log/zap/v2"
	"github.com/yola1107/kratos/v2/config"
	"github.com/yola1107/kratos/v2/config/file"
	"github.com/yola1107/kratos/v2/log"
	"go.uber.org/zap"
)

var (
	flagconf string
	spins    int64
	workers  int
	seed     uint64
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs", "config path, eg: -conf config.yaml")
	flag.Int64Var(&spins, "spins", 100000, "number of spins")
	flag.IntVar(&workers, "workers", 8, "number of workers")
	flag.Uint64Var(&seed, "seed", 1, "base seed, worker i uses seed+i")
}

func main() {
	flag.Parse()

	logger := kzap.New(nil)
	defer logger.Close()
	log.SetLogger(logger)

	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		log.Fatalf("scan config: %v", err)
	}

	cfg, err := biz.NewEngineConfig(bc.Engine)
	if err != nil {
		log.Fatalf("engine config: %v", err)
	}
	engine, err := biz.NewEngine(cfg)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	sources, err := biz.NewSourceFactory(bc.Engine, cfg)
	if err != nil {
		log.Fatalf("symbol source: %v", err)
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("zap: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("simulating %d spins on %dx%d, min cluster %d, %d workers, seed %d",
		spins, cfg.Rows, cfg.Cols, cfg.MinCluster, workers, seed)
	report, err := biz.NewSimulator(engine, sources, workers, zl).Run(ctx, spins, seed)
	if err != nil {
		log.Warnf("simulation interrupted: %v", err)
	}
	fmt.Print(report.String())
}
