package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/seitarof/gen-demo/internal/attr"
	"github.com/seitarof/gen-demo/internal/classifier"
	"github.com/seitarof/gen-demo/internal/cli"
	"github.com/seitarof/gen-demo/internal/generator"
	"github.com/seitarof/gen-demo/internal/logger"
	"github.com/seitarof/gen-demo/internal/matcher"
	"github.com/seitarof/gen-demo/internal/parser"
	"github.com/seitarof/gen-demo/internal/synth"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gen-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		return err
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return nil
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	log, err := logger.New(logCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := parser.New(parser.Options{Tags: cfg.Tags, Logger: log})
	m := matcher.New()
	attrs := attr.NewParser(nil)
	c := classifier.New(attrs, log, classifier.DefaultRules()...)
	s := synth.New(attrs, c, log)
	w := generator.NewFileWriter()
	if cfg.DryRun {
		w = generator.NewStreamWriter(os.Stdout)
	}
	g := generator.New(generator.NewGoimportsFormatter(), w)

	runner := cli.NewRunner(p, m, s, g, log)
	return runner.Run(ctx, cfg)
}
