package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dusk-indust/slideroute/internal/config"
	"github.com/dusk-indust/slideroute/internal/contract"
	"github.com/dusk-indust/slideroute/internal/mcptools"
	"github.com/dusk-indust/slideroute/internal/routing"
)

// runServeMCP compiles the contract once and serves the diagnostics tools
// over HTTP until interrupted.
func runServeMCP(args []string) error {
	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	templatePath := fs.String("template", "", "template source JSON file")
	configPath := fs.String("config", "", "deck config file (defaults to slideroute.yml in the current directory)")
	addr := fs.String("addr", "localhost:8535", "listen address")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *templatePath == "" {
		return fmt.Errorf("serve-mcp: -template is required")
	}

	log, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadDeckConfig(*configPath)
	if err != nil {
		return err
	}
	src, err := config.LoadTemplate(*templatePath)
	if err != nil {
		return err
	}
	compiled, err := contract.Compile(src, &cfg.Mappings)
	if err != nil {
		return fmt.Errorf("serve-mcp: %w", err)
	}

	enforcer := routing.NewEnforcer(compiled, routing.NewSession(src), routing.WithLogger(log))
	svc := mcptools.NewDiagnosticsService(enforcer, mcptools.WithLogger(log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("diagnostics server listening",
		zap.String("addr", *addr),
		zap.String("contract", compiled.Signature),
		zap.Int("blocks", len(compiled.Blocks)))

	return mcptools.RunMCPServer(ctx, svc, *addr)
}
