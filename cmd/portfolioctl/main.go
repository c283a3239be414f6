package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrsteele09/go-portfolio-session/internal/cli"
	"github.com/jrsteele09/go-portfolio-session/internal/config"
	"github.com/jrsteele09/go-portfolio-session/internal/logging"
)

func main() {
	config.Load()
	c := config.New()
	logging.Init(config.GetEnv("PORTFOLIOCTL_LOG_LEVEL", "warn"), c.GetEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, c)
	stop()
	os.Exit(code)
}
