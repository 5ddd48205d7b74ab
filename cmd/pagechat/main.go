// Command pagechat answers questions about a fixed set of web pages.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/pagechat/internal/adapters/driving/cli"
	"github.com/custodia-labs/pagechat/internal/bootstrap"
	"github.com/custodia-labs/pagechat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetFactory(bootstrap.New())

	err := cli.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
