// Command scload sequences SproutCore-style script trees. It prints load
// orders, writes import manifests and runs frameworks in a sandbox.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sproutcore/sproutcore-sub001/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
