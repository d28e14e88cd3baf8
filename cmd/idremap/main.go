// Command idremap maps identifier lists between namespaces using the
// UniProt mapping service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/protmap/idremap/internal/cli"
	"github.com/protmap/idremap/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
// SIGINT/SIGTERM cancel the job context so in-flight chunks terminate as
// canceled instead of being killed mid-write.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
