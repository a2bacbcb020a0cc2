package cli

import (
	"context"
	"os"
)

// Execute runs the hiveplot CLI with the given context and returns an
// error if any command fails. Logs go to stderr at info level, or debug
// level with --verbose.
//
//	func main() {
//	    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer stop()
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
