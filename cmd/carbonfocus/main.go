package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rshade/carbonfocus/internal/cli"
	"github.com/rshade/carbonfocus/pkg/version"
)

func run(ctx context.Context, args []string) error {
	root := cli.NewRootCmd(version.String())
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// extractBudgetExitCode maps an error from run to a process exit code.
// Budget alerts carry their own code; any other error exits 1.
func extractBudgetExitCode(err error) int {
	if err == nil {
		return 0
	}
	var budgetErr *cli.BudgetExitError
	if errors.As(err, &budgetErr) {
		return budgetErr.ExitCode
	}
	return 1
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(extractBudgetExitCode(err))
	}
}
