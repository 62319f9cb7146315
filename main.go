package main

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/gitsecret/cmd"
)

func main() {
	if err := cmd.SecretCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, cmd.FormatError(err))
		os.Exit(1)
	}
}
