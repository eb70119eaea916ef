package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Kerhoff/homepage/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "homepage:", err)
		os.Exit(1)
	}
}
