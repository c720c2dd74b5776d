package main

import (
	"context"
	"os"

	"learnleap/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
