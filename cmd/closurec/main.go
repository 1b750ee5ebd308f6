package main

import (
	"os"

	"github.com/dshills/closurec/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
