package main

import (
	"os"

	"github.com/dshills/changedfiles/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
