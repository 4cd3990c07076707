package main

import (
	"os"

	"github.com/camlabs/cambench/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
