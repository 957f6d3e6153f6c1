package main

import (
	"os"

	"github.com/danieljhkim/disko/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Execute())
}
