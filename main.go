package main

import (
	"os"

	"github.com/dpshade/promptshelf/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
