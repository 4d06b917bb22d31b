package main

import (
	"os"

	"github.com/hadoopbox/hadoopbox/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
