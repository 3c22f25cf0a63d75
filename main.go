package main

import (
	"os"

	"github.com/spigell/lexnorm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
