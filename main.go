package main

import (
	"os"

	"github.com/spigell/powerus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
