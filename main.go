package main

import (
	"os"

	"github.com/jeeace/jeeace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
