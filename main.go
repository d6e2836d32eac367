package main

import (
	"os"

	"github.com/camwatch/camwatch/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
