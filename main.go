package main

import (
	"os"

	"github.com/doctags/doctags/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
