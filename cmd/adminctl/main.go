package main

import (
	"errors"
	"log"
	"os"

	"github.com/fiscal-auditor/adminctl/cmd/adminctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if errors.Is(err, commands.ErrReported) {
			os.Exit(1)
		}
		log.Fatalf("adminctl: %v", err)
	}
}
