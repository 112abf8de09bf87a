package main

import (
	"log"

	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
