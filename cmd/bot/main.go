package main

import (
	"fmt"
	"os"

	_ "relay-bot/docs" // Swagger docs
)

// version is set at build time via ldflags.
var version = "dev"

// @title       Relay Bot API
// @description Chat relay bot: health checks, Telegram webhook and conversation inspection.
// @version     1
// @host        localhost:5000
// @schemes     http
func main() {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
