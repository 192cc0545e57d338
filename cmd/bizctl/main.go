// bizctl is the offline maintenance tool for a bizdesk data directory.
package main

import (
	"fmt"
	"os"

	"github.com/georgemunganga/bizdesk-backend/internal/command"
)

var version = "dev"

func main() {
	if err := command.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
