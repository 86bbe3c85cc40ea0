package main

import (
	"fmt"
	"os"

	"github.com/Reyad02/chatting-voice-agent/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Cli(version); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
