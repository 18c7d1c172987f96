package main

import (
	"fmt"
	"os"

	"github.com/haroonj/Ai-Bot/cmd/aibot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
