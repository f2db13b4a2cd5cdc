package main

import (
	"os"

	"github.com/mdstudio/mdstudio-cli/internal/cli/commands"
)

func main() {
	os.Exit(commands.Execute())
}
