// Command taskman is a small persistent task list manager.
package main

import (
	"os"

	"github.com/mesh-intelligence/taskman/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
