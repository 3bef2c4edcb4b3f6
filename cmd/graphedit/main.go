// Command graphedit inspects, edits and converts .graph files.
package main

import (
	"os"

	"graphedit/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
