// pakeforge is a terminal front-end for the Pake desktop app builder.
package main

import (
	"os"

	"github.com/steveyegge/pakeforge/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
