// Command actorctl is a small demo binary that wires a System together
// with the websocket network middleman and one named echo actor,
// following the same main.go -> cmd.Run() split
// webitel-im-delivery-service/cmd/cmd.go's Run/serverCmd uses.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "actorctl",
		Usage: "run a demo actor system with a websocket front door",
		Commands: []*cli.Command{
			runCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
