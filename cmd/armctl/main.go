package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Control ControlCommand `command:"control" alias:"run" description:"Start the operator console (TUI + command link)"`
	Echo    EchoCommand    `command:"echo" description:"Run a local echo endpoint that logs incoming commands"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "armctl - Operator console for a multi-joint arm over a websocket command link"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
