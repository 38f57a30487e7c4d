package main

import (
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/urfave/cli/v2"
)

var log = commonlog.GetLogger("gsla")

func main() {
	app := cli.App{
		Name:  "gsla",
		Usage: "Convert Paintworks animations to LZB-compressed frame containers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "verbosity",
				Aliases: []string{"v"},
				Value:   0,
				Usage:   "log verbosity; higher is noisier, -1 disables logging",
			},
		},
		Before: func(context *cli.Context) error {
			commonlog.Configure(context.Int("verbosity"), nil)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Throttle, compress and package a C2 animation",
				Action:    convertAnimation,
				ArgsUsage: "INPUT_C2  OUTPUT_GSLA",
				Flags:     convertFlags,
			},
			{
				Name:      "inspect",
				Usage:     "Show the header and per-frame opcode summary of a container",
				Action:    inspectContainer,
				ArgsUsage: "GSLA_FILE",
			},
			{
				Name:      "extract",
				Usage:     "Decompress every frame of a container to raw .c1 files",
				Action:    extractFrames,
				ArgsUsage: "GSLA_FILE  OUTPUT_DIR",
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Criticalf("fatal error: %s", err.Error())
		os.Exit(1)
	}
}
