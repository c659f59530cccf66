package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Stream StreamCmd `cmd:"" help:"Write raw generator output to stdout"`
	Sample SampleCmd `cmd:"" help:"Print one value of each kind"`
	Bench  BenchCmd  `cmd:"" help:"Compare throughput against reference generators"`
	Check  CheckCmd  `cmd:"" help:"Run statistical self-checks"`
	Pipe   PipeCmd   `cmd:"" help:"Run a test battery with the stream on its stdin"`
	Period PeriodCmd `cmd:"" help:"Verify the period of the state recurrence"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("quickrand"),
		kong.Description("Fast deterministic pseudorandom generator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	cli.Globals.setupRendering()
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
