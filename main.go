package main

import (
	"io"
	"log/slog"
	"os"

	"blockpix/inspect"
	"blockpix/parallel"
	"blockpix/pixelate"
	"blockpix/render"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

type CLI struct {
	Verbose bool `help:"Log debug messages" short:"v"`
	Workers int  `help:"Number of worker goroutines, one per CPU if not positive" default:"0"`

	Render    render.CLICmd        `cmd:"" help:"Render a sketch file to an image"`
	Pixelate  pixelate.CLICmd      `cmd:"" help:"Turn every image of a folder into block pixel art"`
	Grid      inspect.GridCmd      `cmd:"" help:"Print the corrected size and block count of a grid"`
	Neighbors inspect.NeighborsCmd `cmd:"" help:"Print the neighbors of a block"`
}

// newLogger formats timestamps as "HH:MM:SS.ms", e.g. "14:32:01.45".
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("blockpix"),
		kong.Description("Draw and convert images made of square pixel blocks."),
		kong.UsageOnError(),
	)

	slog.SetDefault(slog.New(newLogger(os.Stderr, cli.Verbose)))

	err := kctx.Run(parallel.Workers(cli.Workers))
	kctx.FatalIfErrorf(err)
}
