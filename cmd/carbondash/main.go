package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-carbon-dashboard/pkg/observability"
)

const serviceName = "carbondash"

var version = "dev"

type cli struct {
	LogLevel  string `name:"log-level" default:"info" env:"CARBONDASH_LOG_LEVEL" help:"Log level (debug, info, warn, error)."`
	LogFormat string `name:"log-format" default:"json" enum:"json,console" env:"CARBONDASH_LOG_FORMAT" help:"Log output format."`

	Serve    serveCmd    `cmd:"" help:"Serve the dashboard over HTTP."`
	Snapshot snapshotCmd `cmd:"" help:"Render one dashboard page to stdout."`
	Menu     menuCmd     `cmd:"" help:"Print the sidebar of a role."`
	Manifest manifestCmd `cmd:"" help:"Validate or extend view manifests."`
}

func (c *cli) logger() zerolog.Logger {
	return observability.NewLogger(observability.LoggerOptions{
		Service: serviceName,
		Version: version,
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		Output:  os.Stderr,
	})
}

// newParser builds the command line parser. Commands print to out.
func newParser(root *cli, out io.Writer, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name(serviceName),
		kong.Description("Carbon and air quality monitoring dashboard."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.BindTo(out, (*io.Writer)(nil)),
	}, opts...)
	return kong.New(root, opts...)
}

func main() {
	var root cli
	parser, err := newParser(&root, os.Stdout)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(&root))
}
