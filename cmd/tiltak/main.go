package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herohde/tiltak/pkg/engine"
	"github.com/herohde/tiltak/pkg/engine/console"
	"github.com/seekerror/logw"
)

var (
	nodes  = flag.Uint64("nodes", 0, "Default node budget per search (0: time or unbounded)")
	config = flag.String("config", "", "Path to a TOML config file of default search options")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: tiltak [options]

tiltak is a PUCT-MCTS Tak engine speaking a line-oriented console protocol.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	opts, err := engine.LoadConfig(*config)
	if err != nil {
		logw.Exitf(ctx, "Invalid config %q: %v", *config, err)
	}
	if *nodes > 0 {
		opts.Nodes = *nodes
	}

	e := engine.New(ctx, "tiltak", "herohde", engine.WithOptions(opts))

	in := engine.ReadStdinLines(ctx)
	driver, out := console.NewDriver(ctx, e, in)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()

	logw.Infof(ctx, "Exiting")
}
