// Command daydreamer is a UCI chess engine: iterative-deepening alpha-beta
// negamax search with null-move pruning, PVS and quiescence, a tapered
// material/piece-square/king-safety evaluator, and an optional CTG opening book.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herohde/daydreamer/pkg/engine"
	"github.com/herohde/daydreamer/pkg/engine/console"
	"github.com/herohde/daydreamer/pkg/engine/uci"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/seekerror/logw"
)

var (
	hash  = flag.Int("hash", 64, "Transposition table size in MB (0 to disable)")
	noise = flag.Int("noise", 0, "Evaluation noise in centipawns (0 for deterministic play)")
	depth = flag.Int("depth", 0, "Fixed search depth in plies (0 to rely on time control)")
	book  = flag.String("book", "", "Path to a CTG opening book (.ctg/.cto/.ctb), empty to disable")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: daydreamer [options]

DAYDREAMER is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	opts := []engine.Option{
		engine.WithOptions(engine.Options{Depth: uint(*depth), Hash: uint(*hash), Noise: uint(*noise)}),
	}
	if *book != "" {
		opts = append(opts, engine.WithBook(ctx, *book))
	}

	e := engine.New(ctx, "daydreamer", "herohde", eval.Func{KingSafety: true}, opts...)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
