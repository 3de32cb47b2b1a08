// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command dals runs the Delay-Driven Approximate Logic Synthesis engine
// over a small illustrative network and prints its per-round report.
// Grounded on the teacher's cmd/gini: stdlib flag and log, no CLI
// framework.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/go-dals/dals/circuit"
	"github.com/go-dals/dals/dals"
	"github.com/go-dals/dals/ntk"
	"github.com/go-dals/dals/timing"
	"github.com/go-dals/dals/z"
)

var (
	w             = flag.Int("w", 64, "sim_64_cycles: 64-bit words per truth vector")
	errConstraint = flag.Float64("err", 0.05, "err_constraint: stop once simulated error reaches this")
	topK          = flag.Int("topk", 3, "top_k: candidate refinement breadth per target node")
	progress      = flag.Bool("progress", true, "show_progress: log each round's cuts, error, and delay")
)

func main() {
	flag.Parse()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	net := sampleNetwork()
	eng := dals.New(net, timing.New(), dals.Config{
		W:             *w,
		ErrConstraint: *errConstraint,
		TopK:          *topK,
		ShowProgress:  *progress,
	}, logger)

	rounds, err := eng.Run()
	if err != nil {
		log.Fatalf("dals: %v", err)
	}
	logger.Printf("finished after %d round(s)", len(rounds))
}

// sampleNetwork builds a small hand-wired AIG standing in for a real
// bench/blif circuit (e.g. an ISCAS-85 benchmark) a deployment would load
// through the AIG-primitive collaborator's own file-format reader —
// reading bench/blif files is explicitly outside the DALS core's scope
// (spec.md §1), so this command never parses one.
func sampleNetwork() *circuit.Network {
	net := circuit.New()
	net.NewPI("a")
	net.NewPI("b")
	net.NewPI("c")
	net.NewPI("d")
	net.NewPI("e")

	n1 := net.NewAnd("n1", net.Lit("a"), net.Lit("c"))
	n2 := net.NewAnd("n2", net.Lit("b"), net.Lit("d"))
	n3 := net.NewAnd("n3", net.Lit("c").Not(), net.Lit("e"))
	n4 := net.NewAnd("n4", lit(n1), lit(n2))
	n5 := net.NewAnd("n5", lit(n2), lit(n3).Not())
	n6 := net.NewAnd("n6", lit(n4), lit(n5))
	net.NewPO("f", lit(n4))
	net.NewPO("g", lit(n6))
	return net
}

func lit(n ntk.Node) z.Lit {
	return z.Var(n.ID()).Pos()
}
