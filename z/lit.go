// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package z provides polarity-encoded literal and variable types used
// throughout the AIG data model: a Lit names a node together with a sign,
// so a single 2-input AND node can express AND, NOR (both inputs negated),
// and the mixed forms depending only on which literals feed it.
package z

import "fmt"

// Var identifies a node irrespective of polarity. Var 0 is reserved and
// never assigned to a real node.
type Var uint32

// Pos returns the positive literal for v.
func (v Var) Pos() Lit {
	return Lit(v << 1)
}

// Neg returns the negative (complemented) literal for v.
func (v Var) Neg() Lit {
	return Lit(v<<1) ^ 1
}

func (v Var) String() string {
	return fmt.Sprintf("v%d", uint32(v))
}

// Lit is a variable together with a polarity bit. The low bit is the sign:
// 0 for positive, 1 for negative.
type Lit uint32

// LitNull is a sentinel meaning "no literal" (e.g. an unconnected fan-in
// slot, or the end of an added clause in other AIG tooling).
const LitNull = Lit(0)

// Var returns the variable underlying m, discarding polarity.
func (m Lit) Var() Var {
	return Var(m >> 1)
}

// Not returns the complement of m.
func (m Lit) Not() Lit {
	return m ^ 1
}

// IsPos reports whether m is a positive literal.
func (m Lit) IsPos() bool {
	return m&1 == 0
}

// Sign returns 1 for a positive literal and -1 for a negative one.
func (m Lit) Sign() int {
	if m.IsPos() {
		return 1
	}
	return -1
}

// Dimacs returns m in DIMACS convention: the signed 1-based variable index.
func (m Lit) Dimacs() int {
	d := int(m.Var())
	if !m.IsPos() {
		d = -d
	}
	return d
}

// Dimacs2Lit converts a signed DIMACS integer into a Lit.
func Dimacs2Lit(d int) Lit {
	if d < 0 {
		return Var(-d).Neg()
	}
	return Var(d).Pos()
}

func (m Lit) String() string {
	if !m.IsPos() {
		return fmt.Sprintf("-%s", m.Var())
	}
	return fmt.Sprintf("%s", m.Var())
}
