// Package main demonstrates basic hexcore usage patterns.
package main

// This example shows how to build a ground program directly (bypassing
// the grounder oracle, which is an external collaborator per spec §1)
// and drive it through the ModelGenerator façade to enumeration and,
// for the unsatisfiable case, inconsistency explanation.

import (
	"fmt"

	"github.com/gitrdm/hexcore/pkg/hex"
)

func main() {
	fmt.Println("=== hexcore Examples ===")
	fmt.Println()

	clarkCompletion()
	constraintUnsat()
	disjunctiveFact()
}

// clarkCompletion builds "p <- q. q." with EDB {q} and shows unit
// propagation deriving p (spec §8 scenario 1).
func clarkCompletion() {
	fmt.Println("--- Clark completion unit propagation ---")
	reg := hex.NewRegistry()
	p := reg.InternAtom([]hex.Id{reg.InternConstant("p")})
	q := reg.InternAtom([]hex.Id{reg.InternConstant("q")})
	rPQ := reg.InternRule(hex.Rule{Head: []hex.Id{p}, Body: []hex.Id{q}})

	prog := hex.NewGroundProgram(reg)
	prog.EDB.Set(q)
	prog.IDB = []hex.Id{rPQ}

	gen := hex.NewModelGenerator(reg, func() (hex.GroundProgram, error) { return prog, nil })
	model, ok, err := gen.NextModel()
	must(err)
	fmt.Printf("model 1: %v (ok=%v)\n", renderModel(reg, model), ok)

	_, ok, err = gen.NextModel()
	must(err)
	fmt.Printf("model 2 present: %v\n", ok)
	fmt.Println()
}

// constraintUnsat builds ":- a. a." and shows GetNextModel returning
// no model, followed by GetInconsistencyCause (spec §8 scenario 2).
func constraintUnsat() {
	fmt.Println("--- Constraint unsatisfiability ---")
	reg := hex.NewRegistry()
	a := reg.InternAtom([]hex.Id{reg.InternConstant("a")})
	constraint := reg.InternRule(hex.Rule{Kind: hex.RuleConstraint, Body: []hex.Id{a}})

	prog := hex.NewGroundProgram(reg)
	prog.EDB.Set(a)
	prog.IDB = []hex.Id{constraint}

	gen := hex.NewModelGenerator(reg, func() (hex.GroundProgram, error) { return prog, nil })
	_, ok, err := gen.NextModel()
	must(err)
	fmt.Printf("model present: %v\n", ok)

	cause, err := gen.GetInconsistencyCause([]hex.Id{a})
	must(err)
	fmt.Printf("inconsistency cause: %s\n", cause)
	fmt.Println()
}

// disjunctiveFact builds "a v b." and enumerates both minimal models
// (spec §8 scenario 3).
func disjunctiveFact() {
	fmt.Println("--- Disjunctive fact enumeration ---")
	reg := hex.NewRegistry()
	a := reg.InternAtom([]hex.Id{reg.InternConstant("a")})
	b := reg.InternAtom([]hex.Id{reg.InternConstant("b")})
	rid := reg.InternRule(hex.Rule{Head: []hex.Id{a, b}})

	prog := hex.NewGroundProgram(reg)
	prog.IDB = []hex.Id{rid}

	gen := hex.NewModelGenerator(reg, func() (hex.GroundProgram, error) { return prog, nil })
	for i := 1; ; i++ {
		model, ok, err := gen.NextModel()
		must(err)
		if !ok {
			fmt.Printf("model %d: none (exhausted)\n", i)
			break
		}
		fmt.Printf("model %d: %v\n", i, renderModel(reg, model))
	}
	fmt.Println()
}

// renderModel renders the true atoms of an Interpretation as a sorted
// list of predicate(args) strings, for readable demo output.
func renderModel(reg *hex.Registry, ip *hex.Interpretation) []string {
	if ip == nil {
		return nil
	}
	var out []string
	for _, id := range ip.Atoms() {
		atom, ok := reg.Atom(id)
		if !ok {
			continue
		}
		out = append(out, renderAtom(reg, atom))
	}
	return out
}

func renderAtom(reg *hex.Registry, atom hex.OrdinaryAtom) string {
	s := reg.TermText(atom.Predicate())
	args := atom.Args()
	if len(args) == 0 {
		return s
	}
	s += "("
	for i, arg := range args {
		if i > 0 {
			s += ","
		}
		if v, ok := reg.TermInt(arg); ok {
			s += fmt.Sprintf("%d", v)
		} else {
			s += reg.TermText(arg)
		}
	}
	s += ")"
	return s
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
