package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-lang/bakergc/internal/config"
	"github.com/kestrel-lang/bakergc/internal/gc"
	"github.com/kestrel-lang/bakergc/internal/mutator"
	"github.com/kestrel-lang/bakergc/internal/output"
)

var (
	inspectScenarioFlag string
	inspectListLenFlag  int
	inspectFlipFlag     bool
)

func addInspectCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Build a known object graph and dump the resulting heap state",
		Long: `Build one of a handful of deterministic object graphs (a linear
cons chain, shared substructure, or a two-cell cycle), optionally force
a collection cycle, and print the resulting Baker pointers, roots, and
heap contents.`,
		Args: cobra.NoArgs,
		RunE: runInspect,
	}

	flags := cmd.Flags()
	flags.StringVar(&inspectScenarioFlag, "scenario", "list", "Scenario to build: list, shared, or cycle")
	flags.IntVar(&inspectListLenFlag, "list-len", 10, "Length of the list scenario's cons chain")
	flags.BoolVar(&inspectFlipFlag, "flip", true, "Force a collection cycle after building the scenario")

	parent.AddCommand(cmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	heap, err := config.NewHeap(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("creating heap: %w", err)
	}
	defer heap.Close()

	roots, err := buildScenario(heap, inspectScenarioFlag, inspectListLenFlag)
	if err != nil {
		return fmt.Errorf("building scenario %q: %w", inspectScenarioFlag, err)
	}
	defer func() {
		for i := len(roots) - 1; i >= 0; i-- {
			heap.PopRoot(roots[i])
		}
	}()

	if inspectFlipFlag {
		if err := heap.ForceFlip(); err != nil {
			return fmt.Errorf("forcing flip: %w", err)
		}
	}

	report := heap.CheckInvariants()

	if output.IsJSON() {
		toBase, fromBase, scan, next, limit := heap.PointerState()
		return output.PrintJSON(cmd.OutOrStdout(), map[string]any{
			"scenario":     inspectScenarioFlag,
			"flipped":      inspectFlipFlag,
			"to_base":      toBase,
			"from_base":    fromBase,
			"scan":         scan,
			"next":         next,
			"limit":        limit,
			"invariants_ok": report.OK(),
			"violations":   report.Details,
			"stats":        heap.Stats(),
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "scenario: %s (flip=%v)\n\n", inspectScenarioFlag, inspectFlipFlag)
	heap.PrintGCState(w)
	fmt.Fprintln(w)
	if report.OK() {
		fmt.Fprintln(w, "invariants: OK")
	} else {
		fmt.Fprintln(w, "invariants: VIOLATED")
		for _, d := range report.Details {
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}
	return nil
}

// buildScenario constructs the named object graph on h and returns the
// root cells it registered, in push order.
func buildScenario(h *gc.Heap, name string, listLen int) ([]*gc.Ref, error) {
	switch name {
	case "list":
		head, err := mutator.BuildList(h, listLen)
		if err != nil {
			return nil, err
		}
		cell := new(gc.Ref)
		*cell = head
		if err := h.PushRoot(cell); err != nil {
			return nil, err
		}
		return []*gc.Ref{cell}, nil

	case "shared":
		parentA, parentB, err := mutator.BuildShared(h)
		if err != nil {
			return nil, err
		}
		cellA, cellB := new(gc.Ref), new(gc.Ref)
		*cellA, *cellB = parentA, parentB
		if err := h.PushRoot(cellA); err != nil {
			return nil, err
		}
		if err := h.PushRoot(cellB); err != nil {
			h.PopRoot(cellA)
			return nil, err
		}
		return []*gc.Ref{cellA, cellB}, nil

	case "cycle":
		a, err := mutator.BuildCycle(h)
		if err != nil {
			return nil, err
		}
		cell := new(gc.Ref)
		*cell = a
		if err := h.PushRoot(cell); err != nil {
			return nil, err
		}
		return []*gc.Ref{cell}, nil

	default:
		return nil, fmt.Errorf("unknown scenario %q (want list, shared, or cycle)", name)
	}
}
