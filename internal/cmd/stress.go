package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrel-lang/bakergc/internal/config"
	"github.com/kestrel-lang/bakergc/internal/mutator"
	"github.com/kestrel-lang/bakergc/internal/output"
)

var (
	stressOpsFlag       int
	stressSeedFlag      int64
	stressSpaceSizeFlag int
)

func addStressCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Fuzz the allocator, barriers, and evacuator against random mutator traffic",
		Long: `Drive a randomized sequence of allocations, field reads, field writes, and
root drops against a fresh heap, exercising the allocator, the read/write
barriers, and the evacuation engine the way a real mutator's traffic would.

Out-of-memory is the expected outcome once live data outgrows the
configured heap; it is reported as a result, not a CLI error.`,
		Args: cobra.NoArgs,
		RunE: runStress,
	}

	flags := cmd.Flags()
	flags.IntVar(&stressOpsFlag, "ops", 10000, "Number of random mutator operations to perform")
	flags.Int64Var(&stressSeedFlag, "seed", 1, "PRNG seed, for reproducible runs")
	flags.IntVar(&stressSpaceSizeFlag, "space-size", 0, "Override configured semi-space size in bytes (0 = use config)")

	parent.AddCommand(cmd)
}

func runStress(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	spaceSize := cfg.SpaceSizeBytes
	if stressSpaceSizeFlag > 0 {
		spaceSize = stressSpaceSizeFlag
	}
	cfg.SpaceSizeBytes = spaceSize

	heap, err := config.NewHeap(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("creating heap: %w", err)
	}
	defer heap.Close()

	rng := rand.New(rand.NewSource(stressSeedFlag))
	stats, fuzzErr := mutator.Fuzz(heap, rng, stressOpsFlag)
	stat := heap.Stats()

	if output.IsJSON() {
		result := map[string]any{
			"space_size_bytes": spaceSize,
			"requested_ops":    stressOpsFlag,
			"allocs":           stats.Allocs,
			"reads":            stats.Reads,
			"writes":           stats.Writes,
			"drops":            stats.Drops,
			"total_bytes":      stat.TotalAllocatedBytes,
			"total_objects":    stat.TotalAllocatedObjects,
			"max_bytes":        stat.MaxAllocatedBytes,
			"max_objects":      stat.MaxAllocatedObjects,
		}
		if fuzzErr != nil {
			result["error"] = fuzzErr.Error()
		}
		if err := output.PrintJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if fuzzErr != nil {
			os.Exit(output.ExitOOM)
		}
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "semi-space size: %d bytes\n", spaceSize)
	fmt.Fprintf(w, "allocs=%d reads=%d writes=%d drops=%d\n", stats.Allocs, stats.Reads, stats.Writes, stats.Drops)
	if !output.IsQuiet() {
		heap.PrintGCAllocStats(w)
	}
	if fuzzErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "stopped early: %v\n", fuzzErr)
		os.Exit(output.ExitOOM)
	}
	return nil
}
