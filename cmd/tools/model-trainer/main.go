// cmd/tools/model-trainer/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"social-support-workers/internal/eligibility"
)

// Offline trainer for the eligibility classifier. Regenerates the synthetic
// population, fits the model and writes the artifact the worker manager
// loads at startup.
func main() {
	out := flag.String("out", "./data/eligibility_model.json", "Artifact output path")
	samples := flag.Int("samples", eligibility.SyntheticSamples, "Synthetic population size")
	seed := flag.Int64("seed", eligibility.SyntheticSeed, "Random seed for the population")
	flag.Parse()

	fmt.Printf("Generating synthetic population (n=%d, seed=%d)...\n", *samples, *seed)
	population := eligibility.GenerateSyntheticPopulation(*samples, *seed)

	counts := map[eligibility.SupportTier]int{}
	for _, s := range population {
		counts[s.Tier]++
	}
	for _, tier := range []eligibility.SupportTier{
		eligibility.TierHigh,
		eligibility.TierMedium,
		eligibility.TierLow,
		eligibility.TierNotEligible,
	} {
		fmt.Printf("  %-14s %6d (%.1f%%)\n", tier, counts[tier],
			100*float64(counts[tier])/float64(len(population)))
	}

	fmt.Println("Training classifier...")
	model := eligibility.TrainClassifier(population)
	fmt.Printf("Training accuracy: %.4f\n", model.Accuracy(population))

	if err := eligibility.SaveArtifact(*out, model, len(population)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save artifact: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Artifact written to %s\n", *out)
}
