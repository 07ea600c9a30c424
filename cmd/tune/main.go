// Package main searches for spring and damping constants that settle a kicked
// particle in a target number of frames with bounded overshoot.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/ecoveridian/backdrop/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	variant := flag.String("variant", "repulsion", "Variant to tune: repulsion or flow")
	target := flag.Int("target-frames", 90, "Desired settle time in frames")
	overshoot := flag.Float64("max-overshoot", 0.35, "Overshoot allowed before penalty (fraction of first peak)")
	maxEvals := flag.Int("max-evals", 300, "Maximum number of evaluations")
	logPath := flag.String("log", "", "Optional CSV log of every evaluation")
	writePath := flag.String("write", "", "Optional path for the full tuned config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params, err := NewParamVector(cfg, *variant)
	if err != nil {
		log.Fatal(err)
	}
	evaluator := NewEvaluator(*target, *overshoot)

	var logWriter *csv.Writer
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer f.Close()
		logWriter = csv.NewWriter(f)
		defer logWriter.Flush()
		logWriter.Write([]string{"eval", "fitness", "spring", "damping", "settle", "overshoot"})
	}

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw[0], raw[1])
			evalCount++

			// Penalize leaving the box so the simplex turns back
			for _, v := range x {
				if v < 0 || v > 1 {
					fitness += 1 + abs(v-clamp01(v))
				}
			}

			r := evaluator.LastResponse()
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}
			if logWriter != nil {
				logWriter.Write([]string{
					strconv.Itoa(evalCount),
					fmt.Sprintf("%.6f", fitness),
					fmt.Sprintf("%.6f", raw[0]),
					fmt.Sprintf("%.6f", raw[1]),
					strconv.Itoa(r.Settle),
					fmt.Sprintf("%.4f", r.Overshoot),
				})
			}
			return fitness
		},
	}

	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	initX := params.Normalize(params.DefaultVector())

	start := evaluator.Evaluate(params.DefaultVector()[0], params.DefaultVector()[1])
	fmt.Printf("Tuning %s: target %d frames, max overshoot %.2f\n", *variant, *target, *overshoot)
	fmt.Printf("Current: spring=%.4f damping=%.4f settle=%d overshoot=%.2f fitness=%.4f\n",
		params.Specs[0].Default, params.Specs[1].Default,
		evaluator.LastResponse().Settle, evaluator.LastResponse().Overshoot, start)

	if _, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{}); err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	evaluator.Evaluate(bestParams[0], bestParams[1])
	r := evaluator.LastResponse()
	fmt.Printf("Best after %d evaluations: spring=%.4f damping=%.4f settle=%d overshoot=%.2f fitness=%.4f\n\n",
		evalCount, bestParams[0], bestParams[1], r.Settle, r.Overshoot, bestFitness)

	if *writePath != "" {
		params.ApplyToConfig(cfg, bestParams)
		if err := cfg.WriteYAML(*writePath); err != nil {
			log.Printf("failed to write config: %v", err)
		} else {
			fmt.Printf("Tuned config saved to: %s\n", *writePath)
		}
	}

	snippet := map[string]map[string]float64{
		*variant: {"spring": round4(bestParams[0]), "damping": round4(bestParams[1])},
	}
	out, err := yaml.Marshal(snippet)
	if err != nil {
		log.Fatalf("failed to marshal snippet: %v", err)
	}
	fmt.Print(string(out))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func round4(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}
