// Package main provides a performance benchmarking tool for the Tabulate CLI.
// It generates synthetic tournaments of increasing size, runs each command
// several times, treats the first successful run as cold and averages the rest
// as warm, and writes CSV output for performance analysis and documentation.
//
// Prerequisites:
// - tabulate binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated tournament files
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/tabulate/schema"
	"gopkg.in/yaml.v3"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Tournament  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Sizes       map[string][2]int // name -> teams, rounds
	Order       []string
}

// benchmarkCommand is one CLI invocation and the phrase its text output ends with.
type benchmarkCommand struct {
	Name       string
	Args       []string
	Completion string
}

var commands = []benchmarkCommand{
	{Name: "standings", Args: []string{"standings"}, Completion: "Tabulated in"},
	{Name: "pair", Args: []string{"pair", "--seed", "7"}, Completion: "Paired"},
	{Name: "break", Args: []string{"break", "--break-size", "16"}, Completion: "Break generated in"},
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Sizes: map[string][2]int{
			"small":  {32, 5},
			"medium": {256, 7},
			"large":  {1024, 9},
			"huge":   {4096, 9},
		},
		Order: []string{"small", "medium", "large", "huge"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the store using tabulate store clear
	fmt.Printf("Clearing store...\n")
	clearCmd := exec.Command("tabulate", "store", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear store: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Store cleared successfully\n")
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the tabulate binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("tabulate"); err != nil {
		return fmt.Errorf("tabulate binary not found in PATH")
	}
	if info, err := os.Stat(config.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("work directory %s not found", config.WorkDir)
	}
	return nil
}

// runBenchmarks generates each tournament and runs every command against it
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d tournaments, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Order), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, name := range config.Order {
		size := config.Sizes[name]
		path := filepath.Join(config.WorkDir, name+".yaml")
		if err := writeTournament(path, name, size[0], size[1]); err != nil {
			return nil, err
		}
		fmt.Printf("Benchmarking %s (%d teams, %d rounds)\n", name, size[0], size[1])

		for _, c := range commands {
			results = append(results, runBenchmarkSuite(config, name, path, c))
		}
	}

	return results, nil
}

// writeTournament generates a tournament with random ballots and writes it as YAML
func writeTournament(path, name string, teams, rounds int) error {
	rng := rand.New(rand.NewPCG(uint64(teams), uint64(rounds)))
	t := schema.Tournament{Name: name, TotalRounds: rounds + 1}
	for i := range teams {
		t.Teams = append(t.Teams, schema.Team{
			ID:          fmt.Sprintf("t%04d", i),
			Name:        fmt.Sprintf("Team %d", i),
			Institution: fmt.Sprintf("Inst %d", i%(teams/4+1)),
		})
	}
	for r := 1; r <= rounds; r++ {
		order := rng.Perm(teams)
		for i := 0; i+1 < teams; i += 2 {
			winner := schema.AffSide
			if rng.IntN(2) == 1 {
				winner = schema.NegSide
			}
			aff, neg := 65+rng.Float64()*15, 65+rng.Float64()*15
			t.Results = append(t.Results, schema.PairingResult{
				Round:     r,
				AffID:     t.Teams[order[i]].ID,
				NegID:     t.Teams[order[i+1]].ID,
				Winner:    winner,
				AffSpeaks: &aff,
				NegSpeaks: &neg,
			})
		}
	}

	data, err := yaml.Marshal(&t)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, name, path string, c benchmarkCommand) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", c.Name, name)

	// Helper to run a benchmark phase
	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, c, backend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Tournament:  name,
		Command:     c.Name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a tabulate command multiple times with the given store backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, path string, c benchmarkCommand, backend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, c.Args...)
	args = append(args, path, "--store-backend", backend, "--width", "120")

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("tabulate", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), c.Completion) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/tabulate_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"tournament", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Tournament, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, c := range commands {
		fmt.Printf("%s:\n", c.Name)
		for _, result := range results {
			if result.Command == c.Name {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Tournament, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
