package kv

import (
	"context"
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/kvsolar/cmd/util"
	"github.com/ValentinKolb/kvsolar/lib/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the redis server",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)

	log = logger.GetLogger("cmd")
)

// perfTest is a single benchmark. prepare fills the keys the test reads, op performs one operation.
type perfTest struct {
	name    string
	prepare bool
	op      func(ctx context.Context, key string, i int) error
}

// perfStats collects latencies and errors of all tests, shared by all benchmark goroutines
type perfStats struct {
	timers *xsync.MapOf[string, gometrics.Timer]
	errors *xsync.MapOf[string, *xsync.Counter]
}

func newPerfStats() *perfStats {
	return &perfStats{
		timers: xsync.NewMapOf[string, gometrics.Timer](),
		errors: xsync.NewMapOf[string, *xsync.Counter](),
	}
}

// observe runs fn and records its latency and error under the test name
func (s *perfStats) observe(test string, fn func() error) {
	timer, _ := s.timers.LoadOrCompute(test, gometrics.NewTimer)
	start := time.Now()
	err := fn()
	timer.UpdateSince(start)
	if err != nil {
		counter, _ := s.errors.LoadOrCompute(test, xsync.NewCounter)
		counter.Inc()
		log.Debugf("(%s) - error: %v", test, err)
	}
}

func (s *perfStats) errorCount(test string) int64 {
	if counter, ok := s.errors.Load(test); ok {
		return counter.Value()
	}
	return 0
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := util.Context(cmd)

	fmt.Println("Performance testing tool for redis")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("staring tests...")

	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	tests := []perfTest{
		{name: "set", op: func(ctx context.Context, key string, _ int) error {
			return kvStore.Set(ctx, key, []byte("test"))
		}},
		{name: "set-large", op: func(ctx context.Context, key string, _ int) error {
			return kvStore.Set(ctx, key, largeValue)
		}},
		{name: "get", prepare: true, op: func(ctx context.Context, key string, _ int) error {
			_, _, err := kvStore.Get(ctx, key)
			return err
		}},
		{name: "delete", prepare: true, op: func(ctx context.Context, key string, _ int) error {
			return kvStore.Delete(ctx, key)
		}},
		{name: "has", prepare: true, op: func(ctx context.Context, key string, _ int) error {
			_, err := kvStore.Has(ctx, key)
			return err
		}},
		{name: "has-not", op: func(ctx context.Context, _ string, i int) error {
			_, err := kvStore.Has(ctx, fmt.Sprintf("%s/has-not-%d", perfKeyPrefix, i%100))
			return err
		}},
		{name: "mixed", prepare: true, op: func(ctx context.Context, key string, i int) error {
			var err error
			switch i % 4 {
			case 0: // set
				err = kvStore.Set(ctx, key, []byte("test"))
			case 1: // get
				_, _, err = kvStore.Get(ctx, key)
			case 2: // delete
				err = kvStore.Delete(ctx, key)
			case 3: // has
				_, err = kvStore.Has(ctx, key)
			}
			return err
		}},
	}

	stats := newPerfStats()
	results := make(map[string]testing.BenchmarkResult)

	for _, test := range tests {
		if shouldSkip(test.name) {
			printResult(test.name, testing.BenchmarkResult{}, stats)
			continue
		}
		result := runPerfTest(ctx, test, stats)
		results[test.name] = result
		printResult(test.name, result, stats)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, stats, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %w", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func runPerfTest(ctx context.Context, test perfTest, stats *perfStats) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		getKey, iter := getKeys(test.name)

		if test.prepare {
			iter(func(k string) {
				if err := kvStore.Set(ctx, k, []byte("test")); err != nil {
					log.Warningf("(%s) - error setting key: %v", test.name, err)
				}
			})
		}

		b.Cleanup(func() {
			iter(func(k string) {
				if err := kvStore.Delete(ctx, k); err != nil {
					log.Warningf("(%s) - error deleting key: %v", test.name, err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				key := getKey(counter)
				i := counter
				stats.observe(test.name, func() error { return test.op(ctx, key, i) })
				counter++
			}
		})
	})
}

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// opsPerSec returns the ns/op and ops/sec of a result, both 0 for a skipped test
func opsPerSec(result testing.BenchmarkResult) (float64, float64) {
	if result.NsPerOp() == 0 {
		return 0, 0
	}
	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	return nsPerOp, 1.0 / (nsPerOp / 1e9)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult, stats *perfStats) {
	nsPerOp, perSec := opsPerSec(result)
	if nsPerOp == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	p99 := 0.0
	if timer, ok := stats.timers.Load(test); ok {
		p99 = timer.Percentile(0.99)
	}

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp99 %s\terrors %d\n",
		test, nsPerOp, time.Duration(nsPerOp), perSec, time.Duration(p99), stats.errorCount(test))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, stats *perfStats, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Ops", "MeanLatency", "P99Latency", "Errors",
		"Endpoints", "TimeoutSec", "RetryCount", "PoolSize",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	tests := make([]string, 0, len(results))
	for test := range results {
		tests = append(tests, test)
	}
	sort.Strings(tests)

	// Write test results
	for _, test := range tests {
		nsPerOp, perSec := opsPerSec(results[test])

		var count int64
		var mean, p99 float64
		if timer, ok := stats.timers.Load(test); ok {
			count = timer.Count()
			mean = timer.Mean()
			p99 = timer.Percentile(0.99)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", perSec),
			strconv.FormatInt(count, 10),
			time.Duration(mean).String(),
			time.Duration(p99).String(),
			strconv.FormatInt(stats.errorCount(test), 10),
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.PoolSize),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", test, err)
		}
	}

	return nil
}
