package kv

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/client/pool"
	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for ShibuDB servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix  = "__test"
	perfNumThreads = 10
	perfKeySpread  = 100
	perfOpsPerTest = 1000
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How many operations to perform per test"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfKeySpread = viper.GetInt("keys")
	perfOpsPerTest = viper.GetInt("ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	space := util.GetSpace()
	if space == "" {
		return fmt.Errorf("the perf test needs a space, pass --space")
	}

	fmt.Println("Performance testing tool for ShibuDB servers")

	// Print configuration
	clientConfig := util.GetClientConfig()
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(clientConfig.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Operations per test: %d\n", perfOpsPerTest)
	fmt.Println()

	// One pooled connection per thread
	poolConfig := common.PoolConfig{
		Client:               clientConfig,
		MinSize:              perfNumThreads,
		MaxSize:              perfNumThreads,
		AcquireTimeoutSecond: clientConfig.TimeoutSecond,
	}
	p, warmed := pool.New(poolConfig)
	defer p.Close()
	if warmed == 0 {
		return fmt.Errorf("failed to warm any connection to %s", clientConfig.Endpoint())
	}

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]metrics.Timer)

	putTimer := runTest("put", p, func(conn workerConn, i int) error {
		resp, err := conn.Put(perfKey("put", i), "test", space)
		if err == nil && !resp.OK() {
			return fmt.Errorf("rejected: %s", resp.Message)
		}
		return err
	})
	results["put"] = putTimer
	printResult("put", putTimer)

	getTimer := runTest("get", p, func(conn workerConn, i int) error {
		_, err := conn.Get(perfKey("put", i), space)
		return err
	})
	results["get"] = getTimer
	printResult("get", getTimer)

	mixedTimer := runTest("mixed", p, func(conn workerConn, i int) error {
		key := perfKey("mixed", i)
		switch i % 3 {
		case 0:
			_, err := conn.Put(key, "test", space)
			return err
		case 1:
			_, err := conn.Get(key, space)
			return err
		default:
			_, err := conn.Delete(key, space)
			return err
		}
	})
	results["mixed"] = mixedTimer
	printResult("mixed", mixedTimer)

	deleteTimer := runTest("delete", p, func(conn workerConn, i int) error {
		_, err := conn.Delete(perfKey("put", i), space)
		return err
	})
	results["delete"] = deleteTimer
	printResult("delete", deleteTimer)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, &clientConfig); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// workerConn is the part of the connection API the benchmark operations use
type workerConn interface {
	Put(key, value, space string) (*common.Response, error)
	Get(key, space string) (*common.Response, error)
	Delete(key, space string) (*common.Response, error)
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// perfKey returns a benchmark key by index (with wraparound)
func perfKey(test string, i int) string {
	return fmt.Sprintf("%s-%s-%d", perfKeyPrefix, test, i%perfKeySpread)
}

// runTest spreads perfOpsPerTest operations over perfNumThreads workers and
// records the latency of each one
func runTest(name string, p *pool.Pool, op func(conn workerConn, i int) error) metrics.Timer {
	timer := metrics.NewTimer()
	if shouldSkip(name) {
		return timer
	}

	opsPerThread := perfOpsPerTest / perfNumThreads
	if opsPerThread == 0 {
		opsPerThread = 1
	}

	var wg sync.WaitGroup
	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()

			conn, err := p.Get()
			if err != nil {
				log.Printf("(%s) - failed to get connection: %v\n", name, err)
				return
			}
			defer p.Put(conn)

			for i := 0; i < opsPerThread; i++ {
				start := time.Now()
				if err := op(conn, offset+i); err != nil {
					log.Printf("(%s) - operation failed: %v\n", name, err)
					continue
				}
				timer.UpdateSince(start)
			}
		}(t * opsPerThread)
	}
	wg.Wait()

	return timer
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer metrics.Timer) {
	if timer.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})
	fmt.Printf("%-20s%s/op\tp50=%s p95=%s p99=%s\t%.0f ops/sec\n",
		test,
		time.Duration(timer.Mean()),
		time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]),
		timer.RateMean())
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]metrics.Timer, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P50Ns", "P95Ns", "P99Ns", "OpsPerSec", "Skipped",
		"Endpoint", "TimeoutSec", "Space",
		"Threads", "Keys Count", "Ops Per Test",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, timer := range results {
		skipped := timer.Count() == 0
		ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})

		row := []string{
			test,
			strconv.FormatInt(timer.Count(), 10),
			fmt.Sprintf("%.0f", timer.Mean()),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			fmt.Sprintf("%.0f", timer.RateMean()),
			strconv.FormatBool(skipped),
			config.Endpoint(),
			strconv.Itoa(config.TimeoutSecond),
			util.GetSpace(),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfKeySpread),
			strconv.Itoa(perfOpsPerTest),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
