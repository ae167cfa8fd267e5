package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const numWorkers = 50

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type client struct {
	baseURL string
}

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:8080", "hangovr base URL")
	duration := flag.Duration("duration", 10*time.Second, "length of each phase")
	flag.Parse()

	c := &client{baseURL: *baseURL}

	fmt.Println("=== Hangovr Load Test ===")
	fmt.Printf("Workers: %d | Phase duration: %s\n\n", numWorkers, *duration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(c.baseURL + "/health")
		if err == nil {
			drain(resp)
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Full intake: open, three steps, result, close.
	fmt.Println("\n--- Phase 1: Full intake flows ---")
	runPhase(*duration, func(rng *rand.Rand) []result {
		return c.intake(rng, 1)
	})

	// Repeated result reads per session exercise the result cache.
	fmt.Println("\n--- Phase 2: Read-heavy (10 result reads per session) ---")
	runPhase(*duration, func(rng *rand.Rand) []result {
		return c.intake(rng, 10)
	})
}

func (c *client) intake(rng *rand.Rand, reads int) []result {
	var out []result

	start := time.Now()
	resp, err := httpClient.Post(c.baseURL+"/session", "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return append(out, result{"POST /session", 0, lat, true})
	}
	var created struct {
		Session string `json:"session"`
	}
	err = json.NewDecoder(resp.Body).Decode(&created)
	drain(resp)
	out = append(out, result{"POST /session", resp.StatusCode, lat, err != nil || resp.StatusCode != http.StatusCreated})
	if err != nil || created.Session == "" {
		return out
	}
	q := "?s=" + created.Session

	// Roughly one request in ten carries out-of-range values.
	severity := rng.IntN(100) + 1
	if rng.Float64() < 0.1 {
		severity = rng.IntN(1000) - 500
	}
	out = append(out, c.post("/step1", q, map[string]any{"severity": severity}))
	out = append(out, c.post("/step2", q, map[string]any{
		"latitude":  rng.Float64() * 180,
		"longitude": rng.Float64() * 90,
		"age":       rng.IntN(95) + 18,
		"sex":       []string{"male", "female", "Male"}[rng.IntN(3)],
	}))
	out = append(out, c.post("/step3", q, map[string]any{
		"duration": rng.IntN(5) + 2,
		"drinks":   rng.IntN(9) + 2,
		"waters":   rng.IntN(9) + 2,
	}))

	for i := 0; i < reads; i++ {
		out = append(out, c.do(http.MethodGet, "/result", q, nil, http.StatusOK))
	}
	return append(out, c.do(http.MethodDelete, "/session", q, nil, http.StatusNoContent))
}

func (c *client) post(path, query string, body map[string]any) result {
	data, _ := json.Marshal(body)
	return c.do(http.MethodPost, path, query, data, http.StatusNoContent)
}

func (c *client) do(method, path, query string, body []byte, want int) result {
	endpoint := method + " " + path
	req, err := http.NewRequest(method, c.baseURL+path+query, bytes.NewReader(body))
	if err != nil {
		return result{endpoint, 0, 0, true}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	drain(resp)
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) []result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, seed>>1))
			for {
				select {
				case <-stop:
					return
				default:
					for _, r := range workFn(rng) {
						totalOps.Add(1)
						results <- r
					}
				}
			}
		}(rand.Uint64() + uint64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	slices.Sort(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		slices.Sort(s.latencies)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(quantile(s.latencies, 0.50)),
			fmtDur(quantile(s.latencies, 0.95)),
			fmtDur(quantile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		fmt.Println("  no requests completed")
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

// quantile expects d sorted ascending.
func quantile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
