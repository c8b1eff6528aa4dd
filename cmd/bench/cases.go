// README: Benchmark cases for the quote API; environment, contract, idempotence and load checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

// quoteBody is the subset of the quote the checks inspect.
type quoteBody struct {
	SubtotalAfterMarket float64           `json:"subtotal_after_market"`
	Tax                 float64           `json:"gst_18_percent"`
	PlatformFee         float64           `json:"platform_fee"`
	FinalPrice          float64           `json:"final_price"`
	HandlingTotal       float64           `json:"handling_total"`
	HandlingBreakdown   []json.RawMessage `json:"handling_breakdown"`
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) estimatePayload() map[string]any {
	return map[string]any{
		"origin":       r.cfg.Origin,
		"destination":  r.cfg.Destination,
		"mapped_from":  r.cfg.MappedFrom,
		"mapped_to":    r.cfg.MappedTo,
		"aircraft_id":  r.cfg.AircraftID,
		"flight_hours": 2.5,
		"passengers":   6,
	}
}

func (r *Runner) withOverrides(kv map[string]any) map[string]any {
	p := r.estimatePayload()
	for k, v := range kv {
		if v == nil {
			delete(p, k)
			continue
		}
		p[k] = v
	}
	return p
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	estimateURL := base + "/api/pricing/estimate"
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "dsn not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: StatusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: reference tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: StatusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
			},
		},

		httpCase("API: health", http.MethodGet, base+"/health", nil, http.StatusOK),
		httpCase("API: aircraft listing", http.MethodGet, base+"/api/pricing/aircraft", nil, http.StatusOK),
		httpCase("API: airport listing", http.MethodGet, base+"/api/pricing/airports", nil, http.StatusOK),

		{
			Name: "Estimate: valid request itemizes and adds up",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, body, err := r.post(ctx, estimateURL, r.estimatePayload())
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				latency := time.Since(start)
				if status != http.StatusOK {
					return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				var q quoteBody
				if err := json.Unmarshal(body, &q); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if len(q.HandlingBreakdown) != 2 {
					return Result{Status: StatusFail, Note: fmt.Sprintf("stops=%d", len(q.HandlingBreakdown))}
				}
				if want := q.SubtotalAfterMarket + q.Tax + q.PlatformFee; math.Abs(want-q.FinalPrice) > 1e-6 {
					return Result{Status: StatusFail, Note: fmt.Sprintf("final=%.2f want=%.2f", q.FinalPrice, want)}
				}
				return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("final=%.2f", q.FinalPrice)}
			},
		},

		httpCase("Estimate: legacy path with from/to", http.MethodPost, base+"/estimate/", r.withOverrides(map[string]any{
			"origin":      nil,
			"destination": nil,
			"from":        r.cfg.Origin,
			"to":          r.cfg.Destination,
		}), http.StatusOK),
		httpCase("Estimate: missing fields -> 400", http.MethodPost, estimateURL, map[string]any{}, http.StatusBadRequest),
		httpCase("Estimate: wrong field type -> 400", http.MethodPost, estimateURL, r.withOverrides(map[string]any{
			"aircraft_id": "one",
		}), http.StatusBadRequest),
		httpCase("Estimate: unknown aircraft -> 422", http.MethodPost, estimateURL, r.withOverrides(map[string]any{
			"aircraft_id": 987654,
		}), http.StatusUnprocessableEntity),
		httpCase("Estimate: unconfigured airport -> 422", http.MethodPost, estimateURL, r.withOverrides(map[string]any{
			"mapped_to": "ZZZ",
		}), http.StatusUnprocessableEntity),

		{
			Name: "Idempotence: identical input, identical output",
			Run: func(ctx context.Context, r *Runner) Result {
				_, first, err := r.post(ctx, estimateURL, r.estimatePayload())
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				_, second, err := r.post(ctx, estimateURL, r.estimatePayload())
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if !bytes.Equal(first, second) {
					return Result{Status: StatusFail, Note: "responses differ"}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Concurrency: parallel identical requests agree",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentEstimate(ctx, r, estimateURL)
			},
		},
		{
			Name: "Cache: quote stored in redis",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				if _, _, err := r.post(ctx, estimateURL, r.estimatePayload()); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				keys, _, err := r.redis.Scan(ctx, 0, "charter:quote:*", 100).Result()
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if len(keys) == 0 {
					return Result{Status: StatusFail, Note: "no cached quotes (is CHARTER_REDIS_ADDR set on the server?)"}
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("keys=%d", len(keys))}
			},
		},
		{
			Name: "Perf: estimate throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, estimateURL, r.estimatePayload())
			},
		},
	}
}

func (r *Runner) post(ctx context.Context, url string, payload any) (int, []byte, error) {
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func httpCase(name, method, url string, body any, okStatus int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = bytes.NewReader(b)
			}
			req, _ := http.NewRequestWithContext(ctx, method, url, reader)
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			note := fmt.Sprintf("status=%d", resp.StatusCode)
			if resp.StatusCode == okStatus {
				return Result{Status: StatusPass, Latency: latency, Note: note}
			}
			return Result{Status: StatusFail, Latency: latency, Note: note}
		},
	}
}

func concurrentEstimate(ctx context.Context, r *Runner, url string) Result {
	bodies := make([][]byte, r.cfg.Concurrency)
	errs := make([]error, r.cfg.Concurrency)
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status, body, err := r.post(ctx, url, r.estimatePayload())
			if err == nil && status != http.StatusOK {
				err = fmt.Errorf("status=%d", status)
			}
			bodies[i], errs[i] = body, err
		}(i)
	}
	wg.Wait()

	for i := range bodies {
		if errs[i] != nil {
			return Result{Status: StatusFail, Note: errs[i].Error()}
		}
		if !bytes.Equal(bodies[0], bodies[i]) {
			return Result{Status: StatusFail, Note: fmt.Sprintf("response %d differs", i)}
		}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("clients=%d", r.cfg.Concurrency)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var (
		mu        sync.Mutex
		latencies []time.Duration
		errCount  int
	)
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				start := time.Now()
				status, _, err := r.post(ctx, url, payload)
				d := time.Since(start)
				mu.Lock()
				if err != nil || status != http.StatusOK {
					errCount++
				} else {
					latencies = append(latencies, d)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(latencies) == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	rps := float64(len(latencies)) / r.cfg.Duration.Seconds()
	note := fmt.Sprintf("rps=%.1f p50=%s p95=%s p99=%s errors=%d", rps,
		percentile(latencies, 0.50), percentile(latencies, 0.95), percentile(latencies, 0.99), errCount)
	return Result{Status: StatusPass, Note: note}
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
