package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// APIBenchmark 对单个接口并发发起固定数量的请求
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	Cookies     []*http.Cookie
	Client      *http.Client
}

// BenchmarkResult 定义基准测试结果
type BenchmarkResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	P95Time        time.Duration `json:"p95_time"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

// requestResult 单个请求的结果
type requestResult struct {
	duration   time.Duration
	statusCode int
	err        error
}

// NewAPIBenchmark 创建新的API基准测试实例
func NewAPIBenchmark(baseURL string, concurrency, requests int, cookies ...*http.Cookie) *APIBenchmark {
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		Cookies:     cookies,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RunGET 执行GET请求的基准测试
func (b *APIBenchmark) RunGET(path string) *BenchmarkResult {
	return b.run(http.MethodGet, b.BaseURL+path, "", nil)
}

// RunJSON 以 JSON 请求体执行基准测试
func (b *APIBenchmark) RunJSON(method, path string, payload interface{}) *BenchmarkResult {
	url := b.BaseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return &BenchmarkResult{
			URL:    url,
			Method: method,
			Errors: []string{fmt.Sprintf("JSON编码错误: %v", err)},
		}
	}
	return b.run(method, url, "application/json", body)
}

// run 用信号量限制并发，发完全部请求后汇总
func (b *APIBenchmark) run(method, url, contentType string, payload []byte) *BenchmarkResult {
	results := make(chan requestResult, b.Requests)
	var wg sync.WaitGroup
	limiter := make(chan struct{}, b.Concurrency)

	startTime := time.Now()

	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			results <- b.do(method, url, contentType, payload)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	result := summarize(results)
	result.URL = url
	result.Method = method
	result.Concurrency = b.Concurrency
	result.TotalRequests = b.Requests
	result.TotalTime = time.Since(startTime)
	if result.TotalTime > 0 {
		result.RequestsPerSec = float64(b.Requests) / result.TotalTime.Seconds()
	}
	return result
}

func (b *APIBenchmark) do(method, url, contentType string, payload []byte) requestResult {
	start := time.Now()
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return requestResult{err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range b.Cookies {
		req.AddCookie(cookie)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return requestResult{err: err}
	}
	resp.Body.Close()

	return requestResult{
		duration:   time.Since(start),
		statusCode: resp.StatusCode,
	}
}

// summarize 统计成功数、状态码分布与耗时分位
func summarize(results <-chan requestResult) *BenchmarkResult {
	result := &BenchmarkResult{StatusCodes: make(map[int]int)}
	var durations []time.Duration
	var total time.Duration

	for r := range results {
		if r.err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, r.err.Error())
			continue
		}

		durations = append(durations, r.duration)
		total += r.duration
		result.StatusCodes[r.statusCode]++
		if r.statusCode >= 200 && r.statusCode < 300 {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}

	if len(durations) == 0 {
		return result
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	result.AverageTime = total / time.Duration(len(durations))
	result.P95Time = durations[(len(durations)-1)*95/100]
	result.MaxTime = durations[len(durations)-1]
	return result
}

// String 返回可读的结果摘要
func (r *BenchmarkResult) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s 并发=%d 请求=%d 成功=%d 失败=%d\n",
		r.Method, r.URL, r.Concurrency, r.TotalRequests, r.SuccessCount, r.FailureCount)
	fmt.Fprintf(&buf, "总耗时=%s 平均=%s P95=%s 最大=%s 每秒请求数=%.2f\n",
		r.TotalTime, r.AverageTime, r.P95Time, r.MaxTime, r.RequestsPerSec)

	codes := make([]int, 0, len(r.StatusCodes))
	for code := range r.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(&buf, "  %d: %d\n", code, r.StatusCodes[code])
	}

	for i, err := range r.Errors {
		if i >= 5 {
			fmt.Fprintf(&buf, "  ... 还有 %d 个错误\n", len(r.Errors)-5)
			break
		}
		fmt.Fprintf(&buf, "  %s\n", err)
	}
	return buf.String()
}
