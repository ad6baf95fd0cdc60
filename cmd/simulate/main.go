package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/hospital-booking/internal/config"
	"github.com/medicore/hospital-booking/internal/db"
)

// The simulator hammers the booking API with overlapping requests for the
// same doctor-day-time slots to observe how many duplicate bookings the
// best-effort conflict check admits under load.

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookRatio    float64
	UpdateRatio  float64
	ListRatio    float64
	DoctorCount  int
	SlotsPerDay  int
	ServiceLimit int
	PostgresDSN  string
}

type DataPool struct {
	Services []uuid.UUID
	Doctors  []uuid.UUID
	Dates    []string
	Times    []string

	mu           sync.RWMutex
	appointments []uuid.UUID
}

func (dp *DataPool) AddAppointment(id uuid.UUID) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) GetRandomAppointment() (uuid.UUID, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return uuid.Nil, false
	}
	return dp.appointments[rand.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Rejected  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success, rejected bool) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case success:
		atomic.AddInt64(&om.Success, 1)
	case rejected:
		atomic.AddInt64(&om.Rejected, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50Idx := len(latencies) * 50 / 100
	if p50Idx >= len(latencies) {
		p50Idx = len(latencies) - 1
	}
	p50 = latencies[p50Idx]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Book   OperationMetrics
	Update OperationMetrics
	List   OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d book=%.2f update=%.2f list=%.2f",
		cfg.Duration, cfg.Workers, cfg.BookRatio, cfg.UpdateRatio, cfg.ListRatio)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(ctx, pgPool, cfg)
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}

	log.Printf("loaded: %d services, contending on %d doctors x %d dates x %d slots",
		len(dataPool.Services), len(dataPool.Doctors), len(dataPool.Dates), len(dataPool.Times))

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		BookRatio:    getFloat("SIM_BOOK_RATIO", 0.6),
		UpdateRatio:  getFloat("SIM_UPDATE_RATIO", 0.2),
		ListRatio:    getFloat("SIM_LIST_RATIO", 0.2),
		DoctorCount:  getInt("SIM_DOCTOR_COUNT", 5),
		SlotsPerDay:  getInt("SIM_SLOTS_PER_DAY", 8),
		ServiceLimit: getInt("SIM_SERVICE_LIMIT", 50),
		PostgresDSN:  baseCfg.PostgresDSN,
	}

	// Normalize ratios
	total := cfg.BookRatio + cfg.UpdateRatio + cfg.ListRatio
	if total > 0 {
		cfg.BookRatio /= total
		cfg.UpdateRatio /= total
		cfg.ListRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required (set in .env or environment)")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

// loadDataPool reads real service IDs and builds a small, deliberately
// contended set of doctor/date/time combinations.
func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	rows, err := pool.Query(ctx, `
		SELECT id FROM services LIMIT $1
	`, cfg.ServiceLimit)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		dataPool.Services = append(dataPool.Services, id)
	}
	if len(dataPool.Services) == 0 {
		return nil, fmt.Errorf("no services loaded, run the seed first")
	}

	for i := 0; i < cfg.DoctorCount; i++ {
		dataPool.Doctors = append(dataPool.Doctors, uuid.New())
	}
	for i := 1; i <= 3; i++ {
		dataPool.Dates = append(dataPool.Dates, time.Now().AddDate(0, 0, i).Format("2006-01-02"))
	}
	for i := 0; i < cfg.SlotsPerDay; i++ {
		hour := 9 + i
		period := "AM"
		display := hour
		if hour >= 12 {
			period = "PM"
			if hour > 12 {
				display = hour - 12
			}
		}
		dataPool.Times = append(dataPool.Times, fmt.Sprintf("%02d:00 %s", display, period))
	}

	return dataPool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookRatio:
				s.doBook(ctx, rng)
			case r < s.config.BookRatio+s.config.UpdateRatio:
				s.doUpdateStatus(ctx, rng)
			default:
				s.doList(ctx, rng)
			}
		}
	}
}

func (s *Simulator) doBook(ctx context.Context, rng *rand.Rand) {
	doctorID := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]

	reqBody := map[string]any{
		"name":      gofakeit.Name(),
		"email":     gofakeit.Email(),
		"phone":     fmt.Sprintf("%d%09d", 6+rng.Intn(4), rng.Intn(1000000000)),
		"serviceId": s.pool.Services[rng.Intn(len(s.pool.Services))].String(),
		"doctorId":  doctorID.String(),
		"date":      s.pool.Dates[rng.Intn(len(s.pool.Dates))],
		"time":      s.pool.Times[rng.Intn(len(s.pool.Times))],
	}
	body, _ := json.Marshal(reqBody)

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "POST", s.config.APIBaseURL+"/api/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	rejected := false

	if err == nil {
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusCreated:
			success = true
			var created struct {
				ID uuid.UUID `json:"id"`
			}
			if json.NewDecoder(resp.Body).Decode(&created) == nil && created.ID != uuid.Nil {
				s.pool.AddAppointment(created.ID)
			}
		case http.StatusBadRequest:
			// Slot conflict or limit rejection.
			rejected = true
		}
	}

	s.metrics.Book.Record(latency, success, rejected)
}

func (s *Simulator) doUpdateStatus(ctx context.Context, rng *rand.Rand) {
	apptID, ok := s.pool.GetRandomAppointment()
	if !ok {
		return
	}

	statuses := []string{"postponed", "completed", "cancelled"}
	body, _ := json.Marshal(map[string]string{
		"status": statuses[rng.Intn(len(statuses))],
	})

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "PUT",
		fmt.Sprintf("%s/api/appointments/%s", s.config.APIBaseURL, apptID.String()), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.Update.Record(latency, success, false)
}

func (s *Simulator) doList(ctx context.Context, rng *rand.Rand) {
	url := s.config.APIBaseURL + "/api/appointments"
	if rng.Intn(2) == 0 {
		statuses := []string{"pending", "postponed", "completed", "cancelled"}
		url += "?status=" + statuses[rng.Intn(len(statuses))]
	}

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "GET", url, nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.List.Record(latency, success, false)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Book", &s.metrics.Book)
	printOperationReport("Update status", &s.metrics.Update)
	printOperationReport("List", &s.metrics.List)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	rejected := atomic.LoadInt64(&om.Rejected)
	errCount := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if rejected > 0 {
		fmt.Printf("  Rejected: %d (%.1f%%)\n", rejected, float64(rejected)/float64(total)*100)
	}
	if errCount > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errCount, float64(errCount)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
