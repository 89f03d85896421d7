package limiter

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/config"
)

// ResourceLimiter keeps a long-running monitor inside its resource budget.
// It periodically samples process and system usage, warns as usage
// approaches the configured limits, and triggers a graceful shutdown once a
// hard limit is breached.
type ResourceLimiter struct {
	cfg    config.ResourceLimiterConfig
	logger zerolog.Logger

	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	checkInterval time.Duration

	memoryWarnMB  int64
	goroutineWarn int

	mu               sync.RWMutex
	running          bool
	shutdownCallback func()
}

// NewResourceLimiter creates a ResourceLimiter. Zero-value thresholds fall
// back to safe defaults so a sparse config section still guards the process.
func NewResourceLimiter(cfg config.ResourceLimiterConfig, logger zerolog.Logger) *ResourceLimiter {
	if cfg.CheckIntervalSecs <= 0 {
		cfg.CheckIntervalSecs = 30
	}
	if cfg.MemoryThreshold == 0 {
		cfg.MemoryThreshold = 0.8
	}
	if cfg.GoroutineWarning == 0 {
		cfg.GoroutineWarning = 0.8
	}
	if cfg.SystemMemThreshold == 0 {
		cfg.SystemMemThreshold = 0.9
	}
	if cfg.CPUThreshold == 0 {
		cfg.CPUThreshold = 0.9
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ResourceLimiter{
		cfg:           cfg,
		logger:        logger.With().Str("component", "ResourceLimiter").Logger(),
		ctx:           ctx,
		cancel:        cancel,
		checkInterval: time.Duration(cfg.CheckIntervalSecs) * time.Second,
		memoryWarnMB:  int64(float64(cfg.MaxMemoryMB) * cfg.MemoryThreshold),
		goroutineWarn: int(float64(cfg.MaxGoroutines) * cfg.GoroutineWarning),
	}
}

// SetShutdownCallback registers the function invoked when a hard limit is
// breached and auto-shutdown is enabled.
func (rl *ResourceLimiter) SetShutdownCallback(callback func()) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.shutdownCallback = callback
}

// Start launches the background watch loop.
func (rl *ResourceLimiter) Start() {
	rl.mu.Lock()
	if rl.running {
		rl.mu.Unlock()
		return
	}
	rl.running = true
	rl.mu.Unlock()

	rl.wg.Add(1)
	go rl.watch()

	rl.logger.Info().
		Int64("max_memory_mb", rl.cfg.MaxMemoryMB).
		Int("max_goroutines", rl.cfg.MaxGoroutines).
		Dur("check_interval", rl.checkInterval).
		Float64("system_mem_threshold", rl.cfg.SystemMemThreshold).
		Float64("cpu_threshold", rl.cfg.CPUThreshold).
		Bool("auto_shutdown", rl.cfg.EnableAutoShutdown).
		Msg("Resource limiter started")
}

// Stop terminates the watch loop and waits for it to exit.
func (rl *ResourceLimiter) Stop() {
	rl.mu.Lock()
	if !rl.running {
		rl.mu.Unlock()
		return
	}
	rl.running = false
	rl.mu.Unlock()

	rl.cancel()
	rl.wg.Wait()
	rl.logger.Info().Msg("Resource limiter stopped")
}

// CheckProcessMemory returns an error when the Go heap exceeds the
// configured cap.
func (rl *ResourceLimiter) CheckProcessMemory() error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	allocMB := int64(m.Alloc / 1024 / 1024)
	if rl.cfg.MaxMemoryMB > 0 && allocMB > rl.cfg.MaxMemoryMB {
		return common.NewError("process memory %dMB exceeds limit %dMB", allocMB, rl.cfg.MaxMemoryMB)
	}
	return nil
}

// CheckGoroutines returns an error when the goroutine count exceeds the
// configured cap.
func (rl *ResourceLimiter) CheckGoroutines() error {
	current := runtime.NumGoroutine()
	if rl.cfg.MaxGoroutines > 0 && current > rl.cfg.MaxGoroutines {
		return common.NewError("goroutine count %d exceeds limit %d", current, rl.cfg.MaxGoroutines)
	}
	return nil
}

// CheckSystemMemory reports whether system-wide memory usage is above the
// shutdown threshold.
func (rl *ResourceLimiter) CheckSystemMemory() (bool, error) {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return false, common.WrapError(err, "failed to read system memory stats")
	}

	used := vmStat.UsedPercent / 100.0
	if used > rl.cfg.SystemMemThreshold {
		rl.logger.Warn().
			Float64("used_percent", vmStat.UsedPercent).
			Float64("threshold_percent", rl.cfg.SystemMemThreshold*100).
			Uint64("used_mb", vmStat.Used/1024/1024).
			Uint64("total_mb", vmStat.Total/1024/1024).
			Msg("System memory usage above threshold")
		return true, nil
	}
	return false, nil
}

// CheckCPU reports whether overall CPU usage is above the shutdown
// threshold. The sample window blocks for one second.
func (rl *ResourceLimiter) CheckCPU() (bool, error) {
	cpuPercents, err := cpu.Percent(time.Second, false)
	if err != nil {
		return false, common.WrapError(err, "failed to read CPU usage")
	}
	if len(cpuPercents) == 0 {
		return false, common.NewError("no CPU usage data available")
	}

	usage := cpuPercents[0] / 100.0
	if usage > rl.cfg.CPUThreshold {
		rl.logger.Warn().
			Float64("cpu_percent", cpuPercents[0]).
			Float64("threshold_percent", rl.cfg.CPUThreshold*100).
			Msg("CPU usage above threshold")
		return true, nil
	}
	return false, nil
}

// ForceGC runs the garbage collector and logs how much heap it reclaimed.
func (rl *ResourceLimiter) ForceGC() {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	runtime.GC()
	runtime.GC()

	runtime.ReadMemStats(&after)
	rl.logger.Info().
		Uint64("before_mb", before.Alloc/1024/1024).
		Uint64("after_mb", after.Alloc/1024/1024).
		Msg("Forced garbage collection completed")
}

// watch is the sampling loop.
func (rl *ResourceLimiter) watch() {
	defer rl.wg.Done()

	ticker := time.NewTicker(rl.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.ctx.Done():
			return
		case <-ticker.C:
			rl.inspect()
		}
	}
}

// inspect samples current usage, warns on approaching limits, and escalates
// to a shutdown when a hard limit is breached.
func (rl *ResourceLimiter) inspect() {
	usage := SampleResourceUsage()

	if rl.memoryWarnMB > 0 && usage.AllocMB > rl.memoryWarnMB {
		rl.logger.Warn().
			Int64("alloc_mb", usage.AllocMB).
			Int64("warn_mb", rl.memoryWarnMB).
			Int64("limit_mb", rl.cfg.MaxMemoryMB).
			Msg("Process memory approaching limit, forcing GC")
		rl.ForceGC()
	}
	if rl.goroutineWarn > 0 && usage.Goroutines > rl.goroutineWarn {
		rl.logger.Warn().
			Int("goroutines", usage.Goroutines).
			Int("warn_at", rl.goroutineWarn).
			Int("limit", rl.cfg.MaxGoroutines).
			Msg("Goroutine count approaching limit")
	}

	if rl.cfg.EnableAutoShutdown {
		if reason := rl.breachedLimit(); reason != "" {
			rl.logger.Error().
				Str("reason", reason).
				Int64("alloc_mb", usage.AllocMB).
				Int("goroutines", usage.Goroutines).
				Float64("system_mem_percent", usage.SystemMemUsedPercent).
				Float64("cpu_percent", usage.CPUUsagePercent).
				Msg("Resource limits exceeded, triggering graceful shutdown")
			rl.triggerShutdown()
			return
		}
	}

	rl.logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int64("sys_mb", usage.SysMB).
		Int("goroutines", usage.Goroutines).
		Int64("gc_count", usage.GCCount).
		Float64("system_mem_percent", usage.SystemMemUsedPercent).
		Float64("cpu_percent", usage.CPUUsagePercent).
		Msg("Resource usage sampled")
}

// breachedLimit returns the reason for a shutdown, or an empty string while
// all limits hold. Cheap process-local checks run before the system probes.
func (rl *ResourceLimiter) breachedLimit() string {
	if err := rl.CheckProcessMemory(); err != nil {
		return err.Error()
	}
	if err := rl.CheckGoroutines(); err != nil {
		return err.Error()
	}

	if exceeded, err := rl.CheckSystemMemory(); err != nil {
		rl.logger.Error().Err(err).Msg("System memory check failed")
	} else if exceeded {
		return "system memory usage above threshold"
	}

	if exceeded, err := rl.CheckCPU(); err != nil {
		rl.logger.Error().Err(err).Msg("CPU usage check failed")
	} else if exceeded {
		return "cpu usage above threshold"
	}

	return ""
}

// triggerShutdown invokes the registered shutdown callback.
func (rl *ResourceLimiter) triggerShutdown() {
	rl.mu.RLock()
	callback := rl.shutdownCallback
	rl.mu.RUnlock()

	if callback == nil {
		rl.logger.Warn().Msg("No shutdown callback registered, cannot shut down gracefully")
		return
	}
	rl.logger.Info().Msg("Invoking shutdown callback due to resource limits")
	callback()
}
