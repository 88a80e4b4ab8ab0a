package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// handleSystemStatus handles system status requests
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	cpuPct, ramPct := s.systemStats()

	segmentCount, err := s.segments.Count()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to count segment assignments")
	}

	cacheSizes := make(map[string]int, len(s.caches))
	for name, c := range s.caches {
		cacheSizes[name] = c.Len()
	}

	var jobs []string
	if s.segmentationJob != nil {
		jobs = append(jobs, s.segmentationJob.Name())
	}

	response := map[string]interface{}{
		"status":         "running",
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"cpu_pct":        cpuPct,
		"ram_pct":        ramPct,
		"memory": map[string]interface{}{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
		"goroutines":      runtime.NumGoroutine(),
		"segments_stored": segmentCount,
		"cache_entries":   cacheSizes,
		"registered_jobs": jobs,
	}

	s.writeJSON(w, http.StatusOK, response)
}

// systemStats samples CPU and RAM usage percentages.
// The 100ms CPU window keeps the status endpoint responsive.
func (s *Server) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// handleRunSegmentation triggers the segmentation batch job immediately
// POST /api/system/jobs/segmentation/run
func (s *Server) handleRunSegmentation(w http.ResponseWriter, r *http.Request) {
	if s.segmentationJob == nil {
		s.writeError(w, http.StatusServiceUnavailable, "segmentation job not registered")
		return
	}

	s.log.Info().Msg("Manual segmentation run triggered")

	if err := s.scheduler.RunNow(s.segmentationJob); err != nil {
		s.log.Error().Err(err).Msg("Segmentation run failed")
		s.writeError(w, http.StatusInternalServerError, "segmentation run failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Segmentation run completed",
	})
}

// handleClearCaches drops every cached analysis result
// POST /api/system/cache/clear
func (s *Server) handleClearCaches(w http.ResponseWriter, r *http.Request) {
	for name, c := range s.caches {
		c.Clear()
		s.log.Info().Str("cache", name).Msg("Cache cleared")
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Caches cleared",
	})
}
