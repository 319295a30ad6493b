package monitoring

import (
	"fmt"
	"time"

	"github.com/juliebook/juliebook-be/internal/services"
	ws "github.com/juliebook/juliebook-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is the periodic sample pushed over the feed stream.
type HostStats struct {
	CPUPercent  float64 `json:"cpuPercent"`
	MemPercent  float64 `json:"memPercent"`
	DiskPercent float64 `json:"diskPercent"`
}

const highCPUThreshold = 90.0

// StatUpdater periodically samples host resource usage, broadcasts it to
// connected clients, and records an audit event for sustained high CPU.
type StatUpdater struct {
	hub          *ws.Hub
	eventService services.EventServiceProvider
	ticker       *time.Ticker
	done         chan bool
	lastCPUAlert time.Time
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(hub *ws.Hub, eventService services.EventServiceProvider) *StatUpdater {
	return &StatUpdater{
		hub:          hub,
		eventService: eventService,
		done:         make(chan bool),
	}
}

// Run starts the periodic updates.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater...")
	su.ticker = time.NewTicker(15 * time.Second) // Update every 15 seconds
	defer su.ticker.Stop()

	// Run once immediately on start
	su.sampleAndBroadcast()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-su.ticker.C:
			su.sampleAndBroadcast()
		}
	}
}

// Stop halts the updater.
func (su *StatUpdater) Stop() {
	su.done <- true
}

func (su *StatUpdater) sampleAndBroadcast() {
	stats, err := sampleHost()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to sample host stats")
		return
	}

	su.hub.Broadcast <- ws.Encode(ws.ActionHostStats, stats)

	// Alert at most once per 10 minutes.
	if stats.CPUPercent > highCPUThreshold && time.Since(su.lastCPUAlert) > 10*time.Minute {
		su.lastCPUAlert = time.Now()
		msg := fmt.Sprintf("Host CPU usage at %.1f%%", stats.CPUPercent)
		if err := su.eventService.CreateEvent(services.EventHighCPU, "warning", msg, nil); err != nil {
			log.Error().Err(err).Msg("Failed to record high CPU event")
		}
	}
}

func sampleHost() (HostStats, error) {
	var stats HostStats

	cpuPercents, err := cpu.Percent(0, false)
	if err != nil {
		return stats, err
	}
	if len(cpuPercents) > 0 {
		stats.CPUPercent = cpuPercents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return stats, err
	}
	stats.MemPercent = vm.UsedPercent

	du, err := disk.Usage("/")
	if err != nil {
		return stats, err
	}
	stats.DiskPercent = du.UsedPercent

	return stats, nil
}
