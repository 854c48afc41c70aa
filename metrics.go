package ivee

import (
	"sync/atomic"
	"time"
)

// Performance metrics for monitoring sandbox operations.
var (
	instanceCreateCount  uint64
	instanceCloseCount   uint64
	regionMapCount       uint64
	loadCount            uint64
	callCount            uint64
	pioExitCount         uint64
	unsupportedExitCount uint64

	totalInstanceCreateTime uint64
	totalCallTime           uint64

	ioErrors       uint64
	resourceErrors uint64
)

// Metrics provides access to cumulative, process-wide performance counters.
type Metrics struct {
	InstancesCreated    uint64 `json:"instances_created"`
	InstancesClosed     uint64 `json:"instances_closed"`
	RegionsMapped       uint64 `json:"regions_mapped"`
	Loads               uint64 `json:"loads"`
	Calls               uint64 `json:"calls"`
	PIOExits            uint64 `json:"pio_exits"`
	UnsupportedExits    uint64 `json:"unsupported_exits"`
	AvgInstanceCreateNs uint64 `json:"avg_instance_create_time_ns"`
	AvgCallNs           uint64 `json:"avg_call_time_ns"`
	IOErrors            uint64 `json:"io_errors"`
	ResourceErrors      uint64 `json:"resource_errors"`
}

// GetMetrics returns a snapshot of the current performance metrics.
func GetMetrics() Metrics {
	created := atomic.LoadUint64(&instanceCreateCount)
	calls := atomic.LoadUint64(&callCount)

	var avgCreate, avgCall uint64
	if created > 0 {
		avgCreate = atomic.LoadUint64(&totalInstanceCreateTime) / created
	}
	if calls > 0 {
		avgCall = atomic.LoadUint64(&totalCallTime) / calls
	}

	return Metrics{
		InstancesCreated:    created,
		InstancesClosed:     atomic.LoadUint64(&instanceCloseCount),
		RegionsMapped:       atomic.LoadUint64(&regionMapCount),
		Loads:               atomic.LoadUint64(&loadCount),
		Calls:               calls,
		PIOExits:            atomic.LoadUint64(&pioExitCount),
		UnsupportedExits:    atomic.LoadUint64(&unsupportedExitCount),
		AvgInstanceCreateNs: avgCreate,
		AvgCallNs:           avgCall,
		IOErrors:            atomic.LoadUint64(&ioErrors),
		ResourceErrors:      atomic.LoadUint64(&resourceErrors),
	}
}

// ResetMetrics clears all performance metrics. Intended for tests and for
// CLI invocations that want a clean counter baseline.
func ResetMetrics() {
	atomic.StoreUint64(&instanceCreateCount, 0)
	atomic.StoreUint64(&instanceCloseCount, 0)
	atomic.StoreUint64(&regionMapCount, 0)
	atomic.StoreUint64(&loadCount, 0)
	atomic.StoreUint64(&callCount, 0)
	atomic.StoreUint64(&pioExitCount, 0)
	atomic.StoreUint64(&unsupportedExitCount, 0)
	atomic.StoreUint64(&totalInstanceCreateTime, 0)
	atomic.StoreUint64(&totalCallTime, 0)
	atomic.StoreUint64(&ioErrors, 0)
	atomic.StoreUint64(&resourceErrors, 0)
}

func recordInstanceCreate(d time.Duration) {
	atomic.AddUint64(&instanceCreateCount, 1)
	atomic.AddUint64(&totalInstanceCreateTime, uint64(d.Nanoseconds()))
}

func recordInstanceClose() {
	atomic.AddUint64(&instanceCloseCount, 1)
}

func recordRegionMap() {
	atomic.AddUint64(&regionMapCount, 1)
}

func recordLoad() {
	atomic.AddUint64(&loadCount, 1)
}

func recordCall(d time.Duration) {
	atomic.AddUint64(&callCount, 1)
	atomic.AddUint64(&totalCallTime, uint64(d.Nanoseconds()))
}

func recordPIOExit() {
	atomic.AddUint64(&pioExitCount, 1)
}

func recordUnsupportedExit() {
	atomic.AddUint64(&unsupportedExitCount, 1)
}

func recordIOError() {
	atomic.AddUint64(&ioErrors, 1)
}

func recordResourceError() {
	atomic.AddUint64(&resourceErrors, 1)
}
