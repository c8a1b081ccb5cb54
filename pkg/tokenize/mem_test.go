package tokenize

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/bastiangx/glosstip/pkg/registry"
)

var memTexts = []string{
	"The (API) speaks JSON over HTTP",
	"no acronyms in this one",
	"[CPU] and [GPU] share RAM",
	"TLS wraps DNS (sometimes)",
	"mixed (api) [Sql] CLI UX",
}

func memRegistry() *registry.Registry {
	return registry.FromMap(map[string]string{
		"API":  "Application Programming Interface",
		"JSON": "JavaScript Object Notation",
		"HTTP": "Hypertext Transfer Protocol",
		"CPU":  "Central Processing Unit",
		"GPU":  "Graphics Processing Unit",
		"RAM":  "Random Access Memory",
		"TLS":  "Transport Layer Security",
		"DNS":  "Domain Name System",
		"CLI":  "Command Line Interface",
		"UX":   "User Experience",
	}, false)
}

func TestCacheMemoryBounded(t *testing.T) {
	for _, iterations := range []int{100, 1000, 5000} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			runMemoryTest(t, iterations)
		})
	}
}

func TestCacheMemoryStabilityLongRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long-running memory stability test in short mode")
	}
	runMemoryTest(t, 50000)
}

func runMemoryTest(t *testing.T, iterations int) {
	tok, err := New(memRegistry(), 64)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultMatchConfig()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)

	for i := 0; i < iterations; i++ {
		// distinct texts so every call misses and the cache keeps evicting
		text := fmt.Sprintf("%s #%d", memTexts[i%len(memTexts)], i)
		if _, err := tok.Tokenize(text, cfg); err != nil {
			t.Fatal(err)
		}
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)

	stats := tok.Stats()
	if stats.Entries > stats.Capacity {
		t.Fatalf("cache holds %d entries over capacity %d", stats.Entries, stats.Capacity)
	}
	if want := int64(max(iterations-64, 0)); stats.Evictions != want {
		t.Errorf("evictions = %d, want %d", stats.Evictions, want)
	}

	memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	t.Logf("iterations=%d mem_delta=%d bytes entries=%d evictions=%d",
		iterations, memDelta, stats.Entries, stats.Evictions)
	if memDelta > 4<<20 {
		t.Errorf("retained heap grew by %d bytes with a 64 entry cache", memDelta)
	}
}
