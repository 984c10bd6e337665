package profiling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler accumulates per-tick CPU time under named buckets.
// Usage: defer p.Track("scene.Tick")()
type Profiler struct {
	totals map[string]time.Duration
	now    func() time.Time
}

// New returns a Profiler reading the wall clock
func New() *Profiler {
	return &Profiler{totals: make(map[string]time.Duration), now: time.Now}
}

// Track returns a stop function that records the elapsed time under name
func (p *Profiler) Track(name string) func() {
	start := p.now()
	return func() {
		p.totals[name] += p.now().Sub(start)
	}
}

// ResetFrame clears the current totals. Call at the start of each tick.
func (p *Profiler) ResetFrame() {
	clear(p.totals)
}

// TopN formats the n largest buckets of the current tick, largest first.
// Example: "scene.Tick:4.2ms, surface.Swap:2.1ms"
func (p *Profiler) TopN(n int) string {
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(p.totals))
	for k, v := range p.totals {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+formatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0"
func formatMs(d time.Duration) string {
	s := fmt.Sprintf("%.1f", float64(d.Microseconds())/1000)
	return strings.TrimSuffix(s, ".0") + "ms"
}
