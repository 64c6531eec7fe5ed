// Package health exposes liveness and readiness probes in the style of
// Kubernetes: every probe runs on its own ticker and flips state only after
// a run of consecutive failures or successes, so a single slow database
// ping does not bounce the pod out of the load balancer.
package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// ProbeFunc reports whether one dependency is usable. A nil return means
// healthy.
type ProbeFunc func(ctx context.Context) error

const (
	defaultFailuresToTrip = 3
	defaultPassesToClear  = 1
)

// probe is one registered check plus its runtime state. The consecutive
// counters are touched only by the single loop goroutine; state and lastErr
// are shared with the HTTP handlers and therefore atomic.
type probe struct {
	name    string
	timeout time.Duration
	fn      ProbeFunc

	failuresToTrip int
	passesToClear  int

	passing atomic.Bool
	lastErr atomic.Pointer[error]

	streakFail int
	streakPass int
}

func (p *probe) observe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.fn(ctx)
	p.lastErr.Store(&err)

	if err != nil {
		p.streakPass = 0
		p.streakFail++
		if p.streakFail >= p.failuresToTrip {
			p.passing.Store(false)
		}
		return
	}
	p.streakFail = 0
	p.streakPass++
	if p.streakPass >= p.passesToClear {
		p.passing.Store(true)
	}
}

func (p *probe) failure() string {
	if ep := p.lastErr.Load(); ep != nil && *ep != nil {
		return (*ep).Error()
	}
	return "probe is failing"
}

// Checker owns the probe set and the manual ready flag.
type Checker struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*probe
	readiness []*probe
	cancel    context.CancelFunc
}

// NewChecker returns a Checker that reports not-ready until MarkReady(true)
// is called.
func NewChecker() *Checker {
	return &Checker{}
}

func newProbe(name string, timeout time.Duration, fn ProbeFunc) *probe {
	p := &probe{
		name:           name,
		timeout:        timeout,
		fn:             fn,
		failuresToTrip: defaultFailuresToTrip,
		passesToClear:  defaultPassesToClear,
	}
	// Optimistic start so a slow first run does not fail the pod.
	p.passing.Store(true)
	return p
}

// Liveness registers a probe answering "is this process still functional".
func (c *Checker) Liveness(name string, timeout time.Duration, fn ProbeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveness = append(c.liveness, newProbe(name, timeout, fn))
}

// Readiness registers a probe answering "can this process serve traffic".
func (c *Checker) Readiness(name string, timeout time.Duration, fn ProbeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readiness = append(c.readiness, newProbe(name, timeout, fn))
}

// Run starts one goroutine per registered probe, each firing every interval
// until ctx is cancelled or Shutdown is called.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	probes := append(append([]*probe(nil), c.liveness...), c.readiness...)
	c.mu.Unlock()

	for _, p := range probes {
		go func(p *probe) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			p.observe(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					p.observe(ctx)
				}
			}
		}(p)
	}
}

// MarkReady flips the manual readiness gate. Set it to false at the start of
// graceful shutdown so the load balancer drains the instance.
func (c *Checker) MarkReady(ready bool) {
	c.ready.Store(ready)
}

// Ready reports true only when the manual gate is open and every readiness
// probe passes.
func (c *Checker) Ready() bool {
	if !c.ready.Load() {
		return false
	}

	c.mu.RLock()
	probes := c.readiness
	c.mu.RUnlock()

	for _, p := range probes {
		if !p.passing.Load() {
			return false
		}
	}
	return true
}

// Shutdown stops the probe goroutines. Safe to call more than once.
func (c *Checker) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// LiveHandler serves the /livez probe endpoint.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(gc *gin.Context) {
		c.mu.RLock()
		probes := append([]*probe(nil), c.liveness...)
		c.mu.RUnlock()

		respond(gc, failures(probes))
	}
}

// ReadyHandler serves the /readyz probe endpoint.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(gc *gin.Context) {
		c.mu.RLock()
		probes := append([]*probe(nil), c.readiness...)
		c.mu.RUnlock()

		fails := failures(probes)
		if !c.ready.Load() {
			fails["_gate"] = "instance is draining or not yet ready"
		}
		respond(gc, fails)
	}
}

func failures(probes []*probe) map[string]string {
	out := make(map[string]string)
	for _, p := range probes {
		if !p.passing.Load() {
			out[p.name] = p.failure()
		}
	}
	return out
}

func respond(gc *gin.Context, fails map[string]string) {
	if len(fails) == 0 {
		gc.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	gc.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "checks": fails})
}
