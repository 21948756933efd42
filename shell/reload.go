package shell

import (
	"sync"
	"time"
)

// reloadTimer arms at most one pending reload at a time. Arming while a
// reload is pending keeps the original deadline.
type reloadTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	fire  func()
}

func newReloadTimer(fire func()) *reloadTimer {
	return &reloadTimer{fire: fire}
}

// arm schedules fire after d and reports whether a new timer was started.
func (r *reloadTimer) arm(d time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		return false
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		r.mu.Lock()
		if r.timer != t {
			r.mu.Unlock()
			return
		}
		r.timer = nil
		r.mu.Unlock()
		r.fire()
	})
	r.timer = t
	return true
}

func (r *reloadTimer) pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

func (r *reloadTimer) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
