package shared

import (
	"sync"

	"omiam-waitlist/internal/domain/waitlist"
)

// ConfigurationHolder owns the process-wide waitlist configuration.
type ConfigurationHolder struct {
	mu  sync.RWMutex
	cfg waitlist.Configuration
}

func NewConfigurationHolder(initial waitlist.Configuration) *ConfigurationHolder {
	return &ConfigurationHolder{cfg: initial.Clone()}
}

func (h *ConfigurationHolder) Get() waitlist.Configuration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg.Clone()
}

func (h *ConfigurationHolder) Replace(cfg waitlist.Configuration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg = cfg.Clone()
}

// Update applies fn to a copy and stores the result unless fn fails.
func (h *ConfigurationHolder) Update(fn func(cfg *waitlist.Configuration) error) (waitlist.Configuration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	next := h.cfg.Clone()
	if err := fn(&next); err != nil {
		return h.cfg.Clone(), err
	}
	h.cfg = next
	return next.Clone(), nil
}
