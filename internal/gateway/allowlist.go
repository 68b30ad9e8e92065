package gateway

import (
	"slices"
	"strings"
	"sync"
)

// AllowList is the set of user IDs allowed to issue commands. It is safe
// for concurrent use and can be replaced while running.
type AllowList struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewAllowList returns a list holding ids.
func NewAllowList(ids []string) *AllowList {
	a := &AllowList{}
	a.Replace(ids)
	return a
}

// Allowed reports whether id may use the gateway. The empty ID never is.
func (a *AllowList) Allowed(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.ids[id]
	return ok
}

// Replace swaps the whole list and returns its new size. Blank entries are
// skipped.
func (a *AllowList) Replace(ids []string) int {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			next[id] = struct{}{}
		}
	}
	a.mu.Lock()
	a.ids = next
	a.mu.Unlock()
	return len(next)
}

// IDs returns the allowed user IDs in sorted order.
func (a *AllowList) IDs() []string {
	a.mu.RLock()
	ids := make([]string, 0, len(a.ids))
	for id := range a.ids {
		ids = append(ids, id)
	}
	a.mu.RUnlock()
	slices.Sort(ids)
	return ids
}
