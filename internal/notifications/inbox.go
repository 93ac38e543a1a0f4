// Package notifications keeps the in-app notification list.
package notifications

import (
	"sort"
	"sync"

	"github.com/wolfman30/neardoc/internal/domain"
)

// Inbox holds notifications newest first. Read flags set locally survive a
// refresh from the backend. The zero value is an empty inbox.
type Inbox struct {
	mu    sync.RWMutex
	items []domain.Notification
	read  map[string]bool
}

// NewInbox returns an inbox seeded with items.
func NewInbox(items []domain.Notification) *Inbox {
	in := &Inbox{}
	in.Replace(items)
	return in
}

// Replace swaps in a fresh list from the backend.
func (in *Inbox) Replace(items []domain.Notification) {
	sorted := append([]domain.Notification(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})

	in.mu.Lock()
	defer in.mu.Unlock()
	in.ensureRead()
	for i := range sorted {
		if in.read[sorted[i].ID] {
			sorted[i].IsRead = true
		}
		if sorted[i].IsRead {
			in.read[sorted[i].ID] = true
		}
	}
	in.items = sorted
}

// MarkRead flags one notification. It reports whether id was found.
func (in *Inbox) MarkRead(id string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.ensureRead()
	for i := range in.items {
		if in.items[i].ID == id {
			in.items[i].IsRead = true
			in.read[id] = true
			return true
		}
	}
	return false
}

func (in *Inbox) MarkAllRead() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.ensureRead()
	for i := range in.items {
		in.items[i].IsRead = true
		in.read[in.items[i].ID] = true
	}
}

func (in *Inbox) UnreadCount() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	n := 0
	for _, item := range in.items {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// Items returns a copy of the list, newest first.
func (in *Inbox) Items() []domain.Notification {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return append([]domain.Notification(nil), in.items...)
}

func (in *Inbox) ensureRead() {
	if in.read == nil {
		in.read = make(map[string]bool)
	}
}
