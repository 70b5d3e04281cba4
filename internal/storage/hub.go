package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmynk/latepizza/internal/models"
)

// Hub fans out change notifications to subscribers. Store implementations
// embed it and call Publish after every committed write.
type Hub struct {
	mu      sync.RWMutex
	nextID  int
	byGroup map[string]map[int]func(*models.Group)
	all     map[int]func([]*models.Group)
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		byGroup: make(map[string]map[int]func(*models.Group)),
		all:     make(map[int]func([]*models.Group)),
	}
}

// SubscribeGroup implements Store.SubscribeGroup.
func (h *Hub) SubscribeGroup(groupID string, fn func(*models.Group)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	subs, ok := h.byGroup[groupID]
	if !ok {
		subs = make(map[int]func(*models.Group))
		h.byGroup[groupID] = subs
	}
	subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.byGroup[groupID], id)
			if len(h.byGroup[groupID]) == 0 {
				delete(h.byGroup, groupID)
			}
		})
	}
}

// SubscribeGroups implements Store.SubscribeGroups.
func (h *Hub) SubscribeGroups(fn func([]*models.Group)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.all[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.all, id)
		})
	}
}

// Publish notifies subscribers of groupID with group (nil when deleted), then
// list subscribers with the result of list. list is only called when there is
// at least one list subscriber. Every subscriber receives its own copy.
func (h *Hub) Publish(ctx context.Context, groupID string, group *models.Group, list func(context.Context) ([]*models.Group, error)) {
	h.mu.RLock()
	groupSubs := make([]func(*models.Group), 0, len(h.byGroup[groupID]))
	for _, fn := range h.byGroup[groupID] {
		groupSubs = append(groupSubs, fn)
	}
	listSubs := make([]func([]*models.Group), 0, len(h.all))
	for _, fn := range h.all {
		listSubs = append(listSubs, fn)
	}
	h.mu.RUnlock()

	for _, fn := range groupSubs {
		fn(group.Clone())
	}

	if len(listSubs) == 0 {
		return
	}
	groups, err := list(context.WithoutCancel(ctx))
	if err != nil {
		slog.Warn("Failed to load groups for list subscribers", "error", err)
		return
	}
	for _, fn := range listSubs {
		copies := make([]*models.Group, len(groups))
		for i, g := range groups {
			copies[i] = g.Clone()
		}
		fn(copies)
	}
}
