// Package channel hands published drafts from the authoring step to the
// review and generation steps. Slots are keyed by draft id so concurrent
// wizard sessions stay isolated, and every publish also writes a fallback
// copy to the cache layer: the generation worker runs in a separate
// process and rehydrates the draft from there.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"invitation-backend/internal/domains/invitation"
	"invitation-backend/pkg/cache"
)

const keyPrefix = "invitation:published:"

// Channel is the shared draft handoff. Drafts are stored serialized;
// Current always returns a fresh copy, so no consumer can mutate the
// published value in place.
type Channel struct {
	mu       sync.RWMutex
	slots    map[string][]byte
	fallback cache.Cache
	ttl      time.Duration
	maxBytes int
}

func New(fallback cache.Cache, ttl time.Duration, maxBytes int) *Channel {
	return &Channel{
		slots:    make(map[string][]byte),
		fallback: fallback,
		ttl:      ttl,
		maxBytes: maxBytes,
	}
}

// Publish freezes the draft into the slot for draftID, overwriting any
// previous value (last write wins). Serialized drafts above the size
// ceiling are rejected before touching the fallback store: embedded
// data-URL media can otherwise blow the store's quota.
func (c *Channel) Publish(ctx context.Context, draftID string, draft *invitation.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if len(payload) > c.maxBytes {
		return fmt.Errorf("%w: %d bytes (ceiling %d)", invitation.ErrPayloadTooLarge, len(payload), c.maxBytes)
	}

	c.mu.Lock()
	c.slots[draftID] = payload
	c.mu.Unlock()

	// The fallback copy is what the out-of-process worker reads, so a
	// failed write is a real error, not best-effort.
	if err := c.fallback.Set(ctx, keyPrefix+draftID, json.RawMessage(payload), c.ttl); err != nil {
		return fmt.Errorf("persist draft fallback: %w", err)
	}
	return nil
}

// Current returns the latest published draft for draftID. On an in-memory
// miss (e.g. a different process lifetime) it rehydrates from the
// fallback copy. Returns ErrNotPublished when neither holds a value.
func (c *Channel) Current(ctx context.Context, draftID string) (*invitation.Draft, error) {
	c.mu.RLock()
	payload, ok := c.slots[draftID]
	c.mu.RUnlock()

	if ok {
		var draft invitation.Draft
		if err := json.Unmarshal(payload, &draft); err != nil {
			return nil, fmt.Errorf("unmarshal draft: %w", err)
		}
		return &draft, nil
	}

	var draft invitation.Draft
	found, err := c.fallback.Get(ctx, keyPrefix+draftID, &draft)
	if err != nil {
		return nil, fmt.Errorf("load draft fallback: %w", err)
	}
	if !found {
		return nil, invitation.ErrNotPublished
	}
	return &draft, nil
}

// Discard releases the slot once the uploader has consumed the draft.
func (c *Channel) Discard(ctx context.Context, draftID string) error {
	c.mu.Lock()
	delete(c.slots, draftID)
	c.mu.Unlock()

	return c.fallback.Delete(ctx, keyPrefix+draftID)
}
