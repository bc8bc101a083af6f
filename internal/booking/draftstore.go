package booking

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/redis/go-redis/v9"

    "github.com/jirayuth/lounge-booking/internal/model"
)

// ErrDraftNotFound is returned when a draft reference is unknown or
// has expired.  The client must start over with a new propose call.
var ErrDraftNotFound = errors.New("draft not found")

// DraftStore keeps bill drafts between the propose and confirm-room
// calls.  The presentation layer owns no booking state besides the
// opaque reference returned by Put.  Drafts expire after a TTL so an
// abandoned proposal never pins anything.
type DraftStore interface {
    Put(ctx context.Context, draft *model.BillDraft) (string, error)
    Get(ctx context.Context, ref string) (*model.BillDraft, error)
    Delete(ctx context.Context, ref string) error
}

// RedisDraftStore stores drafts as JSON values under a key prefix
// with a TTL, so references work across server instances.
type RedisDraftStore struct {
    rdb    *redis.Client
    ttl    time.Duration
    prefix string
}

// NewRedisDraftStore returns a DraftStore backed by the given Redis
// client.
func NewRedisDraftStore(rdb *redis.Client, ttl time.Duration) *RedisDraftStore {
    return &RedisDraftStore{rdb: rdb, ttl: ttl, prefix: "draft:"}
}

// Put stores the draft under a fresh UUID reference.
func (s *RedisDraftStore) Put(ctx context.Context, draft *model.BillDraft) (string, error) {
    ref := uuid.NewString()
    body, err := json.Marshal(draft)
    if err != nil {
        return "", err
    }
    if err := s.rdb.Set(ctx, s.prefix+ref, body, s.ttl).Err(); err != nil {
        return "", fmt.Errorf("draft store: %w", err)
    }
    return ref, nil
}

// Get loads and decodes the draft for ref.
func (s *RedisDraftStore) Get(ctx context.Context, ref string) (*model.BillDraft, error) {
    body, err := s.rdb.Get(ctx, s.prefix+ref).Bytes()
    if err == redis.Nil {
        return nil, ErrDraftNotFound
    }
    if err != nil {
        return nil, fmt.Errorf("draft store: %w", err)
    }
    var d model.BillDraft
    if err := json.Unmarshal(body, &d); err != nil {
        return nil, err
    }
    return &d, nil
}

// Delete removes the draft for ref.  Deleting an unknown reference is
// not an error.
func (s *RedisDraftStore) Delete(ctx context.Context, ref string) error {
    return s.rdb.Del(ctx, s.prefix+ref).Err()
}

// MemoryDraftStore is the in-process fallback used when Redis is not
// reachable, and by tests.  Expiry is checked lazily on Get.
type MemoryDraftStore struct {
    mu     sync.Mutex
    ttl    time.Duration
    drafts map[string]memoryDraft
}

type memoryDraft struct {
    draft     model.BillDraft
    expiresAt time.Time
}

// NewMemoryDraftStore returns an empty in-memory draft store.
func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
    return &MemoryDraftStore{ttl: ttl, drafts: make(map[string]memoryDraft)}
}

// Put stores the draft under a fresh UUID reference.
func (s *MemoryDraftStore) Put(ctx context.Context, draft *model.BillDraft) (string, error) {
    ref := uuid.NewString()
    s.mu.Lock()
    s.drafts[ref] = memoryDraft{draft: *draft, expiresAt: time.Now().Add(s.ttl)}
    s.mu.Unlock()
    return ref, nil
}

// Get returns the draft for ref, removing it when expired.
func (s *MemoryDraftStore) Get(ctx context.Context, ref string) (*model.BillDraft, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    d, ok := s.drafts[ref]
    if !ok {
        return nil, ErrDraftNotFound
    }
    if time.Now().After(d.expiresAt) {
        delete(s.drafts, ref)
        return nil, ErrDraftNotFound
    }
    cp := d.draft
    return &cp, nil
}

// Delete removes the draft for ref.
func (s *MemoryDraftStore) Delete(ctx context.Context, ref string) error {
    s.mu.Lock()
    delete(s.drafts, ref)
    s.mu.Unlock()
    return nil
}
