package pricecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyStore persists snapshots in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "prices"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, region string) (Snapshot, bool, error) {
	cmd := s.client.B().Get().Key(s.key(region)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("get price snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode price snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, snap Snapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode price snapshot: %w", err)
	}
	builder := s.client.B().Set().Key(s.key(snap.Region)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) key(region string) string {
	return fmt.Sprintf("%s:region:%s", s.prefix, regionKey(region))
}

var _ Store = (*ValkeyStore)(nil)
