package storage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"thumbforge/internal/domain"
)

func newTestKV(t *testing.T, maxBytes int) *KV {
	t.Helper()
	kv, err := Open(filepath.Join(t.TempDir(), "test.db"), maxBytes)
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestPutGetRoundTrip(t *testing.T) {
	kv := newTestKV(t, 0)
	ctx := context.Background()

	if err := kv.Put(ctx, KeyTimeline, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := kv.Get(ctx, KeyTimeline)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte(`[{"id":"a"}]`)) {
		t.Fatalf("Get = %q", got)
	}

	if err := kv.Put(ctx, KeyTimeline, []byte(`[]`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, _ = kv.Get(ctx, KeyTimeline)
	if string(got) != `[]` {
		t.Fatalf("overwrite lost: %q", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	kv := newTestKV(t, 0)
	got, err := kv.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("Get absent = %q, want nil", got)
	}
}

func TestPutRejectsOversizedValue(t *testing.T) {
	kv := newTestKV(t, 16)
	err := kv.Put(context.Background(), KeyTimeline, bytes.Repeat([]byte{'x'}, 17))
	if !errors.Is(err, domain.ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}

	if err := kv.Put(context.Background(), KeyTimeline, bytes.Repeat([]byte{'x'}, 16)); err != nil {
		t.Fatalf("Put at capacity: %v", err)
	}
}

func TestCounter(t *testing.T) {
	kv := newTestKV(t, 0)
	ctx := context.Background()

	if v, err := kv.Counter(ctx, KeyEngagement); err != nil || v != 0 {
		t.Fatalf("Counter fresh = %d, %v", v, err)
	}
	for want := int64(1); want <= 3; want++ {
		got, err := kv.IncrementCounter(ctx, KeyEngagement)
		if err != nil {
			t.Fatalf("IncrementCounter: %v", err)
		}
		if got != want {
			t.Fatalf("IncrementCounter = %d, want %d", got, want)
		}
	}
}
