package skin

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/zeroends/skinhub/internal/collection"
	"github.com/zeroends/skinhub/internal/identity"
)

type recordingApplier struct {
	calls int64
	err   error
	last  collection.Asset
}

func (a *recordingApplier) Apply(ctx context.Context, id identity.ID, handle string, asset collection.Asset) error {
	atomic.AddInt64(&a.calls, 1)
	a.last = asset
	return a.err
}

type countingPersister struct{ saves int64 }

func (p *countingPersister) SaveAsync(map[identity.ID]collection.Collection) {
	atomic.AddInt64(&p.saves, 1)
}

func newService(applier *recordingApplier) (*Service, *collection.Store, *countingPersister) {
	store := collection.NewStore(5)
	per := &countingPersister{}
	return NewService(store, applier, per), store, per
}

func TestListEmpty(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(&recordingApplier{})

	assets, active, max := svc.List(uuid.New())
	if assets == nil || len(assets) != 0 {
		t.Fatalf("assets = %v; want empty non-nil slice", assets)
	}
	if active != 0 || max != 5 {
		t.Fatalf("active = %d, max = %d", active, max)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()
	applier := &recordingApplier{}
	svc, store, per := newService(applier)
	id := uuid.New()
	store.Add(id, collection.Asset{Name: "cool", ID: 7, Texture: "t", Signature: "s"})

	if err := svc.Apply(context.Background(), id, "Alice", 7); err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	if applier.last.ID != 7 {
		t.Fatalf("applier saw asset %d", applier.last.ID)
	}
	if _, active, _ := svc.List(id); active != 7 {
		t.Fatalf("active id = %d; want 7", active)
	}
	if atomic.LoadInt64(&per.saves) != 1 {
		t.Fatal("apply did not trigger persistence")
	}
}

func TestApplyUnknownAsset(t *testing.T) {
	t.Parallel()
	applier := &recordingApplier{}
	svc, _, per := newService(applier)

	if err := svc.Apply(context.Background(), uuid.New(), "Alice", 404); err != ErrAssetNotFound {
		t.Fatalf("Apply = %v; want ErrAssetNotFound", err)
	}
	if atomic.LoadInt64(&applier.calls) != 0 {
		t.Fatal("applier called for an unknown asset")
	}
	if atomic.LoadInt64(&per.saves) != 0 {
		t.Fatal("failed apply triggered persistence")
	}
}

func TestApplyFailurePropagates(t *testing.T) {
	t.Parallel()
	applier := &recordingApplier{err: fmt.Errorf("appearance service down")}
	svc, store, _ := newService(applier)
	id := uuid.New()
	store.Add(id, collection.Asset{ID: 1, Texture: "t"})

	if err := svc.Apply(context.Background(), id, "Alice", 1); err != ErrApplyFailed {
		t.Fatalf("Apply = %v; want ErrApplyFailed", err)
	}
	if _, active, _ := svc.List(id); active != 0 {
		t.Fatal("failed apply still marked the asset active")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	svc, store, per := newService(&recordingApplier{})
	id := uuid.New()
	store.Add(id, collection.Asset{ID: 1, Texture: "t"})

	if err := svc.Delete(id, 1); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if store.Size(id) != 0 {
		t.Fatal("asset still present after delete")
	}
	if atomic.LoadInt64(&per.saves) != 1 {
		t.Fatal("delete did not trigger persistence")
	}
}

func TestDeleteMissingLeavesCollection(t *testing.T) {
	t.Parallel()
	svc, store, per := newService(&recordingApplier{})
	id := uuid.New()
	store.Add(id, collection.Asset{ID: 1, Texture: "t"})

	if err := svc.Delete(id, 404); err != ErrAssetNotFound {
		t.Fatalf("Delete = %v; want ErrAssetNotFound", err)
	}
	if store.Size(id) != 1 {
		t.Fatal("failed delete changed the collection size")
	}
	if atomic.LoadInt64(&per.saves) != 0 {
		t.Fatal("failed delete triggered persistence")
	}
}
