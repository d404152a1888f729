package collection

import (
	"testing"

	"github.com/google/uuid"
)

func asset(id int64, texture string) Asset {
	return Asset{Name: "skin", ID: id, Texture: texture, Signature: "sig"}
}

func TestAddAndList(t *testing.T) {
	t.Parallel()
	s := NewStore(5)
	id := uuid.New()

	if got := s.Assets(id); got != nil {
		t.Fatalf("fresh identity has assets: %v", got)
	}

	if err := s.Add(id, asset(1, "a")); err != nil {
		t.Fatalf("Add err: %v", err)
	}
	if err := s.Add(id, asset(2, "b")); err != nil {
		t.Fatalf("Add err: %v", err)
	}

	got := s.Assets(id)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("insertion order lost: %v", got)
	}
}

func TestAddRejectsDuplicateTexture(t *testing.T) {
	t.Parallel()
	s := NewStore(5)
	id := uuid.New()

	s.Add(id, asset(1, "a"))
	// Same texture under a different name and id is the same asset.
	err := s.Add(id, Asset{Name: "other", ID: 99, Texture: "a", Signature: "x"})
	if err != ErrDuplicateAsset {
		t.Fatalf("Add duplicate = %v; want ErrDuplicateAsset", err)
	}
	if s.Size(id) != 1 {
		t.Fatalf("size = %d after rejected add", s.Size(id))
	}
}

func TestAddEnforcesCapacity(t *testing.T) {
	t.Parallel()
	s := NewStore(2)
	id := uuid.New()

	s.Add(id, asset(1, "a"))
	s.Add(id, asset(2, "b"))
	if err := s.Add(id, asset(3, "c")); err != ErrCollectionFull {
		t.Fatalf("Add over capacity = %v; want ErrCollectionFull", err)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	s := NewStore(5)
	id := uuid.New()

	s.Add(id, asset(1, "a"))
	s.Add(id, asset(2, "b"))

	if err := s.Remove(id, 404); err != ErrAssetNotFound {
		t.Fatalf("Remove missing = %v; want ErrAssetNotFound", err)
	}
	if s.Size(id) != 2 {
		t.Fatal("failed remove changed the collection")
	}

	if err := s.Remove(id, 1); err != nil {
		t.Fatalf("Remove err: %v", err)
	}
	if _, ok := s.ByID(id, 1); ok {
		t.Fatal("removed asset still present")
	}
}

func TestRemoveClearsActivePointer(t *testing.T) {
	t.Parallel()
	s := NewStore(5)
	id := uuid.New()

	s.Add(id, asset(1, "a"))
	if err := s.SetActive(id, 1); err != nil {
		t.Fatalf("SetActive err: %v", err)
	}
	if got, ok := s.ActiveID(id); !ok || got != 1 {
		t.Fatalf("ActiveID = %d, %v", got, ok)
	}

	s.Remove(id, 1)
	if _, ok := s.ActiveID(id); ok {
		t.Fatal("active pointer survived removal of its asset")
	}
}

func TestSetActiveRequiresAsset(t *testing.T) {
	t.Parallel()
	s := NewStore(5)
	id := uuid.New()

	if err := s.SetActive(id, 1); err != ErrAssetNotFound {
		t.Fatalf("SetActive on empty = %v; want ErrAssetNotFound", err)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()
	s := NewStore(5)
	id := uuid.New()

	s.Add(id, asset(1, "a"))
	s.SetActive(id, 1)

	snap := s.Snapshot()
	c := snap[id]
	c.Assets[0].Name = "mutated"
	*c.ActiveID = 42

	if got, _ := s.ByID(id, 1); got.Name != "skin" {
		t.Fatal("snapshot aliases live assets")
	}
	if got, _ := s.ActiveID(id); got != 1 {
		t.Fatal("snapshot aliases live active pointer")
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()
	s := NewStore(5)
	id := uuid.New()
	active := int64(7)

	s.Replace(map[uuid.UUID]Collection{
		id: {Assets: []Asset{asset(7, "t")}, ActiveID: &active},
	})

	if s.Size(id) != 1 {
		t.Fatalf("size after Replace = %d", s.Size(id))
	}
	if got, ok := s.ActiveID(id); !ok || got != 7 {
		t.Fatalf("ActiveID after Replace = %d, %v", got, ok)
	}
}
