package eventstore

import (
	"testing"

	"github.com/nexushub/nexushub/internal/testutil"
)

func TestAddRSVP_CapacityBoundary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateMember(ctx, "Creator", "creator@test.com")
	alice := f.CreateMember(ctx, "Alice", "alice@test.com")
	bob := f.CreateMember(ctx, "Bob", "bob@test.com")
	event := f.CreateEvent(ctx, "Meetup", creator.ID, 1)

	store := New(db)

	// The last free slot goes to Alice.
	changed, matched, err := store.AddRSVP(ctx, event.ID, alice.ID)
	if err != nil {
		t.Fatalf("AddRSVP failed: %v", err)
	}
	if !matched || !changed {
		t.Fatalf("expected RSVP at capacity-1 to land, got changed=%v matched=%v", changed, matched)
	}

	// Bob arrives at capacity: the guarded filter matches nothing.
	changed, matched, err = store.AddRSVP(ctx, event.ID, bob.ID)
	if err != nil {
		t.Fatalf("AddRSVP failed: %v", err)
	}
	if matched {
		t.Error("expected full event to reject the RSVP")
	}
	if changed {
		t.Error("full event must not be modified")
	}

	got, err := store.GetByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.RSVPIDs) != 1 {
		t.Errorf("rsvp_ids has %d entries, want 1", len(got.RSVPIDs))
	}
}

func TestAddRSVP_RepeatIsNoOpNotFull(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateMember(ctx, "Creator", "creator@test.com")
	alice := f.CreateMember(ctx, "Alice", "alice@test.com")
	event := f.CreateEvent(ctx, "Meetup", creator.ID, 1)

	store := New(db)

	if _, _, err := store.AddRSVP(ctx, event.ID, alice.ID); err != nil {
		t.Fatalf("AddRSVP failed: %v", err)
	}

	// Alice holds the only slot; her repeat RSVP must read as "already
	// there", not "event full".
	changed, matched, err := store.AddRSVP(ctx, event.ID, alice.ID)
	if err != nil {
		t.Fatalf("repeat AddRSVP failed: %v", err)
	}
	if !matched {
		t.Error("repeat RSVP should match the existing-RSVP filter arm")
	}
	if changed {
		t.Error("repeat RSVP must not change the set")
	}
}

func TestAddRSVP_UnlimitedWhenZeroCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateMember(ctx, "Creator", "creator@test.com")
	event := f.CreateEvent(ctx, "Open Meetup", creator.ID, 0)

	store := New(db)

	for i := 0; i < 5; i++ {
		u := f.CreateMember(ctx, "Guest", "guest"+string(rune('a'+i))+"@test.com")
		changed, matched, err := store.AddRSVP(ctx, event.ID, u.ID)
		if err != nil {
			t.Fatalf("AddRSVP failed: %v", err)
		}
		if !matched || !changed {
			t.Fatalf("RSVP %d rejected on an unlimited event", i)
		}
	}
}

func TestRemoveRSVP_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateMember(ctx, "Creator", "creator@test.com")
	alice := f.CreateMember(ctx, "Alice", "alice@test.com")
	event := f.CreateEvent(ctx, "Meetup", creator.ID, 0)

	store := New(db)

	if _, _, err := store.AddRSVP(ctx, event.ID, alice.ID); err != nil {
		t.Fatalf("AddRSVP failed: %v", err)
	}

	changed, err := store.RemoveRSVP(ctx, event.ID, alice.ID)
	if err != nil {
		t.Fatalf("RemoveRSVP failed: %v", err)
	}
	if !changed {
		t.Error("expected removal to change the set")
	}

	changed, err = store.RemoveRSVP(ctx, event.ID, alice.ID)
	if err != nil {
		t.Fatalf("repeat RemoveRSVP failed: %v", err)
	}
	if changed {
		t.Error("expected repeat removal to be a no-op")
	}
}
