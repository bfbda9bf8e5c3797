package cache

import "testing"

// Both implementations must satisfy the same slot semantics.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite cache: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestGetMissingSlot(t *testing.T) {
	for name, s := range stores(t) {
		_, ok, err := s.Get(SlotChores)
		if err != nil {
			t.Fatalf("%s: get: %v", name, err)
		}
		if ok {
			t.Errorf("%s: unset slot reported present", name)
		}
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		if err := s.Set(SlotSharingCode, "HAPPY-PANDA-1234"); err != nil {
			t.Fatalf("%s: set: %v", name, err)
		}
		v, ok, err := s.Get(SlotSharingCode)
		if err != nil || !ok || v != "HAPPY-PANDA-1234" {
			t.Errorf("%s: get = (%q, %v, %v)", name, v, ok, err)
		}

		// Overwrite wins.
		if err := s.Set(SlotSharingCode, "BOLD-OTTER-9999"); err != nil {
			t.Fatalf("%s: overwrite: %v", name, err)
		}
		v, _, _ = s.Get(SlotSharingCode)
		if v != "BOLD-OTTER-9999" {
			t.Errorf("%s: overwrite = %q", name, v)
		}
	}
}

func TestEmptyValueDistinctFromUnset(t *testing.T) {
	for name, s := range stores(t) {
		if err := s.Set(SlotMembers, ""); err != nil {
			t.Fatalf("%s: set: %v", name, err)
		}
		v, ok, err := s.Get(SlotMembers)
		if err != nil || !ok || v != "" {
			t.Errorf("%s: empty value should read back present, got (%q, %v, %v)", name, v, ok, err)
		}
	}
}

func TestClear(t *testing.T) {
	for name, s := range stores(t) {
		s.Set(SlotChores, "[]")
		s.Set(SlotMembers, "[]")
		s.Set(SlotSharingCode, "HAPPY-PANDA-1234")

		if err := s.Clear(SlotChores, SlotSharingCode); err != nil {
			t.Fatalf("%s: clear: %v", name, err)
		}
		if _, ok, _ := s.Get(SlotChores); ok {
			t.Errorf("%s: cleared chores slot still present", name)
		}
		if _, ok, _ := s.Get(SlotSharingCode); ok {
			t.Errorf("%s: cleared code slot still present", name)
		}
		if _, ok, _ := s.Get(SlotMembers); !ok {
			t.Errorf("%s: untouched members slot lost", name)
		}
	}
}
