// Package cache is the device-local persistence layer: three independent
// string-keyed slots holding the last-known chore list, member list, and
// sharing code. Slots are read and written atomically per slot, not
// transactionally across slots.
package cache

// Slot names. The values are stable storage keys; renaming them orphans
// existing data.
const (
	SlotChores      = "chores"
	SlotMembers     = "members"
	SlotSharingCode = "sharing_code"
)

// Store is the storage port the sync orchestrator is handed. Get reports
// ok=false for a slot that was never set, distinct from an empty value.
type Store interface {
	Get(slot string) (value string, ok bool, err error)
	Set(slot, value string) error
	Clear(slots ...string) error
}

// Memory is an in-memory Store for tests and for running without a cache
// path configured. Not safe for concurrent use.
type Memory struct {
	slots map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string]string)}
}

func (m *Memory) Get(slot string) (string, bool, error) {
	v, ok := m.slots[slot]
	return v, ok, nil
}

func (m *Memory) Set(slot, value string) error {
	m.slots[slot] = value
	return nil
}

func (m *Memory) Clear(slots ...string) error {
	for _, s := range slots {
		delete(m.slots, s)
	}
	return nil
}
