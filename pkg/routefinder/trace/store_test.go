package trace

import "testing"

func TestStore_ImplementedByMemoryStore(t *testing.T) {
	var _ Store = (*MemoryStore)(nil)
}

func TestStore_ImplementedBySQLiteStore(t *testing.T) {
	var _ Store = (*SQLiteStore)(nil)
}
