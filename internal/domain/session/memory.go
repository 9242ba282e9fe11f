package session

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) {
	m.values[key] = value
}

func (m *MemoryStore) Delete(key string) {
	delete(m.values, key)
}
