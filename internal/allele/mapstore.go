package allele

// MapStore is an in-memory annotation store. It must not be modified after
// it is handed to readers; lookups are then safe for concurrent use.
type MapStore struct {
	records map[Key]Properties
}

// NewMapStore creates an empty store.
func NewMapStore() *MapStore {
	return &MapStore{records: make(map[Key]Properties)}
}

// Put adds or replaces the record for k.
func (s *MapStore) Put(k Key, p Properties) {
	s.records[k] = p
}

// Lookup returns the record for k. A miss is reported as ok == false.
func (s *MapStore) Lookup(k Key) (Properties, bool, error) {
	p, ok := s.records[k]
	return p, ok, nil
}

// Len returns the number of records.
func (s *MapStore) Len() int {
	return len(s.records)
}
