package converter

// Record is one merged output record as stored in a collection.
type Record interface {
	Empty() bool
}

func (r *PixelRecord) Empty() bool {
	return len(r.Entries) == 0
}

func (r *TriggerRecord) Empty() bool {
	return len(r.Entries) == 0
}

func (r *TotRecord) Empty() bool {
	return len(r.Entries) == 0
}

// Collection is an ordered sequence of records under a fixed name.
type Collection struct {
	Name    string
	Records []Record
}

// CollectionSink owns named collections for one destination event.
// GetOrCreate returns a live handle when the name is already
// registered (existed true) or a fresh unregistered one. A fresh
// handle only becomes visible through Register; a handle the caller
// drops without registering is simply discarded, so a record passes
// into the sink's ownership on successful registration only.
type CollectionSink interface {
	GetOrCreate(name string) (*Collection, bool, error)
	Append(collection *Collection, record Record) error
	Register(collection *Collection, name string) error
}

// MemoryStore keeps registered collections in memory, in registration
// order. It is the destination-event container used by the offline
// CLI and the tests. Callers serialize access; event delivery is
// single-writer per store.
type MemoryStore struct {
	collections map[string]*Collection
	order       []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*Collection)}
}

func (s *MemoryStore) GetOrCreate(name string) (*Collection, bool, error) {
	if collection, ok := s.collections[name]; ok {
		return collection, true, nil
	}
	return &Collection{Name: name}, false, nil
}

func (s *MemoryStore) Append(collection *Collection, record Record) error {
	collection.Records = append(collection.Records, record)
	return nil
}

func (s *MemoryStore) Register(collection *Collection, name string) error {
	if _, ok := s.collections[name]; ok {
		return &ErrCollectionExists{Name: name}
	}
	s.collections[name] = collection
	s.order = append(s.order, name)
	return nil
}

// Collection returns a registered collection by name.
func (s *MemoryStore) Collection(name string) (*Collection, bool) {
	collection, ok := s.collections[name]
	return collection, ok
}

// Names returns the registered collection names in registration order.
func (s *MemoryStore) Names() []string {
	return s.order
}
