package cache

import "container/list"

// storeEntry is what the LRU order list holds for each key.
type storeEntry[V any] struct {
	key string
	box entryBox[V]
}

// store is the backing store: an internal-key to entryBox mapping with LRU
// bookkeeping. It is not safe for concurrent use on its own; the owning cache
// serializes all access through its reader/writer mutex. Created lazily on
// first write, nil until then.
type store[V any] struct {
	items map[string]*list.Element // key -> list element
	order *list.List               // doubly-linked list, front = most recently used
}

func newStore[V any]() *store[V] {
	return &store[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

// lookup returns the boxed value for key without changing recency.
func (s *store[V]) lookup(key string) (entryBox[V], bool) {
	element, exists := s.items[key]
	if !exists {
		return entryBox[V]{}, false
	}
	return element.Value.(*storeEntry[V]).box, true
}

// touch marks key as most recently used. Missing keys are ignored; an entry
// can disappear between a read-locked probe and the recency update.
func (s *store[V]) touch(key string) {
	if element, exists := s.items[key]; exists {
		s.order.MoveToFront(element)
	}
}

// insert adds or overwrites the entry for key and marks it most recently
// used. Returns true if a new entry was created.
func (s *store[V]) insert(key string, box entryBox[V]) bool {
	if element, exists := s.items[key]; exists {
		element.Value.(*storeEntry[V]).box = box
		s.order.MoveToFront(element)
		return false
	}

	element := s.order.PushFront(&storeEntry[V]{key: key, box: box})
	s.items[key] = element
	return true
}

// remove deletes the entry for key, returning the removed box.
func (s *store[V]) remove(key string) (entryBox[V], bool) {
	element, exists := s.items[key]
	if !exists {
		return entryBox[V]{}, false
	}
	entry := element.Value.(*storeEntry[V])
	delete(s.items, key)
	s.order.Remove(element)
	return entry.box, true
}

// evictOldest removes and returns the least-recently-used entry.
func (s *store[V]) evictOldest() (storeEntry[V], bool) {
	element := s.order.Back()
	if element == nil {
		return storeEntry[V]{}, false
	}
	entry := element.Value.(*storeEntry[V])
	delete(s.items, entry.key)
	s.order.Remove(element)
	return *entry, true
}

// drain empties the store and returns the removed entries in LRU order
// (least recently used first). Used by Clear to run eviction callbacks after
// the lock is released.
func (s *store[V]) drain() []storeEntry[V] {
	entries := make([]storeEntry[V], 0, len(s.items))
	for element := s.order.Back(); element != nil; element = element.Prev() {
		entries = append(entries, *element.Value.(*storeEntry[V]))
	}
	s.items = make(map[string]*list.Element)
	s.order.Init()
	return entries
}

func (s *store[V]) size() int {
	return len(s.items)
}

// keys returns all keys in LRU order (most recently used first).
func (s *store[V]) keys() []string {
	keys := make([]string, 0, len(s.items))
	for element := s.order.Front(); element != nil; element = element.Next() {
		keys = append(keys, element.Value.(*storeEntry[V]).key)
	}
	return keys
}
