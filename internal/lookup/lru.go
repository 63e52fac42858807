package lookup

import "sync"

// lru is a thread-safe LRU map of lookup entries. A non-positive maxEntries
// disables eviction.
type lru struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*node
	head       *node // most recently used
	tail       *node // least recently used
}

type node struct {
	key   string
	value Entry
	prev  *node
	next  *node
}

func newLRU(maxEntries int) *lru {
	return &lru{
		maxEntries: maxEntries,
		entries:    make(map[string]*node),
	}
}

func (c *lru) get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	c.moveToFront(n)
	return n.value, true
}

func (c *lru) put(key string, value Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}

	n := &node{key: key, value: value}
	c.entries[key] = n
	c.addToFront(n)

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lru) moveToFront(n *node) {
	if n == c.head {
		return
	}
	c.remove(n)
	c.addToFront(n)
}

func (c *lru) addToFront(n *node) {
	n.next = c.head
	n.prev = nil
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *lru) remove(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
}

func (c *lru) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
