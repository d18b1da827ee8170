package cache

// lruNode links one key into an lruList.
type lruNode[K comparable] struct {
	key        K
	prev, next *lruNode[K]
}

// lruList orders keys by recency. It is a ring around a sentinel: root.next
// is the most recently used key, root.prev the least. It is not
// synchronized; Cache holds its lock around every call.
type lruList[K comparable] struct {
	root lruNode[K]
	len  int
}

func newLRUList[K comparable]() *lruList[K] {
	l := &lruList[K]{}
	l.root.next = &l.root
	l.root.prev = &l.root
	return l
}

// Len returns the number of keys in the list.
func (l *lruList[K]) Len() int { return l.len }

// PushFront inserts key as most recently used and returns its node.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key}
	l.insertAfterRoot(n)
	l.len++
	return n
}

// MoveToFront marks n most recently used.
func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	l.unlink(n)
	l.insertAfterRoot(n)
}

// Remove takes n out of the list.
func (l *lruList[K]) Remove(n *lruNode[K]) {
	if n == nil || n.next == nil {
		return
	}
	l.unlink(n)
	n.next, n.prev = nil, nil
	l.len--
}

// RemoveOldest removes and returns the least recently used key.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	if l.len == 0 {
		var zero K
		return zero, false
	}
	n := l.root.prev
	l.Remove(n)
	return n.key, true
}

func (l *lruList[K]) insertAfterRoot(n *lruNode[K]) {
	n.prev = &l.root
	n.next = l.root.next
	l.root.next.prev = n
	l.root.next = n
}

func (l *lruList[K]) unlink(n *lruNode[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}
