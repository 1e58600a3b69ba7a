package narrow

import "github.com/sharpts/sharpts/internal/types"

// persistentMap is a structural-sharing Hash Array Mapped Trie keyed on a
// Path's canonical string form, holding the narrowed TypeInfo for that
// path. Adapted from the teacher's corpus-mate persistent map
// (funvibe-funxy's internal/evaluator/persistent_map.go): same bitmap-
// indexed trie node shape and copy-on-write Put, specialized here to a
// string-keyed, fixed-value-type map since NarrowingContext never needs
// arbitrary Object keys — only Path strings.
const (
	hamtBits = 5
	hamtSize = 1 << hamtBits
	hamtMask = hamtSize - 1
)

type persistentMap struct {
	root  *hamtNode
	count int
}

type hamtNode struct {
	bitmap uint32
	nodes  []any // hamtEntry or *hamtNode
}

type hamtEntry struct {
	hash  uint32
	key   string
	value types.TypeInfo
}

func emptyMap() *persistentMap { return &persistentMap{} }

func (m *persistentMap) Len() int { return m.count }

func (m *persistentMap) Get(key string) (types.TypeInfo, bool) {
	if m.root == nil {
		return nil, false
	}
	return m.root.get(fnv32(key), key, 0)
}

func (m *persistentMap) Put(key string, value types.TypeInfo) *persistentMap {
	hash := fnv32(key)
	var newRoot *hamtNode
	var added bool
	if m.root == nil {
		newRoot, added = (&hamtNode{}).put(hash, key, value, 0)
	} else {
		newRoot, added = m.root.put(hash, key, value, 0)
	}
	count := m.count
	if added {
		count++
	}
	return &persistentMap{root: newRoot, count: count}
}

func (m *persistentMap) Remove(key string) *persistentMap {
	if m.root == nil {
		return m
	}
	newRoot, removed := m.root.remove(fnv32(key), key, 0)
	if !removed {
		return m
	}
	return &persistentMap{root: newRoot, count: m.count - 1}
}

// RemoveMatching returns a new map with every entry whose key satisfies
// pred removed, used by invalidation to drop every narrowing whose Path
// overlaps a written-to path.
func (m *persistentMap) RemoveMatching(pred func(key string) bool) *persistentMap {
	out := m
	m.forEach(func(k string, v types.TypeInfo) {
		if pred(k) {
			out = out.Remove(k)
		}
	})
	return out
}

func (m *persistentMap) forEach(f func(key string, value types.TypeInfo)) {
	if m.root != nil {
		m.root.forEach(f)
	}
}

func (n *hamtNode) get(hash uint32, key string, shift uint) (types.TypeInfo, bool) {
	if shift >= 32 {
		for _, node := range n.nodes {
			if e, ok := node.(hamtEntry); ok && e.key == key {
				return e.value, true
			}
		}
		return nil, false
	}
	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	if n.bitmap&bit == 0 {
		return nil, false
	}
	pos := popcount(n.bitmap & (bit - 1))
	switch v := n.nodes[pos].(type) {
	case hamtEntry:
		if v.hash == hash && v.key == key {
			return v.value, true
		}
		return nil, false
	case *hamtNode:
		return v.get(hash, key, shift+hamtBits)
	}
	return nil, false
}

func (n *hamtNode) put(hash uint32, key string, value types.TypeInfo, shift uint) (*hamtNode, bool) {
	if shift >= 32 {
		newNode := &hamtNode{bitmap: n.bitmap, nodes: append([]any{}, n.nodes...)}
		for i, node := range newNode.nodes {
			if e, ok := node.(hamtEntry); ok && e.key == key {
				newNode.nodes[i] = hamtEntry{hash: hash, key: key, value: value}
				return newNode, false
			}
		}
		newNode.nodes = append(newNode.nodes, hamtEntry{hash: hash, key: key, value: value})
		return newNode, true
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	newNode := &hamtNode{bitmap: n.bitmap, nodes: append([]any{}, n.nodes...)}

	if n.bitmap&bit == 0 {
		newNode.bitmap |= bit
		pos := popcount(newNode.bitmap & (bit - 1))
		newNode.nodes = append(newNode.nodes, nil)
		copy(newNode.nodes[pos+1:], newNode.nodes[pos:])
		newNode.nodes[pos] = hamtEntry{hash: hash, key: key, value: value}
		return newNode, true
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := newNode.nodes[pos].(type) {
	case hamtEntry:
		if v.hash == hash && v.key == key {
			newNode.nodes[pos] = hamtEntry{hash: hash, key: key, value: value}
			return newNode, false
		}
		child := &hamtNode{}
		var a1, a2 bool
		child, a1 = child.put(v.hash, v.key, v.value, shift+hamtBits)
		child, a2 = child.put(hash, key, value, shift+hamtBits)
		newNode.nodes[pos] = child
		return newNode, a1 || a2
	case *hamtNode:
		newChild, added := v.put(hash, key, value, shift+hamtBits)
		newNode.nodes[pos] = newChild
		return newNode, added
	}
	return newNode, false
}

func (n *hamtNode) remove(hash uint32, key string, shift uint) (*hamtNode, bool) {
	if shift >= 32 {
		for i, node := range n.nodes {
			if e, ok := node.(hamtEntry); ok && e.key == key {
				newNode := &hamtNode{bitmap: n.bitmap, nodes: make([]any, len(n.nodes)-1)}
				copy(newNode.nodes[:i], n.nodes[:i])
				copy(newNode.nodes[i:], n.nodes[i+1:])
				return newNode, true
			}
		}
		return n, false
	}
	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	if n.bitmap&bit == 0 {
		return n, false
	}
	pos := popcount(n.bitmap & (bit - 1))
	switch v := n.nodes[pos].(type) {
	case hamtEntry:
		if v.hash != hash || v.key != key {
			return n, false
		}
		newNode := &hamtNode{bitmap: n.bitmap &^ bit, nodes: make([]any, len(n.nodes)-1)}
		copy(newNode.nodes[:pos], n.nodes[:pos])
		copy(newNode.nodes[pos:], n.nodes[pos+1:])
		return newNode, true
	case *hamtNode:
		newChild, removed := v.remove(hash, key, shift+hamtBits)
		if !removed {
			return n, false
		}
		newNode := &hamtNode{bitmap: n.bitmap, nodes: append([]any{}, n.nodes...)}
		newNode.nodes[pos] = newChild
		return newNode, true
	}
	return n, false
}

func (n *hamtNode) forEach(f func(key string, value types.TypeInfo)) {
	for _, node := range n.nodes {
		switch v := node.(type) {
		case hamtEntry:
			f(v.key, v.value)
		case *hamtNode:
			v.forEach(f)
		}
	}
}

func popcount(x uint32) int {
	x = x - ((x >> 1) & 0x55555555)
	x = (x & 0x33333333) + ((x >> 2) & 0x33333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f
	x = x + (x >> 8)
	x = x + (x >> 16)
	return int(x & 0x3f)
}

func fnv32(s string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}
