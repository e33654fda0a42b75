package store

import "bytes"

type source int32

const (
	none source = iota
	us
	parent
	both
)

// mergeIterator combines a snapshot of cached items with the iterator of
// the parent store. Cached items take precedence and deleted items hide the
// parent value.
type mergeIterator struct {
	items     []keyer
	idx       int
	parent    Iterator
	ascending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, ascending bool) *mergeIterator {
	it := &mergeIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	it.skipDeleted()
	return it
}

func (i *mergeIterator) Valid() bool {
	return i.ourValid() || i.parentValid()
}

func (i *mergeIterator) Next() {
	switch i.first() {
	case us:
		i.idx++
	case both:
		i.idx++
		i.parent.Next()
	case parent:
		i.parent.Next()
	default:
		panic("iterator advanced past the end")
	}
	i.skipDeleted()
}

func (i *mergeIterator) Key() []byte {
	switch i.first() {
	case us, both:
		return i.items[i.idx].Key()
	case parent:
		return i.parent.Key()
	default:
		panic("iterator advanced past the end")
	}
}

func (i *mergeIterator) Value() []byte {
	switch i.first() {
	case us, both:
		return i.items[i.idx].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("iterator advanced past the end")
	}
}

func (i *mergeIterator) Close() {
	i.items = nil
	if i.parent != nil {
		i.parent.Close()
	}
}

// skipDeleted moves over all deleted entries of the cache, together with
// the parent entries they hide.
func (i *mergeIterator) skipDeleted() {
	for {
		src := i.first()
		if src != us && src != both {
			return
		}
		if _, ok := i.items[i.idx].(deletedItem); !ok {
			return
		}
		i.idx++
		if src == both {
			i.parent.Next()
		}
	}
}

// first returns the source of the next key in iteration order.
func (i *mergeIterator) first() source {
	switch ours, theirs := i.ourValid(), i.parentValid(); {
	case !ours && !theirs:
		return none
	case !theirs:
		return us
	case !ours:
		return parent
	}

	cmp := bytes.Compare(i.items[i.idx].Key(), i.parent.Key())
	if !i.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return us
	case cmp > 0:
		return parent
	default:
		return both
	}
}

func (i *mergeIterator) ourValid() bool {
	return i.idx < len(i.items)
}

func (i *mergeIterator) parentValid() bool {
	return i.parent != nil && i.parent.Valid()
}
