package cache

import (
	"slices"
	"testing"
)

type evictLog struct{ keys []int }

func (l *evictLog) record(k int, _ string) { l.keys = append(l.keys, k) }

func TestGetAdd(t *testing.T) {
	c := New[int, string](0, nil)
	c.Add(1, "one")

	if v, ok := c.Get(1); !ok || v != "one" {
		t.Errorf("Get(1) = %q, %v, want one, true", v, ok)
	}
	if _, ok := c.Get(2); ok {
		t.Error("Get(2) found a missing key")
	}

	c.Add(1, "uno")
	if v, _ := c.Get(1); v != "uno" || c.Len() != 1 {
		t.Errorf("after replace Get(1) = %q, Len() = %d", v, c.Len())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	var log evictLog
	c := New(2, log.record)

	c.Add(1, "a")
	c.Add(2, "b")
	c.Get(1) // 2 is now the oldest
	c.Add(3, "c")

	if !slices.Equal(log.keys, []int{2}) {
		t.Errorf("evicted %v, want [2]", log.keys)
	}
	if _, ok := c.Get(2); ok {
		t.Error("evicted key still present")
	}
	if c.Len() != 2 || c.Limit() != 2 {
		t.Errorf("Len() = %d, Limit() = %d", c.Len(), c.Limit())
	}
}

func TestReplaceDoesNotEvict(t *testing.T) {
	var log evictLog
	c := New(1, log.record)
	c.Add(1, "a")
	c.Add(1, "b")
	if len(log.keys) != 0 {
		t.Errorf("replace evicted %v", log.keys)
	}
}

func TestRemoveFunc(t *testing.T) {
	var log evictLog
	c := New(0, log.record)
	for i := range 6 {
		c.Add(i, "")
	}

	n := c.RemoveFunc(func(k int, _ string) bool { return k%2 == 0 })
	if n != 3 || c.Len() != 3 {
		t.Errorf("RemoveFunc() = %d, Len() = %d, want 3, 3", n, c.Len())
	}
	slices.Sort(log.keys)
	if !slices.Equal(log.keys, []int{0, 2, 4}) {
		t.Errorf("evicted %v, want [0 2 4]", log.keys)
	}
	for _, k := range []int{1, 3, 5} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("Get(%d) missing after RemoveFunc", k)
		}
	}
}

func TestPurge(t *testing.T) {
	var log evictLog
	c := New(0, log.record)
	c.Add(1, "")
	c.Add(2, "")
	c.Add(3, "")
	c.Get(1)

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
	if !slices.Equal(log.keys, []int{2, 3, 1}) {
		t.Errorf("purge order %v, want [2 3 1]", log.keys)
	}

	c.Add(4, "")
	if v, ok := c.Get(4); !ok || v != "" {
		t.Error("cache unusable after Purge")
	}
}

func TestListOrder(t *testing.T) {
	var l lruList[int, struct{}]
	a := l.PushFront(1, struct{}{})
	l.PushFront(2, struct{}{})
	c := l.PushFront(3, struct{}{})

	l.MoveToFront(a)
	var got []int
	for n := l.head; n != nil; n = n.next {
		got = append(got, n.key)
	}
	if !slices.Equal(got, []int{1, 3, 2}) {
		t.Errorf("order = %v, want [1 3 2]", got)
	}

	l.Remove(c)
	l.Remove(nil)
	if l.len != 2 || l.Oldest().key != 2 {
		t.Errorf("len = %d, oldest = %d", l.len, l.Oldest().key)
	}
}
