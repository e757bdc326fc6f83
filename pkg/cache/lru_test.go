package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEviction(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](2)
	var evicted []string
	c.OnEvict(func(k string, _ int) { evicted = append(evicted, k) })

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3, 0)
	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 2, c.Len())

	c.Set("a", 10, 0)
	v, _ := c.Get("a")
	assert.Equal(t, 10, v)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	c.Clear()
	assert.Zero(t, c.Len())
	assert.Equal(t, []string{"b", "a", "c"}, evicted)
}

func TestLRUExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	c := NewLRU[string, string](4)
	c.now = func() time.Time { return now }

	c.Set("short", "x", time.Second)
	c.Set("forever", "y", 0)

	_, ok := c.Get("short")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get("short")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "expired entry is dropped when touched")

	_, ok = c.Get("forever")
	assert.True(t, ok)
}

func TestLRUPanicsOnZeroCapacity(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewLRU[string, int](0) })
}

func TestLRUConcurrent(t *testing.T) {
	t.Parallel()

	c := NewLRU[string, int](64)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 200 {
				key := fmt.Sprintf("k%d", (i*200+j)%100)
				c.Set(key, j, time.Minute)
				c.Get(key)
				if j%10 == 0 {
					c.Remove(key)
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 64)
}
