package analytics

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"mintel/pkg/contracts/domain"
)

// Cache memoizes chart computations keyed by (dataset identity, criteria
// fingerprint). Each run is cheap relative to rendering, so the cache exists
// to absorb the dashboard's recompute-on-every-interaction pattern, not to
// protect an expensive backend. Concurrent identical computations are
// deduplicated with singleflight.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]domain.ChartData
	group   singleflight.Group
}

// NewCache creates an empty computation cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]domain.ChartData)}
}

// Get returns the memoized result for (datasetID, criteria), computing and
// storing it on a miss.
func (c *Cache) Get(datasetID string, criteria domain.FilterCriteria, compute func() domain.ChartData) (domain.ChartData, bool) {
	key := datasetID + "\x1f" + Fingerprint(criteria)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached, true
	}

	result, _, _ := c.group.Do(key, func() (interface{}, error) {
		data := compute()
		c.mu.Lock()
		c.entries[key] = data
		c.mu.Unlock()
		return data, nil
	})
	return result.(domain.ChartData), false
}

// InvalidateDataset drops every entry computed against the given dataset.
// Must be called whenever the dataset is replaced.
func (c *Cache) InvalidateDataset(datasetID string) {
	prefix := datasetID + "\x1f"
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of memoized results.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fingerprint returns a deterministic token for a criteria value. Selection
// sets are order-insensitive, so they are sorted before hashing; everything
// else hashes in a fixed field order.
func Fingerprint(c domain.FilterCriteria) string {
	h := fnv.New64a()

	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0x1f})
		}
	}

	write(string(c.DataType), string(c.ViewMode), c.SegmentType)
	write(sortedCopy(c.Geographies)...)
	h.Write([]byte{0x1e})
	write(sortedCopy(c.Segments)...)
	h.Write([]byte{0x1e})
	for _, sel := range c.AdvancedSegments {
		write(sel.Type, sel.Name)
	}
	h.Write([]byte{0x1e})
	if c.AggregationLevel != nil {
		write(fmt.Sprintf("%d", *c.AggregationLevel))
	}
	write(fmt.Sprintf("%d-%d", c.YearRange[0], c.YearRange[1]))

	return fmt.Sprintf("%016x", h.Sum64())
}

func sortedCopy(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	return out
}
