// Package cache provides a bounded least-recently-used map for GPU
// objects that must be released explicitly.
//
//	c := cache.New[key, hal.RenderPipeline](64, func(_ key, p hal.RenderPipeline) {
//		retired = append(retired, p)
//	})
//	c.Add(k, p)
//	p, ok := c.Get(k)
//
// Every value that leaves the cache other than through Add replacing an
// equal key goes through the eviction callback exactly once: when the
// limit is exceeded, on RemoveFunc and on Purge.
//
// # Thread Safety
//
// A Cache is not safe for concurrent use. It is meant to be owned by a
// single device.
package cache
