package tripcache

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Lookup resolves key to its cached hops, or reports a miss. A file that
// cannot be read (including a missing one) counts only as a miss. On any
// decode error the offending file is deleted and counted as both an error
// and a miss, rather than left behind to fail the same way on every future
// lookup. A hit refreshes the entry's mtime so LRU eviction favors recently
// used trips.
func (c *Cache) Lookup(key string) ([]Hop, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.entryPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}

	hops, decErr := decodeEntry(data, c.resolve)
	if decErr != nil {
		c.errors.Add(1)
		c.misses.Add(1)
		_ = os.Remove(path)
		return nil, false
	}

	c.bytesRead.Add(uint64(len(data)))
	c.hits.Add(1)
	touch(path)
	return hops, true
}

// Store writes key's hops, at-most-once and idempotent: a file that
// already exists is just touched and counted as skipped rather than
// rewritten. The write itself goes to a uniquely-named temp file first and
// is renamed into place, so a reader never observes a partially written
// entry.
func (c *Cache) Store(key string, hops []Hop) {
	if !c.enabled || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.entryPath(key)
	if fileExists(path) {
		c.storeSkipped.Add(1)
		touch(path)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.errors.Add(1)
		return
	}

	data := encodeEntry(c.graph, hops)
	if err := writeFileAtomic(path, data); err != nil {
		c.errors.Add(1)
		return
	}

	c.bytesWritten.Add(uint64(len(data)))
	c.stores.Add(1)
	c.currentBytes += uint64(len(data))
	c.pruneIfNeeded()
}

// Remove deletes key's entry if present.
func (c *Cache) Remove(key string) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.entryPath(key)
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if os.Remove(path) != nil {
		return
	}
	if size := uint64(info.Size()); c.currentBytes >= size {
		c.currentBytes -= size
	}
}

// pruneIfNeeded evicts the oldest entries (by mtime, ties broken by path)
// until the cache is back under maxBytes. Best-effort: a deletion failure
// is skipped, not retried.
func (c *Cache) pruneIfNeeded() {
	if c.maxBytes == 0 || c.currentBytes <= c.maxBytes {
		return
	}

	type fileEntry struct {
		path  string
		size  uint64
		mtime int64
	}
	var entries []fileEntry
	var total uint64
	_ = filepath.Walk(c.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		entries = append(entries, fileEntry{path: path, size: uint64(info.Size()), mtime: info.ModTime().UnixNano()})
		total += uint64(info.Size())
		return nil
	})

	if total <= c.maxBytes {
		c.currentBytes = total
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].mtime == entries[j].mtime {
			return entries[i].path < entries[j].path
		}
		return entries[i].mtime < entries[j].mtime
	})

	for _, e := range entries {
		if total <= c.maxBytes {
			break
		}
		if os.Remove(e.path) == nil {
			total -= e.size
			c.evictions.Add(1)
		}
	}
	c.currentBytes = total
}

func touch(path string) {
	now := time.Now()
	_ = os.Chtimes(path, now, now)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func directorySize(root string) uint64 {
	var total uint64
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		total += uint64(info.Size())
		return nil
	})
	return total
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
