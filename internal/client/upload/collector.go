package upload

import (
	"slices"
	"sync"
)

// collector accumulates pipeline outcomes from concurrent goroutines.
type collector struct {
	mu        sync.Mutex
	documents []Document
	failures  []Failure
}

func (c *collector) add(doc Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents = append(c.documents, doc)
}

func (c *collector) fail(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, Failure{Name: name, Err: err})
}

func (c *collector) snapshot() ([]Document, []Failure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.documents), slices.Clone(c.failures)
}
