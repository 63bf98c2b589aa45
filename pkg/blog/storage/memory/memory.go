// Package memory provides an in-memory blog.MediaStore, used in tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// object is a stored media object.
type object struct {
	contentType string
	data        []byte
}

// Store implements blog.MediaStore using an in-memory map.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	calls   int
}

// New creates a new in-memory media store
func New() *Store {
	return &Store{
		objects: make(map[string]object),
	}
}

// PresignPut returns a fake upload URL scoped to key. No object is written;
// tests seed uploads with Put.
func (s *Store) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	return fmt.Sprintf("memory://upload/%s?content-type=%s&expires=%s", key, contentType, expires), nil
}

// Copy copies the object at sourceKey to destKey, preserving its content
// type and data.
func (s *Store) Copy(ctx context.Context, sourceKey, destKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	src, exists := s.objects[sourceKey]
	if !exists {
		return fmt.Errorf("object not found: %s", sourceKey)
	}

	s.objects[destKey] = object{
		contentType: src.contentType,
		data:        append([]byte(nil), src.data...),
	}

	return nil
}

// Delete removes the object at key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	delete(s.objects, key)

	return nil
}

// Put seeds an object directly, standing in for a client's out-of-band
// upload against a presigned URL.
func (s *Store) Put(key, contentType string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = object{contentType: contentType, data: append([]byte(nil), data...)}
}

// Exists reports whether an object is stored at key.
func (s *Store) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.objects[key]
	return exists
}

// Calls returns how many store operations have been performed.
func (s *Store) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.calls
}
