package Models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemStore is an in-memory Store used by tests. It mirrors the tree
// semantics of the realtime database: values live at slash-separated paths
// and reading a branch returns all of its children.
type MemStore struct {
	mu      sync.Mutex
	root    map[string]interface{}
	pushSeq int
	subs    []*memSub

	// WriteErr, when set, is returned by every mutating operation.
	WriteErr error
	// ReadErr, when set, is returned by Read and QueryByEqualField.
	ReadErr error
}

type memSub struct {
	path string
	fn   func(json.RawMessage)
	off  bool
}

func NewMemStore() *MemStore {
	return &MemStore{root: make(map[string]interface{})}
}

func (s *MemStore) Read(_ context.Context, path string, v interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return false, s.ReadErr
	}
	node, ok := s.resolve(path)
	if !ok {
		return false, nil
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, v)
}

func (s *MemStore) Write(_ context.Context, path string, v interface{}) error {
	s.mu.Lock()
	if s.WriteErr != nil {
		s.mu.Unlock()
		return s.WriteErr
	}
	if err := s.set(path, v); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify(path)
	return nil
}

func (s *MemStore) Update(_ context.Context, path string, partial map[string]interface{}) error {
	s.mu.Lock()
	if s.WriteErr != nil {
		s.mu.Unlock()
		return s.WriteErr
	}
	for k, v := range partial {
		if err := s.set(path+"/"+k, v); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.mu.Unlock()
	s.notify(path)
	return nil
}

func (s *MemStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	if s.WriteErr != nil {
		s.mu.Unlock()
		return s.WriteErr
	}
	segments := strings.Split(path, "/")
	parent, ok := s.resolveMap(segments[:len(segments)-1])
	if ok {
		delete(parent, segments[len(segments)-1])
	}
	s.mu.Unlock()
	s.notify(path)
	return nil
}

func (s *MemStore) PushNewChild(_ context.Context, path string, v interface{}) (string, error) {
	s.mu.Lock()
	if s.WriteErr != nil {
		s.mu.Unlock()
		return "", s.WriteErr
	}
	s.pushSeq++
	key := fmt.Sprintf("-mem%06d", s.pushSeq)
	if err := s.set(path+"/"+key, v); err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.mu.Unlock()
	s.notify(path)
	return key, nil
}

func (s *MemStore) QueryByEqualField(_ context.Context, path, field string, value interface{}) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	results := make(map[string]json.RawMessage)
	branch, ok := s.resolveMap(strings.Split(path, "/"))
	if !ok {
		return results, nil
	}
	want, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	for key, child := range branch {
		childMap, ok := child.(map[string]interface{})
		if !ok {
			continue
		}
		got, err := json.Marshal(childMap[field])
		if err != nil || string(got) != string(want) {
			continue
		}
		raw, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		results[key] = raw
	}
	return results, nil
}

func (s *MemStore) Subscribe(path string, fn func(json.RawMessage)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &memSub{path: path, fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		sub.off = true
	}
}

// notify fires subscriptions whose path is a prefix of (or equal to) the
// mutated path. Callbacks run synchronously, which keeps tests deterministic.
func (s *MemStore) notify(mutated string) {
	s.mu.Lock()
	var pending []*memSub
	for _, sub := range s.subs {
		if !sub.off && (strings.HasPrefix(mutated, sub.path) || strings.HasPrefix(sub.path, mutated)) {
			pending = append(pending, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range pending {
		s.mu.Lock()
		node, ok := s.resolve(sub.path)
		s.mu.Unlock()
		if !ok {
			sub.fn(json.RawMessage("null"))
			continue
		}
		raw, err := json.Marshal(node)
		if err != nil {
			continue
		}
		sub.fn(raw)
	}
}

func (s *MemStore) resolve(path string) (interface{}, bool) {
	segments := strings.Split(path, "/")
	parent, ok := s.resolveMap(segments[:len(segments)-1])
	if !ok {
		return nil, false
	}
	node, ok := parent[segments[len(segments)-1]]
	return node, ok
}

func (s *MemStore) resolveMap(segments []string) (map[string]interface{}, bool) {
	current := s.root
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		next, ok := current[segment].(map[string]interface{})
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// set stores v at path as decoded JSON, creating intermediate branches.
func (s *MemStore) set(path string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}

	segments := strings.Split(path, "/")
	current := s.root
	for _, segment := range segments[:len(segments)-1] {
		if segment == "" {
			continue
		}
		next, ok := current[segment].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = decoded
	return nil
}
