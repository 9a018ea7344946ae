package Models

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"firebase.google.com/go/v4/db"
	"github.com/pkg/errors"
)

// Store is the tree-structured document store the application runs on.
// Paths are slash-separated ("invoices/<key>"). A missing node is not an
// error: Read reports absence through its bool return and QueryByEqualField
// returns an empty map.
type Store interface {
	// Read unmarshals the value at path into v. Returns false when the
	// node does not exist, in which case v is left untouched.
	Read(ctx context.Context, path string, v interface{}) (bool, error)
	// Write replaces the value at path.
	Write(ctx context.Context, path string, v interface{}) error
	// Update applies a partial update to the children named in partial.
	Update(ctx context.Context, path string, partial map[string]interface{}) error
	// Delete removes the node at path.
	Delete(ctx context.Context, path string) error
	// PushNewChild appends v under path with a generated key and returns it.
	PushNewChild(ctx context.Context, path string, v interface{}) (string, error)
	// QueryByEqualField returns the children of path whose field equals value,
	// keyed by child key.
	QueryByEqualField(ctx context.Context, path, field string, value interface{}) (map[string]json.RawMessage, error)
	// Subscribe invokes fn with the raw value at path whenever it changes.
	// The returned function cancels the subscription.
	Subscribe(path string, fn func(json.RawMessage)) func()
}

// RealtimeStore backs Store with the Firebase Realtime Database.
type RealtimeStore struct {
	client *db.Client

	// The Admin SDK has no streaming listener, so Subscribe polls.
	pollInterval time.Duration
}

func NewRealtimeStore(client *db.Client) *RealtimeStore {
	return &RealtimeStore{client: client, pollInterval: 5 * time.Second}
}

func (s *RealtimeStore) Read(ctx context.Context, path string, v interface{}) (bool, error) {
	var raw json.RawMessage
	if err := s.client.NewRef(path).Get(ctx, &raw); err != nil {
		return false, errors.Wrapf(err, "read %s", path)
	}
	if isAbsent(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.Wrapf(err, "decode %s", path)
	}
	return true, nil
}

func (s *RealtimeStore) Write(ctx context.Context, path string, v interface{}) error {
	if err := s.client.NewRef(path).Set(ctx, v); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func (s *RealtimeStore) Update(ctx context.Context, path string, partial map[string]interface{}) error {
	if err := s.client.NewRef(path).Update(ctx, partial); err != nil {
		return errors.Wrapf(err, "update %s", path)
	}
	return nil
}

func (s *RealtimeStore) Delete(ctx context.Context, path string) error {
	if err := s.client.NewRef(path).Delete(ctx); err != nil {
		return errors.Wrapf(err, "delete %s", path)
	}
	return nil
}

func (s *RealtimeStore) PushNewChild(ctx context.Context, path string, v interface{}) (string, error) {
	ref, err := s.client.NewRef(path).Push(ctx, v)
	if err != nil {
		return "", errors.Wrapf(err, "push %s", path)
	}
	return ref.Key, nil
}

func (s *RealtimeStore) QueryByEqualField(ctx context.Context, path, field string, value interface{}) (map[string]json.RawMessage, error) {
	nodes, err := s.client.NewRef(path).OrderByChild(field).EqualTo(value).GetOrdered(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s by %s", path, field)
	}
	results := make(map[string]json.RawMessage, len(nodes))
	for _, node := range nodes {
		var raw json.RawMessage
		if err := node.Unmarshal(&raw); err != nil {
			return nil, errors.Wrapf(err, "decode %s/%s", path, node.Key())
		}
		results[node.Key()] = raw
	}
	return results, nil
}

// Subscribe polls path and calls fn when the value changes. The callback
// runs on the polling goroutine; the returned func stops it.
func (s *RealtimeStore) Subscribe(path string, fn func(json.RawMessage)) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		var last json.RawMessage
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var raw json.RawMessage
				pollCtx, cancel := context.WithTimeout(context.Background(), s.pollInterval)
				err := s.client.NewRef(path).Get(pollCtx, &raw)
				cancel()
				if err != nil {
					continue
				}
				if !bytes.Equal(raw, last) {
					last = raw
					fn(raw)
				}
			}
		}
	}()
	return func() { close(stop) }
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
