package repos

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/ruruk/palcofon/internal/domain"
)

var inquiryBucket = []byte("inquiries")

// InquiryRepo is the durable store for per-session inquiry lists: one bbolt
// bucket, key = session id, value = the JSON-encoded line item list. Bolt's
// single-writer transaction serializes mutations, so the read-modify-write
// inside Mutate can never lose an update to a sibling caller.
type InquiryRepo struct {
	db *bolt.DB
}

func OpenInquiryDB(path string) (*InquiryRepo, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open inquiry db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(inquiryBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &InquiryRepo{db: db}, nil
}

func (r *InquiryRepo) Close() error { return r.db.Close() }

func decodeItems(raw []byte) ([]domain.InquiryLineItem, error) {
	if len(raw) == 0 {
		return []domain.InquiryLineItem{}, nil
	}
	var items []domain.InquiryLineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns the current line items for a session, oldest first.
func (r *InquiryRepo) List(sessionID string) ([]domain.InquiryLineItem, error) {
	var items []domain.InquiryLineItem
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		items, err = decodeItems(tx.Bucket(inquiryBucket).Get([]byte(sessionID)))
		return err
	})
	return items, err
}

// Mutate re-reads the stored list, applies fn and writes the result back,
// all inside one write transaction. fn returning an empty list deletes the
// key.
func (r *InquiryRepo) Mutate(sessionID string, fn func([]domain.InquiryLineItem) []domain.InquiryLineItem) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(inquiryBucket)
		items, err := decodeItems(b.Get([]byte(sessionID)))
		if err != nil {
			return err
		}
		next := fn(items)
		if len(next) == 0 {
			return b.Delete([]byte(sessionID))
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return err
		}
		return b.Put([]byte(sessionID), raw)
	})
}
