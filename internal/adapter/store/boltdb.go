package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"vaultsearch/internal/domain"
)

var (
	bucketManifest = []byte("manifest")
	bucketDocs     = []byte("docs")
	bucketEntries  = []byte("entries")
	bucketBlobs    = []byte("blobs")
	keyManifest    = []byte("current")
)

// BoltStore persists index builds in a single BoltDB file. Entry keys are
// big-endian sequence numbers, so a bucket scan replays build insertion
// order exactly.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketManifest, bucketDocs, bucketEntries, bucketBlobs}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type docMeta struct {
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	ModTime int64    `json:"mod_time"`
	Size    int      `json:"size"`
	Tags    []string `json:"tags,omitempty"`
	Kind    string   `json:"kind"`
}

type entryMeta struct {
	ChunkID    string         `json:"chunk_id"`
	DocID      string         `json:"doc_id"`
	Index      int            `json:"index"`
	Total      int            `json:"total"`
	Start      int            `json:"start"`
	End        int            `json:"end"`
	Vector     []float32      `json:"vector"`
	TermFreqs  map[string]int `json:"term_freqs,omitempty"`
	TokenCount int            `json:"token_count"`
}

// WriteBuild replaces the stored artifact in one transaction. Readers with
// an open snapshot are unaffected; the next load sees the new build.
func (s *BoltStore) WriteBuild(manifest domain.Manifest, docs []domain.Document, entries []domain.IndexEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketManifest, bucketDocs, bucketEntries, bucketBlobs} {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("failed to clear bucket %s: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to recreate bucket %s: %w", name, err)
			}
		}

		data, err := json.Marshal(manifest)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketManifest).Put(keyManifest, data); err != nil {
			return err
		}

		docsBucket := tx.Bucket(bucketDocs)
		for _, doc := range docs {
			meta := docMeta{
				Path:    doc.Path,
				Title:   doc.Title,
				ModTime: doc.ModTime.Unix(),
				Size:    doc.Size,
				Tags:    doc.Tags,
				Kind:    doc.Kind,
			}
			data, err := json.Marshal(meta)
			if err != nil {
				return err
			}
			if err := docsBucket.Put([]byte(doc.ID), data); err != nil {
				return err
			}
		}

		entriesBucket := tx.Bucket(bucketEntries)
		blobsBucket := tx.Bucket(bucketBlobs)
		for i, entry := range entries {
			meta := entryMeta{
				ChunkID:    entry.Chunk.ID,
				DocID:      entry.Chunk.DocID,
				Index:      entry.Chunk.Index,
				Total:      entry.Chunk.Total,
				Start:      entry.Chunk.Start,
				End:        entry.Chunk.End,
				Vector:     entry.Vector,
				TermFreqs:  entry.TermFreqs,
				TokenCount: entry.TokenCount,
			}
			data, err := json.Marshal(meta)
			if err != nil {
				return err
			}
			key := seqKey(i)
			if err := entriesBucket.Put(key, data); err != nil {
				return err
			}
			if err := blobsBucket.Put(key, []byte(entry.Chunk.Text)); err != nil {
				return err
			}
		}

		return nil
	})
}

// Manifest returns the stored manifest. ok is false for a fresh database.
func (s *BoltStore) Manifest() (domain.Manifest, bool, error) {
	var manifest domain.Manifest
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketManifest).Get(keyManifest)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &manifest); err != nil {
			return fmt.Errorf("corrupt manifest: %w", err)
		}
		found = true
		return nil
	})
	return manifest, found, err
}

// LoadBuild reads the whole artifact back. Entries come out in build
// insertion order.
func (s *BoltStore) LoadBuild() (domain.Manifest, []domain.Document, []domain.IndexEntry, error) {
	var (
		manifest domain.Manifest
		docs     []domain.Document
		entries  []domain.IndexEntry
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketManifest).Get(keyManifest)
		if data == nil {
			return fmt.Errorf("no build present")
		}
		if err := json.Unmarshal(data, &manifest); err != nil {
			return fmt.Errorf("corrupt manifest: %w", err)
		}

		docsBucket := tx.Bucket(bucketDocs)
		err := docsBucket.ForEach(func(k, v []byte) error {
			var meta docMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return fmt.Errorf("corrupt doc %s: %w", k, err)
			}
			docs = append(docs, domain.Document{
				ID:      string(k),
				Path:    meta.Path,
				Title:   meta.Title,
				ModTime: time.Unix(meta.ModTime, 0),
				Size:    meta.Size,
				Tags:    meta.Tags,
				Kind:    meta.Kind,
			})
			return nil
		})
		if err != nil {
			return err
		}

		blobsBucket := tx.Bucket(bucketBlobs)
		return tx.Bucket(bucketEntries).ForEach(func(k, v []byte) error {
			var meta entryMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return fmt.Errorf("corrupt entry %x: %w", k, err)
			}
			entries = append(entries, domain.IndexEntry{
				Chunk: domain.Chunk{
					ID:    meta.ChunkID,
					DocID: meta.DocID,
					Index: meta.Index,
					Total: meta.Total,
					Start: meta.Start,
					End:   meta.End,
					Text:  string(blobsBucket.Get(k)),
				},
				Vector:     meta.Vector,
				TermFreqs:  meta.TermFreqs,
				TokenCount: meta.TokenCount,
				Seq:        int(binary.BigEndian.Uint64(k)),
			})
			return nil
		})
	})
	if err != nil {
		return domain.Manifest{}, nil, nil, err
	}
	return manifest, docs, entries, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func seqKey(seq int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(seq))
	return key
}
