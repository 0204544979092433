package store

import (
	"context"
	"encoding/json"
	"strings"
)

// record is anything stored in a collection and keyed by ID.
type record interface {
	GetID() string
}

// loadCollection returns the full collection stored under name. A missing
// collection is empty. Read and decode failures are logged and also yield an
// empty collection so callers can keep working.
func loadCollection[T record](ctx context.Context, s *CollectionStore, name string) []T {
	recs, err := readCollection[T](ctx, s, name)
	if err != nil {
		s.logger.WarnContext(ctx, "collection unreadable, treating as empty",
			"collection", name, "error", err)
		return []T{}
	}
	return recs
}

// readCollection is the strict form of loadCollection used by the write paths,
// so a corrupt payload is never overwritten by a partial list.
func readCollection[T record](ctx context.Context, s *CollectionStore, name string) ([]T, error) {
	raw, ok, err := s.medium.Get(ctx, name)
	if err != nil {
		return nil, &StorageError{Op: "load", Collection: name, Err: err}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []T{}, nil
	}

	var recs []T
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, &StorageError{Op: "decode", Collection: name, Err: err}
	}
	if recs == nil {
		recs = []T{}
	}
	return recs, nil
}

// writeCollection encodes recs and replaces the stored collection in one Set.
func writeCollection[T record](ctx context.Context, s *CollectionStore, name string, recs []T) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return &StorageError{Op: "encode", Collection: name, Err: err}
	}
	if err := s.medium.Set(ctx, name, string(data)); err != nil {
		return &StorageError{Op: "save", Collection: name, Err: err}
	}
	return nil
}

// upsertRecord replaces any record sharing rec's ID and appends rec at the end.
func upsertRecord[T record](ctx context.Context, s *CollectionStore, name string, rec T) error {
	recs, err := readCollection[T](ctx, s, name)
	if err != nil {
		return err
	}

	out := make([]T, 0, len(recs)+1)
	for _, r := range recs {
		if r.GetID() != rec.GetID() {
			out = append(out, r)
		}
	}
	out = append(out, rec)

	return writeCollection(ctx, s, name, out)
}

// deleteRecord removes the record with the given ID. Deleting an absent ID
// leaves the stored collection untouched.
func deleteRecord[T record](ctx context.Context, s *CollectionStore, name, id string) error {
	recs, err := readCollection[T](ctx, s, name)
	if err != nil {
		return err
	}

	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if r.GetID() != id {
			out = append(out, r)
		}
	}
	if len(out) == len(recs) {
		return nil
	}

	return writeCollection(ctx, s, name, out)
}
