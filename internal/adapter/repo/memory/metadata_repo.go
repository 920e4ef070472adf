package memory

import (
	"context"
	"sort"
	"strconv"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"

	"github.com/google/uuid"
)

type MetadataRepo struct {
	store *Store
}

func NewMetadataRepo(store *Store) MetadataRepo {
	return MetadataRepo{store: store}
}

func (r MetadataRepo) Upsert(ctx context.Context, m pet.Metadata) (pet.Metadata, error) {
	var out pet.Metadata
	err := r.store.do(ctx, func() error {
		key := metaKey(m.UserID, m.PetID)
		now := r.store.now()
		if cur, ok := r.store.metadata[key]; ok {
			m.ID = cur.ID
			m.CreatedAt = cur.CreatedAt
		} else {
			m.ID = uuid.NewString()
			m.CreatedAt = now
		}
		m.UpdatedAt = now
		r.store.metadata[key] = m
		out = m
		return nil
	})
	return out, err
}

func (r MetadataRepo) Get(ctx context.Context, userID string, petID uint64) (pet.Metadata, error) {
	var out pet.Metadata
	err := r.store.do(ctx, func() error {
		m, ok := r.store.metadata[metaKey(userID, petID)]
		if !ok {
			return ports.ErrNotFound
		}
		out = m
		return nil
	})
	return out, err
}

func (r MetadataRepo) ListByUser(ctx context.Context, userID string) ([]pet.Metadata, error) {
	out := []pet.Metadata{}
	err := r.store.do(ctx, func() error {
		for _, m := range r.store.metadata {
			if m.UserID == userID {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].PetID > out[j].PetID
	})
	return out, err
}

func (r MetadataRepo) Update(ctx context.Context, userID string, petID uint64, patch pet.MetadataPatch) (pet.Metadata, error) {
	var out pet.Metadata
	err := r.store.do(ctx, func() error {
		key := metaKey(userID, petID)
		cur, ok := r.store.metadata[key]
		if !ok {
			return ports.ErrNotFound
		}
		cur = patch.Apply(cur)
		cur.UpdatedAt = r.store.now()
		r.store.metadata[key] = cur
		out = cur
		return nil
	})
	return out, err
}

func (r MetadataRepo) Delete(ctx context.Context, userID string, petID uint64) error {
	return r.store.do(ctx, func() error {
		key := metaKey(userID, petID)
		if _, ok := r.store.metadata[key]; !ok {
			return ports.ErrNotFound
		}
		delete(r.store.metadata, key)
		return nil
	})
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
