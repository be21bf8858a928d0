package market

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/carmarket/carmarket-go/internal/cache"
	"github.com/carmarket/carmarket-go/internal/identity"
	"github.com/carmarket/carmarket-go/internal/model"
	"github.com/carmarket/carmarket-go/internal/repository"
)

var errUnreachable = errors.New("connection refused")

// fakeStore is an in-memory RemoteStore that counts calls and can be told to fail.
type fakeStore struct {
	mu       sync.Mutex
	listings []model.ListingRecord
	profiles map[string]model.ProfileRecord
	calls    map[string]int
	fail     map[string]error
	seq      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: make(map[string]model.ProfileRecord),
		calls:    make(map[string]int),
		fail:     make(map[string]error),
	}
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) failOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeStore) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeStore) ListListings(_ context.Context, filter model.ListingFilter) ([]model.ListingRecord, error) {
	if err := f.enter("ListListings"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.ListingRecord, 0, len(f.listings))
	for _, l := range f.listings {
		if filter.OwnerID == "" || l.OwnerID == filter.OwnerID {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b model.ListingRecord) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) GetListing(_ context.Context, id string) (model.ListingRecord, error) {
	if err := f.enter("GetListing"); err != nil {
		return model.ListingRecord{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return model.ListingRecord{}, repository.ErrListingNotFound
}

func (f *fakeStore) InsertListing(_ context.Context, record *model.ListingRecord) error {
	if err := f.enter("InsertListing"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	record.ID = "new-" + strconv.Itoa(f.seq)
	record.CreatedAt = time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC)
	f.listings = append(f.listings, *record)
	return nil
}

func (f *fakeStore) UpdateListing(_ context.Context, id, ownerID string, patch model.ListingPatch) error {
	if err := f.enter("UpdateListing"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.listings {
		if l.ID != id || l.OwnerID != ownerID {
			continue
		}
		l := &f.listings[i]
		if patch.Title != nil {
			l.Title = *patch.Title
		}
		if patch.Price != nil {
			l.Price = *patch.Price
		}
		if patch.Year != nil {
			l.Year = *patch.Year
		}
		if patch.Mileage != nil {
			l.Mileage = *patch.Mileage
		}
		if patch.Location != nil {
			l.Location = *patch.Location
		}
		if patch.ImageRef != nil {
			l.ImageRef = *patch.ImageRef
		}
		if patch.Description != nil {
			l.Description = *patch.Description
		}
		if patch.Make != nil {
			l.Make = *patch.Make
		}
		if patch.Model != nil {
			l.Model = *patch.Model
		}
		return nil
	}
	return repository.ErrListingNotFound
}

func (f *fakeStore) DeleteListing(_ context.Context, id, ownerID string) error {
	if err := f.enter("DeleteListing"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.listings {
		if l.ID == id && l.OwnerID == ownerID {
			f.listings = slices.Delete(f.listings, i, i+1)
			return nil
		}
	}
	return repository.ErrListingNotFound
}

func (f *fakeStore) ListProfiles(_ context.Context, ids []string) ([]model.ProfileRecord, error) {
	if err := f.enter("ListProfiles"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.ProfileRecord, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProfile(_ context.Context, id string) (model.ProfileRecord, error) {
	if err := f.enter("GetProfile"); err != nil {
		return model.ProfileRecord{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return model.ProfileRecord{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeStore) InsertProfile(_ context.Context, record *model.ProfileRecord) error {
	if err := f.enter("InsertProfile"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[record.ID]; ok {
		return repository.ErrDuplicateProfile
	}
	f.profiles[record.ID] = *record
	return nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id string, patch model.ProfilePatch) error {
	if err := f.enter("UpdateProfile"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return repository.ErrProfileNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	f.profiles[id] = p
	return nil
}

func newCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(64)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	return c
}

func identityCtx(actor model.Actor) context.Context {
	return identity.WithActor(context.Background(), actor)
}

func actorCtx(id string) context.Context {
	return identity.WithActor(context.Background(), model.Actor{ID: id, Email: id + "@example.com"})
}

func record(id, owner string, price int64, created time.Time) model.ListingRecord {
	return model.ListingRecord{
		ID:        id,
		Title:     "2020 Toyota Camry",
		Price:     price,
		Year:      2020,
		Make:      "Toyota",
		Model:     "Camry",
		Location:  model.LocationDubai,
		OwnerID:   owner,
		CreatedAt: created,
	}
}

func day(d int) time.Time {
	return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC)
}
