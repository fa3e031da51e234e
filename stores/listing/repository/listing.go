package repository

import (
	"sort"
	"sync"

	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
)

type memoryRepo struct {
	mu     sync.RWMutex
	slots  map[listing.Key]listing.Listing
	nextId uint64
}

// NewMemoryRepo returns a listing store for one marketplace instance
func NewMemoryRepo() listing.Repo {
	return &memoryRepo{
		slots:  make(map[listing.Key]listing.Listing),
		nextId: 1,
	}
}

func (r *memoryRepo) Get(key listing.Key) listing.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.slots[key]; ok {
		return l.Clone()
	}
	return listing.Listing{}
}

func (r *memoryRepo) Put(tx domain.Tx, key listing.Key, l listing.Listing) {
	r.mu.Lock()
	prev, existed := r.slots[key]
	r.slots[key] = l.Clone()
	r.mu.Unlock()

	tx.OnRevert(func() { r.restore(key, prev, existed) })
}

func (r *memoryRepo) Clear(tx domain.Tx, key listing.Key) {
	r.mu.Lock()
	prev, existed := r.slots[key]
	delete(r.slots, key)
	r.mu.Unlock()

	tx.OnRevert(func() { r.restore(key, prev, existed) })
}

func (r *memoryRepo) NextId(tx domain.Tx) uint64 {
	r.mu.Lock()
	id := r.nextId
	r.nextId++
	r.mu.Unlock()

	tx.OnRevert(func() {
		r.mu.Lock()
		r.nextId = id
		r.mu.Unlock()
	})
	return id
}

func (r *memoryRepo) FindAll(opts ...listing.FindAllOptionsFunc) ([]listing.Listing, error) {
	options, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	res := []listing.Listing{}
	for _, l := range r.slots {
		if options.Contract != nil && l.Contract != *options.Contract {
			continue
		}
		if options.Seller != nil && l.Seller != *options.Seller {
			continue
		}
		if options.Item != nil && (l.Item == nil || l.Item.Cmp(options.Item) != 0) {
			continue
		}
		res = append(res, l.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool { return res[i].Id < res[j].Id })

	if options.Offset != nil {
		if *options.Offset >= len(res) {
			return []listing.Listing{}, nil
		}
		res = res[*options.Offset:]
	}
	if options.Limit != nil && *options.Limit < len(res) {
		res = res[:*options.Limit]
	}
	return res, nil
}

func (r *memoryRepo) restore(key listing.Key, prev listing.Listing, existed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existed {
		r.slots[key] = prev
	} else {
		delete(r.slots, key)
	}
}
