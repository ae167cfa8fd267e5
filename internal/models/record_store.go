package models

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
)

// PeerQuerier is the read side of the population used by ranking.
type PeerQuerier interface {
	QueryByAgeSex(ageMin, ageMax int, sex string) []Record
	QueryByLatitude(latMin, latMax float64) []Record
}

// RecordStore holds the peer population. Records are kept in insertion
// order so query results are stable between calls.
//
// Positions in ids are indexed by age and by sex in roaring bitmaps, so an
// age/sex cohort is an intersection instead of a scan.
type RecordStore struct {
	mu      sync.RWMutex
	ids     []RecordID
	pos     map[RecordID]uint32
	data    map[RecordID]Record
	byAge   map[int]*roaring.Bitmap
	bySex   map[string]*roaring.Bitmap
	version uint64
}

func NewRecordStore() *RecordStore {
	s := &RecordStore{}
	s.reset(0)
	return s
}

func (s *RecordStore) reset(capacity int) {
	s.ids = make([]RecordID, 0, capacity)
	s.pos = make(map[RecordID]uint32, capacity)
	s.data = make(map[RecordID]Record, capacity)
	s.byAge = make(map[int]*roaring.Bitmap)
	s.bySex = make(map[string]*roaring.Bitmap)
}

func (s *RecordStore) Insert(rec Record) RecordID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := RecordID(uuid.NewString())
	s.insertLocked(id, rec)
	return id
}

func (s *RecordStore) insertLocked(id RecordID, rec Record) {
	p, ok := s.pos[id]
	if ok {
		old := s.data[id]
		s.byAge[old.Age].Remove(p)
		s.bySex[old.Sex].Remove(p)
	} else {
		p = uint32(len(s.ids))
		s.ids = append(s.ids, id)
		s.pos[id] = p
	}
	s.data[id] = rec
	bitmapFor(s.byAge, rec.Age).Add(p)
	bitmapFor(s.bySex, rec.Sex).Add(p)
	s.version++
}

func bitmapFor[K comparable](index map[K]*roaring.Bitmap, key K) *roaring.Bitmap {
	bm, ok := index[key]
	if !ok {
		bm = roaring.New()
		index[key] = bm
	}
	return bm
}

func (s *RecordStore) Get(id RecordID) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[id]
	return rec, ok
}

func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Version changes whenever the population is mutated.
func (s *RecordStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// QueryByAgeSex returns records with ageMin < age < ageMax and an exact sex match.
func (s *RecordStore) QueryByAgeSex(ageMin, ageMax int, sex string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Record, 0)
	sexes, ok := s.bySex[sex]
	if !ok {
		return result
	}
	ages := roaring.New()
	for age, bm := range s.byAge {
		if age > ageMin && age < ageMax {
			ages.Or(bm)
		}
	}
	ages.And(sexes)

	it := ages.Iterator()
	for it.HasNext() {
		result = append(result, s.data[s.ids[it.Next()]])
	}
	return result
}

// QueryByLatitude returns records with latMin <= latitude < latMax.
func (s *RecordStore) QueryByLatitude(latMin, latMax float64) []Record {
	return s.filter(func(r Record) bool {
		return r.Latitude >= latMin && r.Latitude < latMax
	})
}

func (s *RecordStore) filter(match func(Record) bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Record, 0)
	for _, id := range s.ids {
		if rec := s.data[id]; match(rec) {
			result = append(result, rec)
		}
	}
	return result
}

func (s *RecordStore) Snapshot() *PopulationSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]SnapshotEntry, 0, len(s.ids))
	for _, id := range s.ids {
		entries = append(entries, SnapshotEntry{ID: id, Record: s.data[id]})
	}
	return &PopulationSnapshot{
		Version: SnapshotVersion,
		Records: entries,
	}
}

// Restore replaces the population with the snapshot contents.
func (s *RecordStore) Restore(snap *PopulationSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(len(snap.Records))
	for _, e := range snap.Records {
		if e.ID == "" {
			e.ID = RecordID(uuid.NewString())
		}
		s.insertLocked(e.ID, e.Record)
	}
}
