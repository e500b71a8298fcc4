package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	"agora/contexts/protocol-governance/governance-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type ballotKey struct {
	motionID uint64
	voter    string
}

// Store is the in-memory governance repository. A single mutex guards every
// collection, so each repository call is one indivisible commit, matching the
// host ledger's total-ordering model.
type Store struct {
	mu sync.RWMutex

	motions     map[uint64]entities.Motion
	actions     map[uint64][]entities.MotionAction
	ballots     map[ballotKey]entities.Ballot
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outboxRecord
	settings    map[string]uint64

	nextMotionID uint64
	deposit      uint64
	height       uint64
}

func NewStore() *Store {
	return &Store{
		motions:      make(map[uint64]entities.Motion),
		actions:      make(map[uint64][]entities.MotionAction),
		ballots:      make(map[ballotKey]entities.Ballot),
		idempotency:  make(map[string]ports.IdempotencyRecord),
		outbox:       make(map[string]outboxRecord),
		settings:     make(map[string]uint64),
		nextMotionID: 1,
	}
}

// SetUintSetting seeds the store's settings projection, mirroring how the
// settings service would answer the engine's reads.
func (s *Store) SetUintSetting(key string, value uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[strings.TrimSpace(key)] = value
}

func (s *Store) UintSetting(_ context.Context, key string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.settings[strings.TrimSpace(key)]
	if !ok {
		return 0, domainerrors.ErrSettingNotFound
	}
	return value, nil
}

// SetHeight moves the manual ledger clock. Heights only advance in
// production; tests may set any value.
func (s *Store) SetHeight(height uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.height = height
}

func (s *Store) Height(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.height, nil
}

func (s *Store) InsertMotion(_ context.Context, motion entities.Motion) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	motion.MotionID = s.nextMotionID
	s.nextMotionID++
	s.motions[motion.MotionID] = motion
	return motion.MotionID, nil
}

func (s *Store) SaveMotion(_ context.Context, motion entities.Motion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.motions[motion.MotionID]; !ok {
		return domainerrors.ErrMotionNotFound
	}
	s.motions[motion.MotionID] = motion
	return nil
}

func (s *Store) GetMotion(_ context.Context, motionID uint64) (entities.Motion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	motion, ok := s.motions[motionID]
	if !ok {
		return entities.Motion{}, domainerrors.ErrMotionNotFound
	}
	return motion, nil
}

func (s *Store) ListMotions(_ context.Context) ([]entities.Motion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Motion, 0, len(s.motions))
	for _, motion := range s.motions {
		items = append(items, motion)
	}
	sortMotionsByID(items)
	return items, nil
}

func (s *Store) ListMotionsByStatus(_ context.Context, status entities.MotionStatus) ([]entities.Motion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Motion, 0)
	for _, motion := range s.motions {
		if motion.Status == status {
			items = append(items, motion)
		}
	}
	sortMotionsByID(items)
	return items, nil
}

func (s *Store) InsertAction(_ context.Context, action entities.MotionAction) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.motions[action.MotionID]; !ok {
		return 0, domainerrors.ErrMotionNotFound
	}
	action.ActionID = uint64(len(s.actions[action.MotionID]))
	s.actions[action.MotionID] = append(s.actions[action.MotionID], action)
	return action.ActionID, nil
}

func (s *Store) ListActions(_ context.Context, motionID uint64) ([]entities.MotionAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.MotionAction, len(s.actions[motionID]))
	copy(items, s.actions[motionID])
	return items, nil
}

func (s *Store) GetBallot(_ context.Context, motionID uint64, voter string) (entities.Ballot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ballot, ok := s.ballots[ballotKey{motionID: motionID, voter: strings.TrimSpace(voter)}]
	if !ok {
		return entities.Ballot{}, false, nil
	}
	return ballot, true, nil
}

func (s *Store) ListBallots(_ context.Context, motionID uint64) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Ballot, 0)
	for key, ballot := range s.ballots {
		if key.motionID == motionID {
			items = append(items, ballot)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Voter < items[j].Voter
	})
	return items, nil
}

// SaveBallotWithTallies reconciles the buckets under the store mutex: the
// prior ballot is read, debited and replaced in the same critical section,
// so concurrent casts cannot start from the same tally snapshot.
func (s *Store) SaveBallotWithTallies(_ context.Context, ballot entities.Ballot) (entities.Motion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	motion, ok := s.motions[ballot.MotionID]
	if !ok {
		return entities.Motion{}, false, domainerrors.ErrMotionNotFound
	}
	key := ballotKey{motionID: ballot.MotionID, voter: strings.TrimSpace(ballot.Voter)}
	prior, recast := s.ballots[key]
	if recast {
		motion.RemoveTallyWeight(prior.Choice, prior.Weight)
	}
	motion.AddTallyWeight(ballot.Choice, ballot.Weight)
	s.motions[ballot.MotionID] = motion
	s.ballots[key] = ballot
	return motion, recast, nil
}

func (s *Store) MotionDeposit(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deposit, nil
}

func (s *Store) SetMotionDeposit(_ context.Context, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deposit = amount
	return nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key = strings.TrimSpace(key)
	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now.UTC()) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(record.Key)
	existing, exists := s.idempotency[key]
	if exists {
		if existing.RequestHash != record.RequestHash || existing.Ref != record.Ref {
			return domainerrors.ErrIdempotencyConflict
		}
		return nil
	}
	s.idempotency[key] = ports.IdempotencyRecord{
		Key:         key,
		RequestHash: strings.TrimSpace(record.RequestHash),
		Ref:         strings.TrimSpace(record.Ref),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func sortMotionsByID(items []entities.Motion) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].MotionID < items[j].MotionID
	})
}
