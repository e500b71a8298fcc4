package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"agora/contexts/protocol-governance/settings-service/domain/entities"
	domainerrors "agora/contexts/protocol-governance/settings-service/domain/errors"
)

// Store is the in-memory parameter registry. It also carries a manual ledger
// clock so tests can drive height-stamped writes without infrastructure.
type Store struct {
	mu       sync.RWMutex
	settings map[string]entities.Setting
	height   uint64
}

func NewStore() *Store {
	return &Store{settings: make(map[string]entities.Setting)}
}

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

func (s *Store) GetSetting(_ context.Context, key string) (entities.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	setting, ok := s.settings[strings.TrimSpace(key)]
	if !ok {
		return entities.Setting{}, domainerrors.ErrSettingNotFound
	}
	return setting, nil
}

func (s *Store) ListSettings(_ context.Context) ([]entities.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Setting, 0, len(s.settings))
	for _, setting := range s.settings {
		items = append(items, setting)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Key < items[j].Key
	})
	return items, nil
}

func (s *Store) SaveSetting(_ context.Context, setting entities.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	setting.Key = strings.TrimSpace(setting.Key)
	if setting.Key == "" {
		return domainerrors.ErrInvalidKey
	}
	s.settings[setting.Key] = setting
	return nil
}
