package database

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/pblog"
)

// Memory is a DB held entirely in process. It is safe for concurrent use and loses everything on exit.
type Memory struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	accounts  map[pbid.ID]Account
	sessions  map[pbid.ID]Session
	documents map[DocumentKey]Document
}

func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		logger:    pblog.OrNoop(logger),
		accounts:  make(map[pbid.ID]Account),
		sessions:  make(map[pbid.ID]Session),
		documents: make(map[DocumentKey]Document),
	}
}

func (m *Memory) Migrate(context.Context) error {
	m.logger.Debug("memory database requires no migrations")
	return nil
}

func (m *Memory) Ping(context.Context) bool { return true }
func (m *Memory) Close() error              { return nil }

func (m *Memory) CreateAccount(ctx context.Context, a *Account) error {
	if a == nil {
		return errors.New("account is required")
	}

	a.Email = strings.TrimSpace(a.Email)
	if err := a.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[a.ID]; ok {
		return errors.Wrapf(ErrDuplicate, "account with email '%s' already exists", a.Email)
	}
	for _, existing := range m.accounts {
		if emailKey(existing.Email) == emailKey(a.Email) {
			return errors.Wrapf(ErrDuplicate, "account with email '%s' already exists", a.Email)
		}
	}

	now := memoryNow(ctx)
	a.CreatedAt = now
	a.UpdatedAt = now
	m.accounts[a.ID] = *a

	return nil
}

func (m *Memory) GetAccount(_ context.Context, id pbid.ID) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *Memory) GetAccountByEmail(_ context.Context, email string) (*Account, error) {
	key := emailKey(email)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if emailKey(a.Email) == key {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateSession(ctx context.Context, s *Session) error {
	if s == nil {
		return errors.New("session is required")
	}

	if err := s.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.ID]; ok {
		return errors.Wrapf(ErrDuplicate, "session '%s' already exists", s.ID)
	}
	if _, ok := m.accounts[s.AccountID]; !ok {
		return errors.Wrapf(ErrViolation, "account '%s' does not exist", s.AccountID)
	}

	s.CreatedAt = memoryNow(ctx)
	s.ExpiresAt = s.ExpiresAt.UTC()
	m.sessions[s.ID] = *s

	return nil
}

func (m *Memory) GetSession(ctx context.Context, id pbid.ID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || s.IsExpired(memoryNow(ctx)) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) DeleteSessionsForAccount(_ context.Context, accountId pbid.ID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for id, s := range m.sessions {
		if s.AccountID == accountId {
			delete(m.sessions, id)
			count++
		}
	}
	return count, nil
}

func (m *Memory) CreateDocument(ctx context.Context, d *Document) error {
	if d == nil {
		return errors.New("document is required")
	}

	key := d.Key()
	if err := key.validate(); err != nil {
		return err
	}

	data, err := normalizeData(d.Data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[key]; ok {
		return errors.Wrapf(ErrDuplicate, "document '%s' already exists", key)
	}

	now := memoryNow(ctx)
	d.Data = data
	d.CreatedAt = now
	d.UpdatedAt = now
	m.documents[key] = copyDocument(*d)

	return nil
}

func (m *Memory) GetDocument(_ context.Context, key DocumentKey) (*Document, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.documents[key]
	if !ok {
		return nil, ErrNotFound
	}

	c := copyDocument(d)
	return &c, nil
}

func (m *Memory) UpdateDocument(ctx context.Context, key DocumentKey, fields map[string]any) (*Document, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.documents[key]
	if !ok {
		return nil, ErrNotFound
	}

	merged := copyDocument(d).Data
	for k, v := range fields {
		merged[k] = v
	}

	data, err := normalizeData(merged)
	if err != nil {
		return nil, err
	}

	d.Data = data
	d.UpdatedAt = memoryNow(ctx)
	m.documents[key] = d

	c := copyDocument(d)
	return &c, nil
}

func (m *Memory) DeleteDocument(_ context.Context, key DocumentKey) error {
	if err := key.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[key]; !ok {
		return ErrNotFound
	}
	delete(m.documents, key)
	return nil
}

func (m *Memory) ListDocuments(_ context.Context, databaseId, collectionId string, f *filter.Filter) ([]Document, error) {
	if databaseId == "" || collectionId == "" {
		return nil, errors.New("database id and collection id are required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]Document, 0)
	for key, d := range m.documents {
		if key.DatabaseID != databaseId || key.CollectionID != collectionId {
			continue
		}
		if f.Match(d.Data) {
			results = append(results, copyDocument(d))
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})

	return results, nil
}

func memoryNow(ctx context.Context) time.Time {
	return pbctx.GetClock(ctx).Now().UTC()
}

// normalizeData gives in-memory documents the same value types a sql round trip produces.
func normalizeData(data map[string]any) (map[string]any, error) {
	encoded, err := encodeData(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode document data")
	}
	return decodeData(encoded)
}

func copyDocument(d Document) Document {
	d.Data = deepcopy.Copy(d.Data).(map[string]any)
	return d
}

var _ DB = (*Memory)(nil)
