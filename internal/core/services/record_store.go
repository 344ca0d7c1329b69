package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

// RecordStore is the only writer of the health document. Everything else gets copies.
type RecordStore struct {
	storage  domain.DocumentStorage
	defaults domain.DefaultSource
	key      string
	log      logrus.FieldLogger
	now      func() time.Time

	mu sync.Mutex
}

func NewRecordStore(storage domain.DocumentStorage, defaults domain.DefaultSource, log logrus.FieldLogger) *RecordStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RecordStore{
		storage:  storage,
		defaults: defaults,
		key:      domain.StorageKey,
		log:      log.WithField("component", "record_store"),
		now:      time.Now,
	}
}

// WithKey stores the document under a different key, one per profile.
func (s *RecordStore) WithKey(key string) *RecordStore {
	if key != "" {
		s.key = key
	}
	return s
}

func (s *RecordStore) WithClock(now func() time.Time) *RecordStore {
	s.now = now
	return s
}

func (s *RecordStore) Key() string {
	return s.key
}

// Today is the current calendar day in local time.
func (s *RecordStore) Today() domain.Date {
	return domain.DateOf(s.now())
}

type ImportResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Entries int    `json:"entries,omitempty"`
}

// Initialize seeds the store on first run. An existing document, even a corrupt one, is left alone.
func (s *RecordStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.storage.Load(ctx, s.key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		s.log.WithError(err).Error("initialize: storage unavailable")
		return fmt.Errorf("record store: initialize: %w", err)
	}

	doc, err := s.loadDefaults(ctx)
	if err != nil {
		s.log.WithError(err).Warn("default dataset unavailable, starting empty")
		doc = domain.NewEmptyDocument()
	}

	if err := s.write(ctx, doc); err != nil {
		return fmt.Errorf("record store: initialize: %w", err)
	}

	s.log.WithField("entries", len(doc.Entries)).Info("health document initialized")
	return nil
}

func (s *RecordStore) loadDefaults(ctx context.Context) (*domain.HealthDocument, error) {
	if s.defaults == nil {
		return nil, errors.New("no default source configured")
	}

	data, err := s.defaults.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetAll returns a snapshot of the stored document.
func (s *RecordStore) GetAll(ctx context.Context) (*domain.HealthDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(ctx)
}

// SaveAll validates and replaces the whole document.
func (s *RecordStore) SaveAll(ctx context.Context, doc *domain.HealthDocument) error {
	if doc == nil {
		return fmt.Errorf("record store: save: %w", domain.ErrInvalidImport)
	}

	doc = doc.Clone()
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(ctx, doc)
}

func (s *RecordStore) GetEntryByDate(ctx context.Context, date domain.Date) (*domain.Entry, error) {
	doc, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, e := range doc.Entries {
		if e.Date.Equal(date) {
			return &e, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

// SaveEntry upserts by date: fields present in entry win, the rest of an existing entry is kept.
func (s *RecordStore) SaveEntry(ctx context.Context, entry domain.Entry) (*domain.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		doc = domain.NewEmptyDocument()
	} else if err != nil {
		return nil, err
	}

	saved := entry.Clone()
	found := false
	for i, e := range doc.Entries {
		if e.Date.Equal(entry.Date) {
			saved = e.Merge(entry)
			doc.Entries[i] = saved
			found = true
			break
		}
	}
	if !found {
		doc.Entries = append(doc.Entries, saved)
	}
	domain.SortEntries(doc.Entries)

	if err := s.write(ctx, doc); err != nil {
		return nil, err
	}

	return &saved, nil
}

// DeleteEntry removes the entry for date. A missing entry is not an error.
func (s *RecordStore) DeleteEntry(ctx context.Context, date domain.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	kept := doc.Entries[:0]
	for _, e := range doc.Entries {
		if !e.Date.Equal(date) {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(doc.Entries) {
		return nil
	}
	doc.Entries = kept
	domain.SortEntries(doc.Entries)

	return s.write(ctx, doc)
}

// GetEntriesInRange returns entries with start <= date <= end, most recent first.
func (s *RecordStore) GetEntriesInRange(ctx context.Context, start, end domain.Date) ([]domain.Entry, error) {
	doc, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := []domain.Entry{}
	for _, e := range doc.Entries {
		if !e.Date.Before(start) && !e.Date.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

// GetLastNDays returns at most n entries dated within [today-n, today].
func (s *RecordStore) GetLastNDays(ctx context.Context, n int) ([]domain.Entry, error) {
	if n <= 0 {
		return []domain.Entry{}, nil
	}

	today := s.Today()
	entries, err := s.GetEntriesInRange(ctx, today.AddDays(-n), today)
	if err != nil {
		return nil, err
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// GetEntries is the snapshot handed to collaborators; it degrades to an empty list.
func (s *RecordStore) GetEntries(ctx context.Context) []domain.Entry {
	doc, err := s.GetAll(ctx)
	if err != nil {
		s.logReadFailure(err, "entries")
		return []domain.Entry{}
	}
	return doc.Entries
}

func (s *RecordStore) GetGoals(ctx context.Context) domain.Goals {
	doc, err := s.GetAll(ctx)
	if err != nil {
		s.logReadFailure(err, "goals")
		return domain.Goals{}
	}
	return doc.Goals
}

func (s *RecordStore) GetSettings(ctx context.Context) domain.Settings {
	doc, err := s.GetAll(ctx)
	if err != nil {
		s.logReadFailure(err, "settings")
		return domain.DefaultSettings()
	}
	return doc.Settings
}

func (s *RecordStore) GetUser(ctx context.Context) map[string]any {
	doc, err := s.GetAll(ctx)
	if err != nil {
		s.logReadFailure(err, "user")
		return map[string]any{}
	}
	return doc.User
}

func (s *RecordStore) UpdateGoals(ctx context.Context, goals domain.Goals) (domain.Goals, error) {
	if err := goals.Validate(); err != nil {
		return domain.Goals{}, err
	}

	err := s.mutate(ctx, func(doc *domain.HealthDocument) {
		doc.Goals = goals.Clone()
	})
	if err != nil {
		return domain.Goals{}, err
	}
	return goals, nil
}

func (s *RecordStore) UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}

	err := s.mutate(ctx, func(doc *domain.HealthDocument) {
		doc.Settings = settings.Clone()
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// UpdateUser lays fields over the stored profile. A nil value removes the field.
func (s *RecordStore) UpdateUser(ctx context.Context, fields map[string]any) (map[string]any, error) {
	var updated map[string]any
	err := s.mutate(ctx, func(doc *domain.HealthDocument) {
		for k, v := range fields {
			if v == nil {
				delete(doc.User, k)
				continue
			}
			doc.User[k] = v
		}
		updated = doc.User
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RecordStore) ExportJSON(ctx context.Context) ([]byte, error) {
	doc, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ImportJSON replaces the document with data. Invalid payloads are rejected before anything is written.
func (s *RecordStore) ImportJSON(ctx context.Context, data []byte) ImportResult {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ImportResult{Message: "invalid JSON: " + err.Error()}
	}

	rawEntries, ok := fields["entries"]
	if !ok {
		return ImportResult{Message: "invalid data format: missing entries"}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rawEntries, &entries); err != nil || entries == nil {
		return ImportResult{Message: "invalid data format: entries must be an array"}
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return ImportResult{Message: err.Error()}
	}
	if err := doc.Validate(); err != nil {
		return ImportResult{Message: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(ctx, doc); err != nil {
		return ImportResult{Message: "failed to save imported data: " + err.Error()}
	}

	s.log.WithField("entries", len(doc.Entries)).Info("health document imported")
	return ImportResult{
		Success: true,
		Message: fmt.Sprintf("imported %d entries", len(doc.Entries)),
		Entries: len(doc.Entries),
	}
}

// Clear drops the stored document entirely.
func (s *RecordStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.log.WithError(err).Error("clear failed")
		return fmt.Errorf("record store: clear: %w", err)
	}
	return nil
}

func (s *RecordStore) mutate(ctx context.Context, fn func(doc *domain.HealthDocument)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		doc = domain.NewEmptyDocument()
	} else if err != nil {
		return err
	}

	fn(doc)
	return s.write(ctx, doc)
}

// read must be called with mu held.
func (s *RecordStore) read(ctx context.Context) (*domain.HealthDocument, error) {
	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			s.log.WithError(err).Error("failed to read health document")
		}
		return nil, err
	}

	doc, err := decodeDocument(data)
	if err != nil {
		s.log.WithError(err).Error("stored health document is corrupt, treating as no data")
		return nil, err
	}
	return doc, nil
}

// write must be called with mu held.
func (s *RecordStore) write(ctx context.Context, doc *domain.HealthDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("record store: encode: %w", err)
	}

	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.log.WithError(err).WithField("bytes", len(data)).Error("failed to save health document")
		return err
	}
	return nil
}

func (s *RecordStore) logReadFailure(err error, what string) {
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return
	}
	s.log.WithError(err).Warnf("returning empty %s", what)
}

func decodeDocument(data []byte) (*domain.HealthDocument, error) {
	doc := domain.NewEmptyDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentCorrupt, err)
	}
	doc.Normalize()
	return doc, nil
}

// ProfileExists is true when key is this store's key and a document is stored under it.
func (s *RecordStore) ProfileExists(ctx context.Context, key string) (bool, error) {
	if key != s.key {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.storage.Load(ctx, key)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
