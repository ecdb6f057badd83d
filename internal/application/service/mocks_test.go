package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ozzus/club-sanctions/internal/domain/models"
)

type clubSourceMock struct {
	mu sync.Mutex

	clubs      []models.Club
	aliases    []models.ClubAlias
	fetchErr   error
	aliasErr   error
	createErrs map[int]error

	created      []models.Club
	aliasNames   []string
	createCalls  int
	aliasCalls   int
	fetchCalls   int
	aliasesCalls int
}

func (m *clubSourceMock) FetchClubs(_ context.Context) ([]models.Club, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	return append([]models.Club(nil), m.clubs...), m.fetchErr
}

func (m *clubSourceMock) FetchClubAliases(_ context.Context) ([]models.ClubAlias, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aliasesCalls++
	return m.aliases, m.aliasErr
}

func (m *clubSourceMock) CreateClub(_ context.Context, club models.Club) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.createCalls
	m.createCalls++
	if err := m.createErrs[idx]; err != nil {
		return err
	}
	m.created = append(m.created, club)
	return nil
}

func (m *clubSourceMock) CreateClubAlias(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.aliasCalls
	m.aliasCalls++
	if err := m.createErrs[idx]; err != nil {
		return err
	}
	m.aliasNames = append(m.aliasNames, name)
	return nil
}

type assignment struct {
	pageID     string
	sanctionID string
}

type sanctionSourceMock struct {
	mu sync.Mutex

	sanctions map[models.SanctionKind][]models.Sanction
	fetchErr  error
	assignErr map[int]error

	assigned    []assignment
	fetchCalls  int
	assignCalls int
}

func (m *sanctionSourceMock) FetchSanctions(_ context.Context, kind models.SanctionKind) ([]models.Sanction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	return m.sanctions[kind], m.fetchErr
}

func (m *sanctionSourceMock) AssignSanctionID(_ context.Context, pageID, sanctionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.assignCalls
	m.assignCalls++
	if err := m.assignErr[idx]; err != nil {
		return err
	}
	m.assigned = append(m.assigned, assignment{pageID: pageID, sanctionID: sanctionID})
	return nil
}

func (m *sanctionSourceMock) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignCalls
}

type cacheMock struct {
	sanctions []models.Sanction
	getErr    error
	setErr    error
	getCalls  int
	setCalls  int
	lastTTL   time.Duration
	lastSet   []models.Sanction
}

func (m *cacheMock) GetSanctions(_ context.Context, _ models.SanctionKind) ([]models.Sanction, error) {
	m.getCalls++
	return m.sanctions, m.getErr
}

func (m *cacheMock) SetSanctions(_ context.Context, _ models.SanctionKind, sanctions []models.Sanction, ttl time.Duration) error {
	m.setCalls++
	m.lastTTL = ttl
	m.lastSet = sanctions
	return m.setErr
}

type mirrorMock struct {
	result   models.MirrorResult
	err      error
	calls    int
	lastKind models.SanctionKind
	lastRows []models.Sanction
}

func (m *mirrorMock) UpsertSanctions(_ context.Context, kind models.SanctionKind, sanctions []models.Sanction) (models.MirrorResult, error) {
	m.calls++
	m.lastKind = kind
	m.lastRows = sanctions
	return m.result, m.err
}

// memStore keeps snapshot files in memory.
type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
	lines map[string][]string
}

func newMemStore() *memStore {
	return &memStore{
		files: make(map[string][]byte),
		lines: make(map[string][]string),
	}
}

func (s *memStore) WriteJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *memStore) ReadJSON(path string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return json.Unmarshal(data, v)
}

func (s *memStore) WriteLines(path string, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[path] = append([]string(nil), lines...)
	return nil
}

func (s *memStore) ReadLines(path string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, ok := s.lines[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return lines, nil
}

func (s *memStore) put(path string, v any) {
	if err := s.WriteJSON(path, v); err != nil {
		panic(err)
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
