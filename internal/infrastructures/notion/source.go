package notion

import (
	"context"
	"fmt"

	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/dto"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/http/client"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/mappers"
)

// Databases holds the remote collection ids.
type Databases struct {
	Clubs            string
	ClubAliases      string
	ManagerSanctions string
	AdeptSanctions   string
}

type Source struct {
	client *client.Client
	dbs    Databases
}

func NewSource(client *client.Client, dbs Databases) *Source {
	return &Source{
		client: client,
		dbs:    dbs,
	}
}

func (s *Source) FetchClubs(ctx context.Context) ([]models.Club, error) {
	return fetchAll(ctx, s, "clubs", s.dbs.Clubs, mappers.ToDomainClub)
}

func (s *Source) FetchClubAliases(ctx context.Context) ([]models.ClubAlias, error) {
	return fetchAll(ctx, s, "club aliases", s.dbs.ClubAliases, mappers.ToDomainClubAlias)
}

func (s *Source) FetchSanctions(ctx context.Context, kind models.SanctionKind) ([]models.Sanction, error) {
	databaseID, err := s.sanctionDatabase(kind)
	if err != nil {
		return nil, err
	}
	return fetchAll(ctx, s, string(kind)+" sanctions", databaseID, mappers.ToDomainSanction)
}

func (s *Source) CreateClub(ctx context.Context, club models.Club) error {
	if err := requireDatabase("clubs", s.dbs.Clubs); err != nil {
		return err
	}

	props, err := mappers.ClubProperties(club)
	if err != nil {
		return fmt.Errorf("encode club %q: %w", club.Name, err)
	}

	if _, err := s.client.CreatePage(ctx, s.dbs.Clubs, props); err != nil {
		return fmt.Errorf("create club %q: %w", club.Name, err)
	}
	return nil
}

func (s *Source) CreateClubAlias(ctx context.Context, name string) error {
	if err := requireDatabase("club aliases", s.dbs.ClubAliases); err != nil {
		return err
	}

	props, err := mappers.ClubAliasProperties(name)
	if err != nil {
		return fmt.Errorf("encode club alias %q: %w", name, err)
	}

	if _, err := s.client.CreatePage(ctx, s.dbs.ClubAliases, props); err != nil {
		return fmt.Errorf("create club alias %q: %w", name, err)
	}
	return nil
}

func (s *Source) AssignSanctionID(ctx context.Context, pageID, sanctionID string) error {
	props, err := mappers.SanctionIDPatch(sanctionID)
	if err != nil {
		return fmt.Errorf("encode sanction id patch: %w", err)
	}

	if _, err := s.client.UpdatePage(ctx, pageID, props); err != nil {
		return fmt.Errorf("assign sanction id: %w", err)
	}
	return nil
}

func (s *Source) sanctionDatabase(kind models.SanctionKind) (string, error) {
	var databaseID string
	switch kind {
	case models.SanctionKindManagers:
		databaseID = s.dbs.ManagerSanctions
	case models.SanctionKindAdepts:
		databaseID = s.dbs.AdeptSanctions
	default:
		return "", fmt.Errorf("%w: %q", derr.ErrUnknownKind, kind)
	}

	if err := requireDatabase(string(kind)+" sanctions", databaseID); err != nil {
		return "", err
	}
	return databaseID, nil
}

func requireDatabase(name, databaseID string) error {
	if databaseID == "" {
		return fmt.Errorf("database id for %s is not configured", name)
	}
	return nil
}

// fetchAll decodes every page it can. Pages that fail are left out and reported
// through a *derr.SkippedRecordsError returned alongside the decoded records.
func fetchAll[T any](ctx context.Context, s *Source, name, databaseID string, decode func(dto.Page) (T, error)) ([]T, error) {
	if err := requireDatabase(name, databaseID); err != nil {
		return nil, err
	}

	pages, err := s.client.QueryDatabase(ctx, databaseID)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	records := make([]T, 0, len(pages))
	var failed []error
	for _, page := range pages {
		record, err := decode(page)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		records = append(records, record)
	}

	if len(failed) > 0 {
		return records, &derr.SkippedRecordsError{Entity: name, Errs: failed}
	}
	return records, nil
}
