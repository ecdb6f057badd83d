package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/ozzus/club-sanctions/internal/domain/ports"
	"go.uber.org/zap"
)

type SyncService struct {
	log       *zap.Logger
	clubs     ports.ClubSource
	sanctions ports.SanctionSource
	store     ports.SnapshotStore
	delay     time.Duration
	clock     clockwork.Clock
	newID     func() string
	progress  io.Writer
}

type SyncOption func(*SyncService)

func WithClock(clock clockwork.Clock) SyncOption {
	return func(s *SyncService) { s.clock = clock }
}

func WithIDGenerator(newID func() string) SyncOption {
	return func(s *SyncService) { s.newID = newID }
}

func WithProgress(w io.Writer) SyncOption {
	return func(s *SyncService) { s.progress = w }
}

func NewSyncService(log *zap.Logger, clubs ports.ClubSource, sanctions ports.SanctionSource, store ports.SnapshotStore, delay time.Duration, opts ...SyncOption) *SyncService {
	s := &SyncService{
		log:       log,
		clubs:     clubs,
		sanctions: sanctions,
		store:     store,
		delay:     delay,
		clock:     clockwork.NewRealClock(),
		newID:     NewOpaqueID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOpaqueID returns a random uuid as 32 lowercase hex characters.
func NewOpaqueID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *SyncService) ExportClubs(ctx context.Context, path string) (int, error) {
	const op = "service.ExportClubs"

	logger := s.log.With(zap.String("op", op), zap.String("path", path))

	aliases, err := s.clubs.FetchClubAliases(ctx)
	skippedAliases, err := partial(logger, err)
	if err != nil {
		return 0, fmt.Errorf("%s: fetch club aliases: %w", op, err)
	}

	clubs, err := s.clubs.FetchClubs(ctx)
	skippedClubs, err := partial(logger, err)
	if err != nil {
		return 0, fmt.Errorf("%s: fetch clubs: %w", op, err)
	}

	names := make(map[string]string, len(aliases))
	for _, a := range aliases {
		names[a.AliasID] = a.Club
	}

	for i := range clubs {
		if clubs[i].AliasID == "" {
			clubs[i].Alias = ""
			continue
		}
		name, ok := names[clubs[i].AliasID]
		if !ok {
			logger.Warn("club references unknown alias",
				zap.String("club", clubs[i].Name),
				zap.String("alias_id", clubs[i].AliasID),
			)
		}
		clubs[i].Alias = name
	}

	if err := s.store.WriteJSON(path, clubs); err != nil {
		return 0, fmt.Errorf("%s: write snapshot: %w", op, err)
	}

	logger.Info("clubs exported", zap.Int("count", len(clubs)))
	if skipped := mergeSkipped("club", skippedAliases, skippedClubs); skipped != nil {
		return len(clubs), fmt.Errorf("%s: %w", op, skipped)
	}
	return len(clubs), nil
}

func (s *SyncService) ExportAliases(ctx context.Context, path string) (int, error) {
	const op = "service.ExportAliases"

	logger := s.log.With(zap.String("op", op), zap.String("path", path))

	aliases, err := s.clubs.FetchClubAliases(ctx)
	skipped, err := partial(logger, err)
	if err != nil {
		return 0, fmt.Errorf("%s: fetch club aliases: %w", op, err)
	}

	if err := s.store.WriteJSON(path, aliases); err != nil {
		return 0, fmt.Errorf("%s: write snapshot: %w", op, err)
	}

	logger.Info("club aliases exported", zap.Int("count", len(aliases)))
	if skipped != nil {
		return len(aliases), fmt.Errorf("%s: %w", op, skipped)
	}
	return len(aliases), nil
}

func (s *SyncService) ExportSanctions(ctx context.Context, kind models.SanctionKind, path string) (int, error) {
	const op = "service.ExportSanctions"

	logger := s.log.With(
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.String("path", path),
	)

	sanctions, err := s.sanctions.FetchSanctions(ctx, kind)
	skipped, err := partial(logger, err)
	if err != nil {
		return 0, fmt.Errorf("%s: fetch %s sanctions: %w", op, kind, err)
	}

	if err := s.store.WriteJSON(path, sanctions); err != nil {
		return 0, fmt.Errorf("%s: write snapshot: %w", op, err)
	}

	logger.Info("sanctions exported", zap.Int("count", len(sanctions)))
	if skipped != nil {
		return len(sanctions), fmt.Errorf("%s: %w", op, skipped)
	}
	return len(sanctions), nil
}

// ImportClubs creates one remote club per raw entry, each with a fresh club id and no alias.
func (s *SyncService) ImportClubs(ctx context.Context, rawPath string) (models.BatchSummary, error) {
	const op = "service.ImportClubs"

	logger := s.log.With(zap.String("op", op), zap.String("path", rawPath))

	var raw []models.RawClub
	if err := s.store.ReadJSON(rawPath, &raw); err != nil {
		return models.BatchSummary{}, fmt.Errorf("%s: read raw clubs: %w", op, err)
	}

	items := make([]batchItem, 0, len(raw))
	for _, r := range raw {
		club := models.Club{
			Name:   r.Name,
			City:   r.City,
			URL:    r.URL,
			ImgURL: r.ImgURL,
		}
		items = append(items, batchItem{
			key: r.Name,
			run: func(ctx context.Context) error {
				club.ClubID = s.newID()
				return s.clubs.CreateClub(ctx, club)
			},
		})
	}

	summary, err := s.runBatch(ctx, logger, items)
	if err != nil {
		return summary, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}

// BackfillSanctionIDs assigns ids to snapshot records that have none. Records
// that already carry an id are never sent.
func (s *SyncService) BackfillSanctionIDs(ctx context.Context, kind models.SanctionKind, path string) (models.BatchSummary, error) {
	const op = "service.BackfillSanctionIDs"

	logger := s.log.With(
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.String("path", path),
	)

	var sanctions []models.Sanction
	if err := s.store.ReadJSON(path, &sanctions); err != nil {
		return models.BatchSummary{}, fmt.Errorf("%s: read sanctions: %w", op, err)
	}

	items := make([]batchItem, 0, len(sanctions))
	for _, sanction := range sanctions {
		pageID := sanction.PageID
		items = append(items, batchItem{
			key:  fmt.Sprintf("%s %s", sanction.Date, pageID),
			skip: sanction.SanctionID != "",
			run: func(ctx context.Context) error {
				return s.sanctions.AssignSanctionID(ctx, pageID, s.newID())
			},
		})
	}

	summary, err := s.runBatch(ctx, logger, items)
	if err != nil {
		return summary, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}

// DiscoverAliases lists distinct manager-sanction club groups in first-seen order.
func (s *SyncService) DiscoverAliases(ctx context.Context, txtPath, jsonPath string) ([]string, error) {
	const op = "service.DiscoverAliases"

	logger := s.log.With(zap.String("op", op))

	sanctions, err := s.sanctions.FetchSanctions(ctx, models.SanctionKindManagers)
	skipped, err := partial(logger, err)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch sanctions: %w", op, err)
	}

	groups := DistinctClubGroups(sanctions)

	if err := s.store.WriteLines(txtPath, groups); err != nil {
		return nil, fmt.Errorf("%s: write alias list: %w", op, err)
	}
	if err := s.store.WriteJSON(jsonPath, groups); err != nil {
		return nil, fmt.Errorf("%s: write alias json: %w", op, err)
	}

	logger.Info("aliases discovered",
		zap.Int("sanctions", len(sanctions)),
		zap.Int("aliases", len(groups)),
	)
	if skipped != nil {
		return groups, fmt.Errorf("%s: %w", op, skipped)
	}
	return groups, nil
}

// partial separates records a fetch skipped from a failed fetch. Each skipped
// record is logged; any other error is returned unchanged.
func partial(logger *zap.Logger, err error) (*derr.SkippedRecordsError, error) {
	if err == nil {
		return nil, nil
	}

	skipped := derr.Skipped(err)
	if skipped == nil {
		return nil, err
	}

	for _, recErr := range skipped.Errs {
		logger.Warn("record skipped", zap.String("entity", skipped.Entity), zap.Error(recErr))
	}
	return skipped, nil
}

func mergeSkipped(entity string, parts ...*derr.SkippedRecordsError) *derr.SkippedRecordsError {
	var errs []error
	for _, part := range parts {
		if part != nil {
			errs = append(errs, part.Errs...)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &derr.SkippedRecordsError{Entity: entity, Errs: errs}
}

func DistinctClubGroups(sanctions []models.Sanction) []string {
	seen := make(map[string]struct{}, len(sanctions))
	groups := make([]string, 0)
	for _, sanction := range sanctions {
		if _, ok := seen[sanction.ClubGroup]; ok {
			continue
		}
		seen[sanction.ClubGroup] = struct{}{}
		groups = append(groups, sanction.ClubGroup)
	}
	return groups
}

func (s *SyncService) ImportAliases(ctx context.Context, txtPath string) (models.BatchSummary, error) {
	const op = "service.ImportAliases"

	logger := s.log.With(zap.String("op", op), zap.String("path", txtPath))

	names, err := s.store.ReadLines(txtPath)
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("%s: read alias list: %w", op, err)
	}

	items := make([]batchItem, 0, len(names))
	for _, name := range names {
		name := name
		items = append(items, batchItem{
			key: name,
			run: func(ctx context.Context) error {
				return s.clubs.CreateClubAlias(ctx, name)
			},
		})
	}

	summary, err := s.runBatch(ctx, logger, items)
	if err != nil {
		return summary, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}
