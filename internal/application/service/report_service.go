package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/ozzus/club-sanctions/internal/domain/ports"
	"go.uber.org/zap"
)

const (
	SourceCache    = "cache"
	SourceLive     = "live"
	SourceSnapshot = "snapshot"
)

type ReportService struct {
	log       *zap.Logger
	sanctions ports.SanctionSource
	cache     ports.SanctionCache
	cacheTTL  time.Duration
	store     ports.SnapshotStore
}

// NewReportService accepts a nil source (snapshot only) and a nil cache.
func NewReportService(log *zap.Logger, sanctions ports.SanctionSource, cache ports.SanctionCache, cacheTTL time.Duration, store ports.SnapshotStore) *ReportService {
	return &ReportService{
		log:       log,
		sanctions: sanctions,
		cache:     cache,
		cacheTTL:  cacheTTL,
		store:     store,
	}
}

// LoadSanctions reads the cache, then the live source, then the snapshot file.
func (s *ReportService) LoadSanctions(ctx context.Context, kind models.SanctionKind, snapshotPath string) ([]models.Sanction, string, error) {
	const op = "service.LoadSanctions"

	logger := s.log.With(
		zap.String("op", op),
		zap.String("kind", string(kind)),
	)

	if s.cache != nil {
		sanctions, err := s.cache.GetSanctions(ctx, kind)
		if err == nil {
			logger.Debug("sanctions loaded from redis cache")
			return sanctions, SourceCache, nil
		}
		if !errors.Is(err, derr.ErrNotFound) {
			logger.Warn("redis cache read failed", zap.Error(err))
		}
	}

	liveErr := derr.ErrSourceUnavailable
	if s.sanctions != nil {
		// Undecodable records are logged and left out; the rest of the live data is used.
		sanctions, err := s.sanctions.FetchSanctions(ctx, kind)
		if _, err = partial(logger, err); err == nil {
			if s.cache != nil {
				if err := s.cache.SetSanctions(ctx, kind, sanctions, s.cacheTTL); err != nil {
					logger.Warn("redis cache write failed", zap.Error(err))
				}
			}
			return sanctions, SourceLive, nil
		}
		if ctx.Err() != nil {
			return nil, "", fmt.Errorf("%s: %w", op, ctx.Err())
		}
		liveErr = err
		logger.Warn("live source failed, using snapshot", zap.Error(err), zap.String("path", snapshotPath))
	}

	var sanctions []models.Sanction
	if err := s.store.ReadJSON(snapshotPath, &sanctions); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, errors.Join(liveErr, err))
	}

	return sanctions, SourceSnapshot, nil
}

// Report aggregates sanctions per club group. A limit of zero keeps every row.
// Rows get a city when clubsPath names a readable club snapshot.
func (s *ReportService) Report(ctx context.Context, kind models.SanctionKind, snapshotPath, clubsPath string, limit int) (models.Report, error) {
	const op = "service.Report"

	sanctions, source, err := s.LoadSanctions(ctx, kind, snapshotPath)
	if err != nil {
		return models.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	rows, totals := Aggregate(sanctions, limit)

	if clubsPath != "" {
		var clubs []models.Club
		if err := s.store.ReadJSON(clubsPath, &clubs); err != nil {
			s.log.Debug("club snapshot unavailable, cities left empty",
				zap.String("op", op),
				zap.Error(err),
			)
		} else {
			index := NewClubIndex(clubs)
			for i := range rows {
				if club, ok := index.Match(rows[i].ClubGroup); ok {
					rows[i].City = club.City
				}
			}
		}
	}

	return models.Report{
		Kind:   kind,
		Source: source,
		Rows:   rows,
		Totals: totals,
	}, nil
}

// Aggregate sums sanctions per trimmed club group, sorted by quantity desc then name.
func Aggregate(sanctions []models.Sanction, limit int) ([]models.ClubTotals, models.ClubTotals) {
	var totals models.ClubTotals
	byGroup := make(map[string]*models.ClubTotals)

	for _, sanction := range sanctions {
		group := strings.TrimSpace(sanction.ClubGroup)
		row, ok := byGroup[group]
		if !ok {
			row = &models.ClubTotals{ClubGroup: group}
			byGroup[group] = row
		}

		row.Quantity += sanction.Quantity
		row.Fines += sanction.Fines
		row.SuspensionDays += sanction.SuspensionDays

		totals.Quantity += sanction.Quantity
		totals.Fines += sanction.Fines
		totals.SuspensionDays += sanction.SuspensionDays
	}

	rows := make([]models.ClubTotals, 0, len(byGroup))
	for _, row := range byGroup {
		rows = append(rows, *row)
	}

	slices.SortFunc(rows, func(a, b models.ClubTotals) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return strings.Compare(a.ClubGroup, b.ClubGroup)
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return rows, totals
}

// ClubIndex matches club groups to clubs by trimmed exact name, then by display name.
type ClubIndex struct {
	byName  map[string]models.Club
	byAlias map[string]models.Club
}

func NewClubIndex(clubs []models.Club) ClubIndex {
	idx := ClubIndex{
		byName:  make(map[string]models.Club, len(clubs)),
		byAlias: make(map[string]models.Club, len(clubs)),
	}

	for _, club := range clubs {
		if name := strings.TrimSpace(club.Name); name != "" {
			if _, ok := idx.byName[name]; !ok {
				idx.byName[name] = club
			}
		}
		if shown := strings.TrimSpace(club.DisplayName()); shown != "" {
			if _, ok := idx.byAlias[shown]; !ok {
				idx.byAlias[shown] = club
			}
		}
	}

	return idx
}

func (idx ClubIndex) Match(group string) (models.Club, bool) {
	group = strings.TrimSpace(group)
	if club, ok := idx.byName[group]; ok {
		return club, true
	}
	club, ok := idx.byAlias[group]
	return club, ok
}
