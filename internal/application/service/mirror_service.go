package service

import (
	"context"
	"fmt"

	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/ozzus/club-sanctions/internal/domain/ports"
	"go.uber.org/zap"
)

type MirrorService struct {
	log    *zap.Logger
	mirror ports.SanctionMirror
	store  ports.SnapshotStore
}

func NewMirrorService(log *zap.Logger, mirror ports.SanctionMirror, store ports.SnapshotStore) *MirrorService {
	return &MirrorService{
		log:    log,
		mirror: mirror,
		store:  store,
	}
}

// Mirror upserts a sanction snapshot into the SQL mirror.
func (s *MirrorService) Mirror(ctx context.Context, kind models.SanctionKind, path string) (models.MirrorResult, error) {
	const op = "service.Mirror"

	var sanctions []models.Sanction
	if err := s.store.ReadJSON(path, &sanctions); err != nil {
		return models.MirrorResult{}, fmt.Errorf("%s: read sanctions: %w", op, err)
	}

	res, err := s.mirror.UpsertSanctions(ctx, kind, sanctions)
	if err != nil {
		return res, fmt.Errorf("%s: upsert sanctions: %w", op, err)
	}

	s.log.Info("sanctions mirrored",
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.Int("total", res.Total),
		zap.Int("inserted", res.Inserted),
		zap.Int("updated", res.Updated),
	)
	return res, nil
}
