package ports

import (
	"context"
	"time"

	"github.com/ozzus/club-sanctions/internal/domain/models"
)

type ClubSource interface {
	FetchClubs(ctx context.Context) ([]models.Club, error)
	FetchClubAliases(ctx context.Context) ([]models.ClubAlias, error)
	CreateClub(ctx context.Context, club models.Club) error
	CreateClubAlias(ctx context.Context, name string) error
}

type SanctionSource interface {
	FetchSanctions(ctx context.Context, kind models.SanctionKind) ([]models.Sanction, error)
	AssignSanctionID(ctx context.Context, pageID, sanctionID string) error
}

type SanctionCache interface {
	GetSanctions(ctx context.Context, kind models.SanctionKind) ([]models.Sanction, error)
	SetSanctions(ctx context.Context, kind models.SanctionKind, sanctions []models.Sanction, ttl time.Duration) error
}

type SanctionMirror interface {
	UpsertSanctions(ctx context.Context, kind models.SanctionKind, sanctions []models.Sanction) (models.MirrorResult, error)
}

// SnapshotStore persists flat records as local files.
type SnapshotStore interface {
	WriteJSON(path string, v any) error
	ReadJSON(path string, v any) error
	WriteLines(path string, lines []string) error
	ReadLines(path string) ([]string, error)
}
