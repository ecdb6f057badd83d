package models

import (
	"fmt"
	"strings"

	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
)

// SanctionKind selects the collection a sanction lives in.
type SanctionKind string

const (
	SanctionKindManagers SanctionKind = "managers"
	SanctionKindAdepts   SanctionKind = "adepts"
)

func ParseSanctionKind(value string) (SanctionKind, error) {
	switch SanctionKind(strings.ToLower(strings.TrimSpace(value))) {
	case SanctionKindManagers:
		return SanctionKindManagers, nil
	case SanctionKindAdepts:
		return SanctionKindAdepts, nil
	default:
		return "", fmt.Errorf("%w: %q", derr.ErrUnknownKind, value)
	}
}

type Sanction struct {
	PageID         string  `json:"page_id"`
	SanctionID     string  `json:"sanction_id"`
	ClubGroup      string  `json:"club_group"`
	Quantity       int     `json:"quantity"`
	SuspensionDays int     `json:"suspension_days"`
	Formation      string  `json:"formation"`
	Fines          float64 `json:"fines"`
	Date           string  `json:"date"`
}
