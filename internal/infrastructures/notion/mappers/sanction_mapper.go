package mappers

import (
	"fmt"
	"math"

	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/dto"
)

// SanctionSchema is shared by the managers and adepts collections.
var SanctionSchema = MustSchema("sanctions",
	Field{Property: "SanctionId", Key: "sanction_id", Kind: KindTitle},
	Field{Property: "Club Group", Key: "club_group", Kind: KindSelect},
	Field{Property: "Quantity", Key: "quantity", Kind: KindNumber},
	Field{Property: "Suspension Days", Key: "suspension_days", Kind: KindNumber},
	Field{Property: "Formation", Key: "formation", Kind: KindSelect},
	Field{Property: "Fines", Key: "fines", Kind: KindNumber},
	Field{Property: "Date", Key: "date", Kind: KindDate},
)

func ToDomainSanction(page dto.Page) (models.Sanction, error) {
	v, err := SanctionSchema.Decode(page.Properties)
	if err != nil {
		return models.Sanction{}, fmt.Errorf("decode %s page %s: %w", SanctionSchema.Name(), page.ID, err)
	}

	quantity, err := wholeNumber(SanctionSchema, v, "quantity")
	if err != nil {
		return models.Sanction{}, fmt.Errorf("decode %s page %s: %w", SanctionSchema.Name(), page.ID, err)
	}
	suspensionDays, err := wholeNumber(SanctionSchema, v, "suspension_days")
	if err != nil {
		return models.Sanction{}, fmt.Errorf("decode %s page %s: %w", SanctionSchema.Name(), page.ID, err)
	}

	return models.Sanction{
		PageID:         page.ID,
		SanctionID:     v.String("sanction_id"),
		ClubGroup:      v.String("club_group"),
		Quantity:       quantity,
		SuspensionDays: suspensionDays,
		Formation:      v.String("formation"),
		Fines:          v.Number("fines"),
		Date:           v.String("date"),
	}, nil
}

// wholeNumber reads a count. Fractions are reported rather than rounded away.
func wholeNumber(schema *Schema, v Values, key string) (int, error) {
	n := v.Number(key)
	if n == math.Trunc(n) {
		return int(n), nil
	}

	f, _ := schema.Field(key)
	return 0, &DecodeError{
		Property: f.Property,
		Kind:     f.Kind,
		Err:      fmt.Errorf("%w: %v is not a whole number", derr.ErrMalformedProperty, n),
	}
}

func SanctionProperties(s models.Sanction) (dto.Properties, error) {
	return SanctionSchema.Encode(Values{
		"sanction_id":     s.SanctionID,
		"club_group":      s.ClubGroup,
		"quantity":        s.Quantity,
		"suspension_days": s.SuspensionDays,
		"formation":       s.Formation,
		"fines":           s.Fines,
		"date":            s.Date,
	})
}

// SanctionIDPatch is the single-field update that backfills a sanction id.
func SanctionIDPatch(sanctionID string) (dto.Properties, error) {
	return SanctionSchema.Encode(Values{"sanction_id": sanctionID})
}
