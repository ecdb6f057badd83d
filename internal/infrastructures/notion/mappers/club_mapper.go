package mappers

import (
	"fmt"

	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/dto"
)

var ClubSchema = MustSchema("clubs",
	Field{Property: "ClubId", Key: "club_id", Kind: KindTitle},
	Field{Property: "Name", Key: "name", Kind: KindRichText},
	Field{Property: "City", Key: "city", Kind: KindRichText},
	Field{Property: "Website Url", Key: "url", Kind: KindRichText},
	Field{Property: "Image Url", Key: "img_url", Kind: KindRichText},
	Field{Property: "Alias", Key: "alias_id", Kind: KindRelation},
)

var ClubAliasSchema = MustSchema("club_aliases",
	Field{Property: "Club", Key: "club", Kind: KindTitle},
)

// ToDomainClub leaves Alias empty; it is resolved against the alias collection by the caller.
func ToDomainClub(page dto.Page) (models.Club, error) {
	v, err := ClubSchema.Decode(page.Properties)
	if err != nil {
		return models.Club{}, fmt.Errorf("decode %s page %s: %w", ClubSchema.Name(), page.ID, err)
	}

	return models.Club{
		RowID:   page.ID,
		Name:    v.String("name"),
		City:    v.String("city"),
		URL:     v.String("url"),
		ImgURL:  v.String("img_url"),
		AliasID: v.String("alias_id"),
		ClubID:  v.String("club_id"),
	}, nil
}

func ClubProperties(club models.Club) (dto.Properties, error) {
	return ClubSchema.Encode(Values{
		"club_id":  club.ClubID,
		"name":     club.Name,
		"city":     club.City,
		"url":      club.URL,
		"img_url":  club.ImgURL,
		"alias_id": club.AliasID,
	})
}

func ToDomainClubAlias(page dto.Page) (models.ClubAlias, error) {
	v, err := ClubAliasSchema.Decode(page.Properties)
	if err != nil {
		return models.ClubAlias{}, fmt.Errorf("decode %s page %s: %w", ClubAliasSchema.Name(), page.ID, err)
	}

	return models.ClubAlias{
		AliasID: page.ID,
		Club:    v.String("club"),
	}, nil
}

func ClubAliasProperties(name string) (dto.Properties, error) {
	return ClubAliasSchema.Encode(Values{"club": name})
}
