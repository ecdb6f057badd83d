package models

// RawClub is a club directory entry as scraped, before it has a remote record.
type RawClub struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	City   string `json:"city"`
	ImgURL string `json:"img_url"`
}

type Club struct {
	RowID   string `json:"row_id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	URL     string `json:"url"`
	ImgURL  string `json:"img_url"`
	Alias   string `json:"alias"`
	AliasID string `json:"alias_id"`
	ClubID  string `json:"club_id"`
}

// DisplayName returns the alias when one is configured, the primary name otherwise.
func (c Club) DisplayName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

type ClubAlias struct {
	AliasID string `json:"alias_id"`
	Club    string `json:"club"`
}
