package dto

type QueryDatabaseRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
}

type QueryDatabaseResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

type Parent struct {
	DatabaseID string `json:"database_id"`
}

type CreatePageRequest struct {
	Parent     Parent     `json:"parent"`
	Properties Properties `json:"properties"`
}

type UpdatePageRequest struct {
	Properties Properties `json:"properties"`
}
