package dto

// TableRequest describes a new table payload.
type TableRequest struct {
	Name string `json:"name" binding:"required"`
}

// TableOverrideRequest carries a manual table status change.
type TableOverrideRequest struct {
	Status string `json:"status" binding:"required"`
}

// TableResponse describes a table in API responses.
type TableResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}
