package dto

type ErrorResponse struct {
	Message string `json:"message"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type ListResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

func NewMeta(total int64, page, limit int) Meta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Meta{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

func NewListResponse(data any, total int64, page, limit int) ListResponse {
	return ListResponse{Data: data, Meta: NewMeta(total, page, limit)}
}
