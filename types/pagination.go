package types

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageReq 通用分页参数，page 从 1 开始；同时给出 offset 时以 offset 为准
type PageReq struct {
	Page   int `form:"page" json:"page"`
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

// Normalize 修正越界参数并返回 limit/offset
func (p PageReq) Normalize() (limit, offset int) {
	limit = p.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset = p.Offset
	if offset <= 0 {
		page := p.Page
		if page <= 0 {
			page = 1
		}
		offset = (page - 1) * limit
	}
	return limit, offset
}

type Pagination struct {
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Page 列表接口统一返回 { items, pagination }
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func NewPagination(total int64, limit, offset int) Pagination {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		Page:       offset/limit + 1,
		TotalPages: totalPages,
		HasNext:    int64(offset+limit) < total,
		HasPrev:    offset > 0,
	}
}

func NewPage[T any](items []T, total int64, limit, offset int) *Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &Page[T]{
		Items:      items,
		Pagination: NewPagination(total, limit, offset),
	}
}
