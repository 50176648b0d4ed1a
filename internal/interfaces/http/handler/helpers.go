package handler

import (
	"strings"

	"github.com/procurehub/backend/internal/domain/shared"
	"github.com/procurehub/backend/internal/interfaces/http/dto"
)

// toFilter converts a list request into the shared query filter used by the
// data source router. Pagination is translated into limit/offset.
func toFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Search != "" {
		filter.Search = req.Search
	}
	if req.Status != "" {
		filter.Status = req.Status
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = strings.ToLower(req.OrderDir)
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize
	return filter
}

// splitIDs parses a comma separated id list, dropping empty segments
func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
