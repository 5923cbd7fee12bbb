package dashboard

import "github.com/weiwei-tsao/state-stats-dashboard/pkg/model"

// Paginate slices records into a page. Page numbers below 1 become 1 and numbers
// past the end clamp to the last page.
func Paginate(records []model.RegionStat, page, pageSize int) model.Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	items := make([]model.RegionStat, 0, end-start)
	if start < end {
		items = append(items, records[start:end]...)
	}

	return model.Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
