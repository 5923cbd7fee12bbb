package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// All is the wildcard accepted for the region and status filters.
const All = "all"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ValidationError reports a query parameter outside its allowed values.
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: must be one of %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// FilterCriteria is the per-request filter selection. Empty Region or Status means no constraint.
type FilterCriteria struct {
	Region model.Region
	Status model.Status
	Search string
	View   model.View
}

// ParseCriteria validates raw query values. Absent values take their defaults (all, all, total);
// malformed values are rejected.
func ParseCriteria(region, status, view, search string) (FilterCriteria, error) {
	r, err := ParseRegion(region)
	if err != nil {
		return FilterCriteria{}, err
	}
	s, err := ParseStatus(status)
	if err != nil {
		return FilterCriteria{}, err
	}
	v, err := ParseView(view)
	if err != nil {
		return FilterCriteria{}, err
	}
	return FilterCriteria{Region: r, Status: s, Search: search, View: v}, nil
}

// ParseRegion returns "" for all regions.
func ParseRegion(raw string) (model.Region, error) {
	if isAll(raw) {
		return "", nil
	}
	if r, ok := model.ParseRegion(raw); ok {
		return r, nil
	}
	allowed := []string{All}
	for _, r := range model.Regions {
		allowed = append(allowed, string(r))
	}
	return "", &ValidationError{Field: "region", Value: raw, Allowed: allowed}
}

// ParseStatus returns "" for all statuses.
func ParseStatus(raw string) (model.Status, error) {
	if isAll(raw) {
		return "", nil
	}
	if s, ok := model.ParseStatus(raw); ok {
		return s, nil
	}
	allowed := []string{All}
	for _, s := range model.Statuses {
		allowed = append(allowed, strings.ToLower(string(s)))
	}
	return "", &ValidationError{Field: "legalStatus", Value: raw, Allowed: allowed}
}

// ParseView defaults to the total view.
func ParseView(raw string) (model.View, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.ViewTotal, nil
	}
	allowed := make([]string, 0, len(model.Views))
	for _, v := range model.Views {
		if strings.EqualFold(trimmed, string(v)) {
			return v, nil
		}
		allowed = append(allowed, string(v))
	}
	return "", &ValidationError{Field: "dataView", Value: raw, Allowed: allowed}
}

// ParseSort validates a sort column and direction. Both default to name ascending.
func ParseSort(metric, direction string) (SortSpec, error) {
	spec := DefaultSort()

	if m := strings.TrimSpace(metric); m != "" {
		found := false
		for _, candidate := range SortMetrics {
			if strings.EqualFold(m, string(candidate)) {
				spec.Metric = candidate
				found = true
				break
			}
		}
		if !found {
			allowed := make([]string, 0, len(SortMetrics))
			for _, candidate := range SortMetrics {
				allowed = append(allowed, string(candidate))
			}
			return SortSpec{}, &ValidationError{Field: "sortBy", Value: metric, Allowed: allowed}
		}
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "asc", "ascending":
		spec.Direction = Ascending
	case "desc", "descending":
		spec.Direction = Descending
	default:
		return SortSpec{}, &ValidationError{Field: "sortDirection", Value: direction, Allowed: []string{string(Ascending), string(Descending)}}
	}
	return spec, nil
}

// ParsePaging validates page and page size. Absent values give page 1 of DefaultPageSize rows.
func ParsePaging(page, pageSize string) (int, int, error) {
	p := 1
	if strings.TrimSpace(page) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(page))
		if err != nil {
			return 0, 0, &ValidationError{Field: "page", Value: page}
		}
		p = n
	}
	size := DefaultPageSize
	if strings.TrimSpace(pageSize) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(pageSize))
		if err != nil || n < 1 || n > MaxPageSize {
			return 0, 0, &ValidationError{Field: "pageSize", Value: pageSize, Allowed: []string{fmt.Sprintf("1..%d", MaxPageSize)}}
		}
		size = n
	}
	return p, size, nil
}

func isAll(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || strings.EqualFold(trimmed, All)
}
