package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// CSVHeader is the column order written by the export endpoint.
var CSVHeader = []string{"stateId", "stateName", "count", "rate", "change", "status", "region", "year"}

// column aliases, lower-cased
var csvColumns = map[string]string{
	"id":        "id",
	"stateid":   "stateId",
	"key":       "stateId",
	"state_id":  "stateId",
	"statename": "stateName",
	"name":      "stateName",
	"state":     "stateName",
	"count":     "count",
	"rate":      "rate",
	"change":    "change",
	"status":    "status",
	"region":    "region",
	"year":      "year",
}

// DecodeCSV parses a CSV dataset with a header row. Columns may appear in any order;
// unknown columns are skipped. Rows without an id column are numbered from 1.
func DecodeCSV(r io.Reader) ([]model.RegionStat, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if field, ok := csvColumns[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := index[field]; !dup {
				index[field] = i
			}
		}
	}
	for _, required := range []string{"stateId", "stateName", "count", "rate", "change", "status", "region"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv header missing column %q", required)
		}
	}

	var records []model.RegionStat
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rec, err := parseRow(row, index, len(records)+1)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return canonicalize(records), nil
}

func parseRow(row []string, index map[string]int, seq int) (model.RegionStat, error) {
	get := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := model.RegionStat{
		ID:     seq,
		Key:    get("stateId"),
		Name:   get("stateName"),
		Status: model.Status(get("status")),
		Region: model.Region(get("region")),
	}

	var err error
	if v := get("id"); v != "" {
		if rec.ID, err = strconv.Atoi(v); err != nil {
			return rec, fmt.Errorf("parse id %q: %w", v, err)
		}
	}
	if rec.Count, err = strconv.Atoi(strings.ReplaceAll(get("count"), ",", "")); err != nil {
		return rec, fmt.Errorf("parse count %q: %w", get("count"), err)
	}
	if rec.Rate, err = strconv.ParseFloat(get("rate"), 64); err != nil {
		return rec, fmt.Errorf("parse rate %q: %w", get("rate"), err)
	}
	if rec.Change, err = strconv.ParseFloat(strings.TrimSuffix(get("change"), "%"), 64); err != nil {
		return rec, fmt.Errorf("parse change %q: %w", get("change"), err)
	}
	if v := get("year"); v != "" {
		if rec.Year, err = strconv.Atoi(v); err != nil {
			return rec, fmt.Errorf("parse year %q: %w", v, err)
		}
	}
	return rec, nil
}

// CSVRow renders a record in CSVHeader order.
func CSVRow(r model.RegionStat) []string {
	return []string{
		r.Key,
		r.Name,
		strconv.Itoa(r.Count),
		strconv.FormatFloat(r.Rate, 'f', 1, 64),
		strconv.FormatFloat(r.Change, 'f', 1, 64),
		string(r.Status),
		string(r.Region),
		strconv.Itoa(r.Year),
	}
}
