package util

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// FingerprintRecords creates an MD5 hash over every field of the records, in order.
// Two datasets with the same fingerprint produce identical query results.
func FingerprintRecords(records []model.RegionStat) string {
	builder := strings.Builder{}
	for _, r := range records {
		builder.WriteString(strconv.Itoa(r.ID))
		builder.WriteString("|")
		builder.WriteString(r.Key)
		builder.WriteString("|")
		builder.WriteString(r.Name)
		builder.WriteString("|")
		builder.WriteString(strconv.Itoa(r.Count))
		builder.WriteString("|")
		builder.WriteString(strconv.FormatFloat(r.Rate, 'g', -1, 64))
		builder.WriteString("|")
		builder.WriteString(strconv.FormatFloat(r.Change, 'g', -1, 64))
		builder.WriteString("|")
		builder.WriteString(string(r.Status))
		builder.WriteString("|")
		builder.WriteString(string(r.Region))
		builder.WriteString("|")
		builder.WriteString(strconv.Itoa(r.Year))
		builder.WriteString("\n")
	}
	return hashString(builder.String())
}

func hashString(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}
