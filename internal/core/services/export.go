package services

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

var csvHeader = []string{
	"Date",
	"Steps",
	"Heart Rate (bpm)",
	"Sleep (hours)",
	"Water (glasses)",
	"Calories",
	"Mood",
	"Notes",
}

// ExportCSV renders entries as CSV with every field quoted. Unlogged numbers become 0
// and unlogged text an empty string.
func ExportCSV(entries []domain.Entry) []byte {
	var buf bytes.Buffer
	writeCSVRow(&buf, csvHeader)

	for _, e := range entries {
		writeCSVRow(&buf, []string{
			e.Date.String(),
			formatNumber(e.StepsOrZero()),
			formatNumber(e.HeartRateOrZero()),
			formatNumber(e.SleepOrZero()),
			formatNumber(e.WaterOrZero()),
			formatNumber(e.CaloriesOrZero()),
			textOrEmpty(e.Mood),
			textOrEmpty(e.Notes),
		})
	}

	return buf.Bytes()
}

func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func textOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
