package report

import (
	"fmt"
	"time"
)

var bulan = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

type MonthOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MonthOptions lists YYYY-MM values for every month of year.
func MonthOptions(year int) []MonthOption {
	out := make([]MonthOption, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, MonthOption{
			Value: fmt.Sprintf("%04d-%02d", year, int(m)),
			Label: fmt.Sprintf("%s %d", bulan[m-1], year),
		})
	}
	return out
}
