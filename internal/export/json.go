package export

import (
	"encoding/json"
	"io"
)

type jsonRow struct {
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	Country         string `json:"country"`
	Category        string `json:"category"`
	FinalActionDate string `json:"final_action_date,omitempty"`
	FilingDate      string `json:"filing_date,omitempty"`
}

// WriteJSON writes rows as an indented JSON array
func WriteJSON(w io.Writer, rows []Row) error {
	out := make([]jsonRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, jsonRow{
			Year:            r.Year,
			Month:           int(r.Month),
			Country:         string(r.Country),
			Category:        string(r.Category),
			FinalActionDate: isoDate(r.FinalActionDate),
			FilingDate:      isoDate(r.FilingDate),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
