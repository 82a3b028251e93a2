package scoring

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// WriteCSV serializes the companies with their scores, canonical
// columns plus a consolidated services cell and the final
// clutch_score.
func WriteCSV(companies []Company, w io.Writer) error {
	cw := csv.NewWriter(w)

	columns := make([]string, 0, len(canonicalColumns)+2)
	columns = append(columns, canonicalColumns...)
	columns = append(columns, "services", "clutch_score")
	if err := cw.Write(columns); err != nil {
		return err
	}

	for _, c := range companies {
		row := []string{
			c.ProfileURL, c.RedirectURL, c.Website, c.Name, c.Description,
			strconv.FormatFloat(c.Rating, 'f', -1, 64),
			c.RatingSecondary,
			strconv.Itoa(c.ReviewCount),
			strconv.FormatFloat(c.MinProjectCost, 'f', -1, 64),
			strconv.FormatFloat(c.HourlyRate, 'f', -1, 64),
			strconv.Itoa(c.CompanySize),
			c.Location,
			strings.Join(c.Services, "; "),
			strconv.FormatFloat(c.Score, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
