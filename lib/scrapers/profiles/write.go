package profiles

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const timestampFormat = "20060102_150405"

// WriteJSON serializes the profiles as an indented JSON array into
// dir, named with the run timestamp.
func WriteJSON(profiles []Profile, startedAt time.Time, dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("profile_extraction_%s.json", startedAt.Format(timestampFormat)))

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return "", err
	}
	err = writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("write json: %w", err)
	}
	return path, nil
}

var csvColumns = []string{
	"url", "company_name", "tagline", "description",
	"review_count", "rating",
	"min_project_size", "hourly_rate", "employees", "year_founded", "location",
	"services",
	"contact_email", "contact_phone", "contact_website",
	"social_linkedin", "social_facebook", "social_twitter", "social_instagram",
	"scraped_at",
}

// WriteCSV serializes the profiles as a flat CSV into dir. Nested
// fields become `_`-joined columns, the service list one `; `-joined
// cell.
func WriteCSV(profiles []Profile, startedAt time.Time, dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("profile_extraction_%s.csv", startedAt.Format(timestampFormat)))

	err := writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(csvColumns); err != nil {
			return err
		}
		for _, p := range profiles {
			if err := cw.Write(flattenProfile(p)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}

func flattenProfile(p Profile) []string {
	services := make([]string, len(p.Services))
	for i, s := range p.Services {
		services[i] = fmt.Sprintf("%s %d%%", s.Name, s.Percentage)
	}

	return []string{
		p.URL, p.CompanyName, p.Tagline, p.Description,
		strconv.Itoa(p.ReviewCount),
		strconv.FormatFloat(p.Rating, 'f', -1, 64),
		p.MinProjectSize, p.HourlyRate, p.Employees, p.YearFounded, p.Location,
		strings.Join(services, "; "),
		p.Contact.Email, p.Contact.Phone, p.Contact.Website,
		p.Social.LinkedIn, p.Social.Facebook, p.Social.Twitter, p.Social.Instagram,
		p.ScrapedAt.Format(time.RFC3339),
	}
}

func writeAtomic(path string, fill func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
