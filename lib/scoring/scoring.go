// Package scoring ranks company records by a fixed weighted score.
// It reads the CSV exports of the profile stage, or older
// hand-maintained sheets whose headers never quite agree.
package scoring

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"clutchintel/lib/textutil"

	"github.com/antzucaro/matchr"
)

// Component weights of the final score. Hourly rate is inverted,
// cheaper providers score higher.
const (
	RatingWeight      = 0.30
	ReviewCountWeight = 0.25
	HourlyRateWeight  = 0.20
	ProjectCostWeight = 0.15
	CompanySizeWeight = 0.10
)

// ratings come from a five star scale
const maxRating = 5.0

// headers are accepted fuzzily down to this JaroWinkler similarity
const fuzzyHeaderThreshold = 0.85

var EmptyInput = fmt.Errorf("csv input is empty")

type Company struct {
	ProfileURL      string
	RedirectURL     string
	Website         string
	Name            string
	Description     string
	Rating          float64
	RatingSecondary string
	ReviewCount     int
	MinProjectCost  float64
	HourlyRate      float64
	CompanySize     int
	Location        string
	Services        []string
	Score           float64
}

var canonicalColumns = []string{
	"clutch_profile_url", "redirect_url", "company_website", "company_name",
	"description", "rating", "rating_secondary", "review_count",
	"min_project_cost", "hourly_rate", "company_size", "location",
}

// headerAliases maps the headers of the reference browser-extension
// export to canonical columns. The export generated headers from css
// class names, and once leaked a data value in as a header.
var headerAliases = map[string]string{
	"sg-provider-logotype-v2 href":    "clutch_profile_url",
	"provider__cta-link href 5":       "redirect_url",
	"https://andersenlab.com":         "company_website",
	"provider__title-link":            "company_name",
	"provider__description-text-more": "description",
	"sg-rating__number":               "rating",
	"sg-rating__number 2":             "rating_secondary",
	"sg-rating__reviews":              "review_count",
	"provider__highlights-item":       "min_project_cost",
	"provider__highlights-item 2":     "hourly_rate",
	"provider__highlights-item 3":     "company_size",
	"provider__highlights-item 4":     "location",
}

var normalizedAliases = func() map[string]string {
	m := make(map[string]string, len(headerAliases))
	for alias, canonical := range headerAliases {
		m[textutil.NormalizeHeader(alias)] = canonical
	}
	return m
}()

var (
	intRegex    = regexp.MustCompile(`\d+`)
	dollarRegex = regexp.MustCompile(`\$(\d+)`)
)

// Load reads companies from a CSV export. Headers are resolved to
// canonical columns by exact alias, then normalized name, then fuzzy
// similarity; `service*` columns are consolidated into the service
// list. Unresolvable columns are ignored, missing ones leave fields
// zero.
func Load(r io.Reader) ([]Company, error) {
	br := bufio.NewReader(r)

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, EmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index, services := resolveColumns(header)

	var companies []Company
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		companies = append(companies, companyFromRow(row, index, services))
	}
	return companies, nil
}

// sniffDelimiter peeks at the header line; the reference extension
// exported tab separated files, everything else uses commas.
func sniffDelimiter(br *bufio.Reader) rune {
	head, _ := br.Peek(4096)
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if bytes.ContainsRune(head, '\t') {
		return '\t'
	}
	return ','
}

func isServiceColumn(normalized string) bool {
	return strings.HasPrefix(normalized, "service") ||
		strings.Contains(normalized, "services_list_item")
}

func resolveColumns(header []string) (map[string]int, []int) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = textutil.NormalizeHeader(h)
	}

	index := map[string]int{}
	claimed := make([]bool, len(header))
	var services []int

	for i, h := range header {
		if isServiceColumn(normalized[i]) {
			services = append(services, i)
			claimed[i] = true
			continue
		}

		canonical, ok := headerAliases[strings.TrimSpace(h)]
		if !ok {
			if slices.Contains(canonicalColumns, normalized[i]) {
				canonical = normalized[i]
				ok = true
			} else if alias, found := normalizedAliases[normalized[i]]; found {
				canonical = alias
				ok = true
			}
		}
		if !ok {
			continue
		}
		if _, taken := index[canonical]; !taken {
			index[canonical] = i
			claimed[i] = true
		}
	}

	for _, canonical := range canonicalColumns {
		if _, ok := index[canonical]; ok {
			continue
		}
		best := -1
		bestSimilarity := 0.0
		for i := range header {
			if claimed[i] || normalized[i] == "" {
				continue
			}
			similarity := matchr.JaroWinkler(normalized[i], canonical, false)
			if similarity > bestSimilarity {
				bestSimilarity = similarity
				best = i
			}
		}
		if best >= 0 && bestSimilarity >= fuzzyHeaderThreshold {
			index[canonical] = best
			claimed[best] = true
		}
	}

	return index, services
}

func companyFromRow(row []string, index map[string]int, services []int) Company {
	get := func(canonical string) string {
		i, ok := index[canonical]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	company := Company{
		ProfileURL:      get("clutch_profile_url"),
		RedirectURL:     get("redirect_url"),
		Website:         get("company_website"),
		Name:            get("company_name"),
		Description:     get("description"),
		RatingSecondary: get("rating_secondary"),
		Location:        get("location"),
	}
	company.Rating = parseFloat(get("rating"))
	company.ReviewCount = firstInt(get("review_count"))
	company.MinProjectCost = parseCurrency(get("min_project_cost"))
	company.HourlyRate = firstDollarAmount(get("hourly_rate"))
	company.CompanySize = firstInt(strings.ReplaceAll(get("company_size"), ",", ""))

	for _, i := range services {
		if i >= len(row) {
			continue
		}
		if s := strings.TrimSpace(row[i]); s != "" {
			company.Services = append(company.Services, s)
		}
	}
	return company
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// firstInt extracts the leading number of strings like "126 reviews"
// or "250 - 999". Unparseable values are 0.
func firstInt(s string) int {
	m := intRegex.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return v
}

// firstDollarAmount extracts the lower bound of ranges like
// "$50 - $99 / hr".
func firstDollarAmount(s string) float64 {
	m := dollarRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return parseFloat(m[1])
}

// parseCurrency handles values like "$10,000+", "$5K" and "$1.2M".
// Unparseable values are 0.
func parseCurrency(value string) float64 {
	value = strings.ToUpper(strings.TrimSpace(value))
	value = strings.NewReplacer("$", "", "+", "", ",", "").Replace(value)

	multiplier := 1.0
	if strings.Contains(value, "K") {
		multiplier = 1e3
		value = strings.ReplaceAll(value, "K", "")
	} else if strings.Contains(value, "M") {
		multiplier = 1e6
		value = strings.ReplaceAll(value, "M", "")
	}

	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return parsed * multiplier
}

// Rank filters out companies without ratings or reviews and scores
// the rest against the best values of the set. Returns a new slice
// sorted by descending score.
func Rank(companies []Company) []Company {
	var ranked []Company
	for _, c := range companies {
		if c.Rating > 0 && c.ReviewCount > 0 {
			ranked = append(ranked, c)
		}
	}
	if len(ranked) == 0 {
		return ranked
	}

	var maxReviews, maxCost, maxRate, maxSize float64
	for _, c := range ranked {
		maxReviews = math.Max(maxReviews, float64(c.ReviewCount))
		maxCost = math.Max(maxCost, c.MinProjectCost)
		maxRate = math.Max(maxRate, c.HourlyRate)
		maxSize = math.Max(maxSize, float64(c.CompanySize))
	}
	if maxReviews <= 0 {
		maxReviews = 1
	}
	if maxCost <= 0 {
		maxCost = 1
	}
	if maxRate <= 0 {
		maxRate = 1
	}
	if maxSize <= 0 {
		maxSize = 1
	}

	for i := range ranked {
		c := &ranked[i]
		score := RatingWeight*(c.Rating/maxRating) +
			ReviewCountWeight*(float64(c.ReviewCount)/maxReviews) +
			ProjectCostWeight*(c.MinProjectCost/maxCost) +
			HourlyRateWeight*(1-c.HourlyRate/maxRate) +
			CompanySizeWeight*(float64(c.CompanySize)/maxSize)
		c.Score = math.Round(score*1000) / 1000 * 100
	}

	slices.SortFunc(ranked, func(a, b Company) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	return ranked
}
