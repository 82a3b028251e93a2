package profiles

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"clutchintel/lib/htmlutil"
	"clutchintel/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	jsonNameRegex    = regexp.MustCompile(`"name":"([^"]+)"`)
	reviewCountRegex = regexp.MustCompile(`(?i)(\d+)\s*review`)
	decimalRegex     = regexp.MustCompile(`\d+\.?\d*`)
	projectSizeRegex = regexp.MustCompile(`\$([0-9,]+\+?)`)
	hourlyRateRegex  = regexp.MustCompile(`(?i)\$(\d+)\s*-\s*\$(\d+)\s*/?\s*hr`)
	employeeRegex    = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	foundedRegex     = regexp.MustCompile(`(?i)founded\s*(\d{4})`)
	locationRegex    = regexp.MustCompile(`[A-Za-z\s]+,\s*[A-Za-z\s]+`)
	serviceRegex     = regexp.MustCompile(`([A-Za-z\s&/]+)\s*(\d+)%`)
	emailRegex       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRegex       = regexp.MustCompile(`\+?[1-9]?[0-9]{7,14}`)
)

// extract pulls company data out of a profile page. The page markup
// carries no stable ids, so most fields come from class-substring
// selectors and text patterns; anything that does not match is left
// zero.
func extract(ctx context.Context, doc *goquery.Document, rawHtml, url string) Profile {
	profile := Profile{URL: url}
	pageText := doc.Text()
	anchors := htmlutil.GetAnchors(ctx, doc.Find("a"))

	profile.CompanyName = extractName(doc, rawHtml)
	profile.Tagline = cleanSelection(doc.Find(
		"h2[class*='tagline'], h2[class*='subtitle'], h2[class*='description']").First())
	profile.Description = extractDescription(doc)

	if m := reviewCountRegex.FindStringSubmatch(pageText); m != nil {
		profile.ReviewCount, _ = strconv.Atoi(m[1])
	}
	// raw text here: CleanText drops the newlines that keep the
	// rating apart from a sibling review count
	ratingText := doc.Find("[class*='rating'], [class*='stars']").First().Text()
	if m := decimalRegex.FindString(ratingText); m != "" {
		profile.Rating, _ = strconv.ParseFloat(m, 64)
	}

	if m := projectSizeRegex.FindStringSubmatch(pageText); m != nil {
		profile.MinProjectSize = "$" + m[1]
	}
	if m := hourlyRateRegex.FindStringSubmatch(pageText); m != nil {
		profile.HourlyRate = fmt.Sprintf("$%s - $%s / hr", m[1], m[2])
	}
	if m := employeeRegex.FindStringSubmatch(pageText); m != nil {
		profile.Employees = fmt.Sprintf("%s - %s", m[1], m[2])
	}
	if m := foundedRegex.FindStringSubmatch(pageText); m != nil {
		profile.YearFounded = m[1]
	}
	profile.Location = extractLocation(pageText)
	profile.Services = extractServices(pageText)
	profile.Contact = extractContact(pageText, anchors)
	profile.Social = extractSocial(anchors)

	return profile
}

func cleanSelection(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return htmlutil.CleanText(sel.Get(0))
}

func extractName(doc *goquery.Document, rawHtml string) string {
	candidates := []string{
		cleanSelection(doc.Find("h1").First()),
		cleanSelection(doc.Find("h2").First()),
	}
	if title := cleanSelection(doc.Find("title").First()); title != "" {
		candidates = append(candidates, strings.TrimSpace(strings.SplitN(title, "|", 2)[0]))
	}
	if m := jsonNameRegex.FindStringSubmatch(rawHtml); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}

	for _, name := range candidates {
		if name != "" && len(name) < 100 {
			return name
		}
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	selectors := []string{
		"div[class*='description']",
		"div[class*='about']",
		"p[class*='description']",
		".company-description",
		".profile-description",
	}
	for _, selector := range selectors {
		if text := cleanSelection(doc.Find(selector).First()); text != "" {
			return text
		}
	}

	if content, ok := doc.Find("meta[name='description']").Attr("content"); ok {
		if desc := textutil.CollapseWhitespace(content); len(desc) > 20 {
			return desc
		}
	}

	var fallback string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := cleanSelection(p)
		if len(text) >= 50 && len(text) <= 200 {
			fallback = text
			return false
		}
		return true
	})
	return fallback
}

func extractLocation(pageText string) string {
	for _, m := range locationRegex.FindAllString(pageText, -1) {
		location := textutil.CollapseWhitespace(m)
		if location != "" && len(location) < 50 {
			return location
		}
	}
	return ""
}

func extractServices(pageText string) []Service {
	var services []Service
	for _, m := range serviceRegex.FindAllStringSubmatch(pageText, -1) {
		name := textutil.CollapseWhitespace(m[1])
		if len(name) <= 5 || len(name) >= 50 {
			continue
		}
		percentage, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		services = append(services, Service{Name: name, Percentage: percentage})
		if len(services) == 10 {
			break
		}
	}
	return services
}

func extractContact(pageText string, anchors []htmlutil.Anchor) Contact {
	contact := Contact{
		Email: emailRegex.FindString(pageText),
		Phone: phoneRegex.FindString(pageText),
	}

	for _, anchor := range anchors {
		if !strings.HasPrefix(anchor.Href, "http://") && !strings.HasPrefix(anchor.Href, "https://") {
			continue
		}
		if strings.Contains(anchor.Href, "clutch.co") {
			continue
		}
		name := strings.ToLower(anchor.Name)
		if strings.Contains(name, "visit") || strings.Contains(name, "website") {
			contact.Website = anchor.Href
			break
		}
	}
	return contact
}

func extractSocial(anchors []htmlutil.Anchor) Social {
	var social Social
	for _, anchor := range anchors {
		href := anchor.Href
		switch {
		case social.LinkedIn == "" && strings.Contains(href, "linkedin.com"):
			social.LinkedIn = href
		case social.Facebook == "" && strings.Contains(href, "facebook.com"):
			social.Facebook = href
		case social.Twitter == "" && (strings.Contains(href, "twitter.com") || strings.Contains(href, "x.com")):
			social.Twitter = href
		case social.Instagram == "" && strings.Contains(href, "instagram.com"):
			social.Instagram = href
		}
	}
	return social
}
