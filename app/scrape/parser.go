package scrape

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
	"github.com/lysyi3m/gradcafe-comb/app/clean"
)

var (
	seasonExpr  = regexp.MustCompile(`(?i)\b(fall|spring|summer|winter)\s*(\d{4})\b`)
	gpaExpr     = regexp.MustCompile(`(?i)\bGPA\s*:?\s*(\d+(?:\.\d+)?)`)
	writingExpr = regexp.MustCompile(`(?i)(?:\bAW\b|analytical)\s*:?\s*(\d+(?:\.\d+)?)`)
	greExpr     = regexp.MustCompile(`(?i)\bGRE\s*(V|Q)\w*\s*:?\s*(\d+)`)
)

// ParsePage extracts listing entries from one survey page. Each entry is a
// main row followed by zero or more continuation rows (class
// tw-border-none) carrying tags and comments. Links are resolved against base.
func ParsePage(r io.Reader, base *url.URL) ([]applicant.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	rows := doc.Find("tbody").First().ChildrenFiltered("tr")
	var records []applicant.RawRecord

	for i := 0; i < rows.Length(); {
		row := rows.Eq(i)
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 4 {
			i++
			continue
		}

		record := parseMainRow(row, cells, base)
		j := i + 1
		for ; j < rows.Length() && rows.Eq(j).HasClass("tw-border-none"); j++ {
			parseDetailRow(rows.Eq(j), &record)
		}
		records = append(records, record)
		i = j
	}

	return records, nil
}

func parseMainRow(row, cells *goquery.Selection, base *url.URL) applicant.RawRecord {
	var record applicant.RawRecord

	university := squash(cells.Eq(0).Find("div.tw-font-medium").First().Text())
	if university == "" {
		university = squash(cells.Eq(0).Text())
	}

	var program string
	spans := cells.Eq(1).Find("span")
	if spans.Length() > 0 {
		program = squash(spans.First().Text())
		record.DegreeText = squash(spans.Filter(".tw-text-gray-500").Last().Text())
	} else {
		program = squash(cells.Eq(1).Text())
	}
	record.ProgramText = clean.JoinProgram(program, university)

	record.DateText = squash(cells.Eq(2).Text())

	record.StatusText = squash(cells.Eq(3).Find("div.tw-inline-flex").First().Text())
	if record.StatusText == "" {
		record.StatusText = squash(cells.Eq(3).Text())
	}

	if href, ok := row.Find(`a[href*="/result/"]`).First().Attr("href"); ok {
		if link := resolve(base, href); link != "" {
			record.EntryLink = link
			record.EntryURL = link
		}
	}

	return record
}

func parseDetailRow(row *goquery.Selection, record *applicant.RawRecord) {
	row.Find("div.tw-inline-flex").Each(func(_ int, tag *goquery.Selection) {
		text := squash(tag.Text())
		if text == "" {
			return
		}

		switch {
		case seasonExpr.MatchString(text):
			record.TermText = text
		case strings.Contains(text, "International"):
			record.NationalityText = "International"
		case strings.Contains(text, "American"):
			record.NationalityText = "American"
		case gpaExpr.MatchString(text):
			record.GPAText = gpaExpr.FindStringSubmatch(text)[1]
		case writingExpr.MatchString(text):
			record.GREAWText = writingExpr.FindStringSubmatch(text)[1]
		case greExpr.MatchString(text):
			m := greExpr.FindStringSubmatch(text)
			if strings.EqualFold(m[1], "V") {
				record.GREVerbalText = m[2]
			} else {
				record.GREQuantText = m[2]
			}
		}
	})

	if comment := row.Find("p.tw-text-gray-500").First(); comment.Length() > 0 {
		if html, err := comment.Html(); err == nil && len(strings.TrimSpace(html)) > 1 {
			record.CommentsText = html
		}
	}
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
