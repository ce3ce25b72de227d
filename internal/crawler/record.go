package crawler

import (
	"slices"
	"strconv"
	"strings"
)

// Dataset column names
const (
	ColumnID           = "job_id"
	ColumnTitle        = "title"
	ColumnCity         = "city"
	ColumnCompany      = "company"
	ColumnContractType = "contract_type"
	ColumnMinSalary    = "min_salary"
	ColumnMaxSalary    = "max_salary"
	ColumnFrequency    = "frequency"
	ColumnRating       = "rating"
	ColumnDateScraped  = "date_scraped"
	ColumnDateAdded    = "date_added"
	ColumnURL          = "job_url"

	defaultCategory = "technical"

	dateAddedLayout   = "2006-01-02 15:04:05"
	dateScrapedLayout = "2006-01-02 15:04:05.000000"
)

// CanonicalColumns is the column order of a dataset with no records
var CanonicalColumns = []string{
	ColumnID,
	ColumnTitle,
	ColumnCity,
	ColumnCompany,
	ColumnContractType,
	ColumnMinSalary,
	ColumnMaxSalary,
	ColumnFrequency,
	ColumnRating,
	KeywordsColumn(defaultCategory),
	MasteredColumn(defaultCategory),
	ColumnDateScraped,
	ColumnDateAdded,
	ColumnURL,
}

// KeywordsColumn names the matched-keywords column of a category
func KeywordsColumn(category string) string {
	return category + " keywords"
}

// MasteredColumn names the mastered-count column of a category
func MasteredColumn(category string) string {
	return category + " keywords mastered count"
}

// categories returns the keyword categories of the record in column order
func (r ListingRecord) categories() []string {
	if r.Keywords == nil {
		return []string{defaultCategory}
	}
	names := make([]string, 0, len(r.Keywords))
	for name := range r.Keywords {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Columns returns the column names of the record in table order
func (r ListingRecord) Columns() []string {
	columns := slices.Clone(CanonicalColumns[:9])
	for _, category := range r.categories() {
		columns = append(columns, KeywordsColumn(category), MasteredColumn(category))
	}
	return append(columns, ColumnDateScraped, ColumnDateAdded, ColumnURL)
}

// Row flattens the record into column values; absent values are empty
func (r ListingRecord) Row() map[string]string {
	row := map[string]string{
		ColumnID:           r.ID,
		ColumnTitle:        r.Title,
		ColumnCity:         r.City,
		ColumnCompany:      r.Company,
		ColumnContractType: string(r.ContractType),
		ColumnMinSalary:    formatInt(r.SalaryMin),
		ColumnMaxSalary:    formatInt(r.SalaryMax),
		ColumnFrequency:    string(r.Frequency),
		ColumnRating:       "",
		ColumnDateScraped:  "",
		ColumnDateAdded:    "",
		ColumnURL:          r.URL,
	}
	if r.Rating != nil {
		row[ColumnRating] = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
	}
	if !r.ScrapedAt.IsZero() {
		row[ColumnDateScraped] = r.ScrapedAt.UTC().Format(dateScrapedLayout)
	}
	if r.PostedAt != nil {
		row[ColumnDateAdded] = r.PostedAt.UTC().Format(dateAddedLayout)
	}

	for _, category := range r.categories() {
		match, ok := r.Keywords[category]
		if !ok {
			row[KeywordsColumn(category)] = ""
			row[MasteredColumn(category)] = ""
			continue
		}
		row[KeywordsColumn(category)] = strings.Join(match.Matched, ", ")
		row[MasteredColumn(category)] = strconv.Itoa(match.MasteredCount)
	}
	return row
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
