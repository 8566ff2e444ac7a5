package listview

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"sosflow/report"
)

// SortField selects which record column orders the admin listing.
type SortField string

const (
	SortName      SortField = "name"
	SortTelephone SortField = "telephone"
	SortApproved  SortField = "approved"
	SortCreatedAt SortField = "createdAt"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Projection is the admin list view parameters: a removal-state toggle, a
// case-insensitive name search, and one sortable column. Applying it never
// mutates the underlying record set.
type Projection struct {
	Query       string
	ShowRemoved bool
	SortField   SortField
	SortOrder   SortOrder
}

// New returns the default projection: live records, sorted by name ascending.
func New() Projection {
	return Projection{SortField: SortName, SortOrder: Ascending}
}

// Toggle selects a sort column. Re-selecting the active column flips the
// direction; a new column resets to ascending.
func (p Projection) Toggle(field SortField) Projection {
	if p.SortField == field && p.SortOrder == Ascending {
		p.SortOrder = Descending
	} else {
		p.SortOrder = Ascending
	}
	p.SortField = field
	return p
}

// Apply filters and orders records for display. String columns use
// locale-aware collation for the given language; createdAt compares
// timestamps and approved orders false before true when ascending.
func (p Projection) Apply(records []report.Record, lang language.Tag) []report.Record {
	query := strings.ToLower(p.Query)

	out := make([]report.Record, 0, len(records))
	for _, rec := range records {
		if rec.IsRemoved != p.ShowRemoved {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(rec.Name), query) {
			continue
		}
		out = append(out, rec)
	}

	col := collate.New(lang)
	less := p.lessFunc(col)
	sort.SliceStable(out, func(i, j int) bool {
		if p.SortOrder == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func (p Projection) lessFunc(col *collate.Collator) func(a, b report.Record) bool {
	switch p.SortField {
	case SortCreatedAt:
		return func(a, b report.Record) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortApproved:
		return func(a, b report.Record) bool { return !a.Approved && b.Approved }
	case SortTelephone:
		return func(a, b report.Record) bool { return col.CompareString(a.Telephone, b.Telephone) < 0 }
	case SortName:
		fallthrough
	default:
		return func(a, b report.Record) bool { return col.CompareString(a.Name, b.Name) < 0 }
	}
}
