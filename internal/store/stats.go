package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/rotisserie/eris"

	"github.com/pdiddy/hoax-insight/pkg/types"
)

// Count is one group in a Stats breakdown.
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Stats summarises the articles matching a query.
type Stats struct {
	Total        int `json:"total" yaml:"total"`
	WithDate     int `json:"with_date" yaml:"with_date"`
	WithLocation int `json:"with_location" yaml:"with_location"`

	// UniqueSources counts distinct non-empty source URLs.
	UniqueSources   int `json:"unique_sources" yaml:"unique_sources"`
	TotalReferences int `json:"total_references" yaml:"total_references"`

	// AvgPerDay is the mean number of dated articles per distinct relevant
	// date. Zero when no article has one.
	AvgPerDay float64 `json:"avg_per_day" yaml:"avg_per_day"`

	// Earliest and Latest bound the relevant dates. Empty when no article
	// has one.
	Earliest string `json:"earliest,omitempty" yaml:"earliest,omitempty"`
	Latest   string `json:"latest,omitempty" yaml:"latest,omitempty"`

	ByProvince       []Count `json:"by_province" yaml:"by_province"`
	ByMonth          []Count `json:"by_month" yaml:"by_month"`
	ByClassification []Count `json:"by_classification" yaml:"by_classification"`
	ByCategory       []Count `json:"by_category" yaml:"by_category"`

	// ByTruthCategory groups by types.Article.TruthCategory.
	ByTruthCategory []Count `json:"by_truth_category" yaml:"by_truth_category"`

	// Completeness counts, per field, the articles where it is non-empty.
	Completeness []Count `json:"completeness" yaml:"completeness"`
}

// completenessFields lists the columns reported by Stats.Completeness with
// the stored value that means empty.
var completenessFields = []struct {
	column string
	empty  string
}{
	{"title", ""},
	{"description", ""},
	{"content", ""},
	{"author", ""},
	{"source_url", ""},
	{"published_at", ""},
	{"categories", "[]"},
	{"classifications", "[]"},
	{"refs", "[]"},
	{"relevant_date", ""},
	{"relevant_location", ""},
	{"relevant_province", ""},
}

// truthCategoryExpr mirrors types.Article.TruthCategory over the JSON list
// columns.
const truthCategoryExpr = "COALESCE(json_extract(a.classifications, '$[0]'), " +
	"json_extract(a.categories, '$[0]'), '" + types.UnknownTruthCategory + "')"

// Stats computes totals and group counts for the articles matching opts.
// MaxResults is ignored. Province and label groups are ordered by count,
// months chronologically, completeness by field.
func (s *Store) Stats(ctx context.Context, opts QueryOptions) (Stats, error) {
	var st Stats

	var days int
	query, args, err := filtered(sq.Select(
		"COUNT(*)",
		"COUNT(a.relevant_date)",
		"COUNT(a.relevant_location)",
		"COALESCE(MIN(a.relevant_date), '')",
		"COALESCE(MAX(a.relevant_date), '')",
		"COUNT(DISTINCT NULLIF(a.source_url, ''))",
		"COALESCE(SUM(json_array_length(a.refs)), 0)",
		"COUNT(DISTINCT a.relevant_date)",
	), opts).ToSql()
	if err != nil {
		return st, eris.Wrap(err, "store: building totals query")
	}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&st.Total, &st.WithDate, &st.WithLocation, &st.Earliest, &st.Latest,
		&st.UniqueSources, &st.TotalReferences, &days,
	); err != nil {
		return st, eris.Wrap(err, "store: querying totals")
	}
	if days > 0 {
		st.AvgPerDay = float64(st.WithDate) / float64(days)
	}

	province := filtered(sq.Select("a.relevant_province AS k", "COUNT(*) AS n"), opts).
		Where(sq.NotEq{"a.relevant_province": nil}).
		GroupBy("k").
		OrderBy("n DESC", "k")
	if st.ByProvince, err = s.counts(ctx, province); err != nil {
		return st, eris.Wrap(err, "store: counting by province")
	}

	month := filtered(sq.Select("substr(a.relevant_date, 1, 7) AS k", "COUNT(*) AS n"), opts).
		Where(sq.NotEq{"a.relevant_date": nil}).
		GroupBy("k").
		OrderBy("k")
	if st.ByMonth, err = s.counts(ctx, month); err != nil {
		return st, eris.Wrap(err, "store: counting by month")
	}

	if st.ByClassification, err = s.counts(ctx, listCounts("classifications", opts)); err != nil {
		return st, eris.Wrap(err, "store: counting by classification")
	}
	if st.ByCategory, err = s.counts(ctx, listCounts("categories", opts)); err != nil {
		return st, eris.Wrap(err, "store: counting by category")
	}

	truth := filtered(sq.Select(truthCategoryExpr+" AS k", "COUNT(*) AS n"), opts).
		GroupBy("k").
		OrderBy("n DESC", "k")
	if st.ByTruthCategory, err = s.counts(ctx, truth); err != nil {
		return st, eris.Wrap(err, "store: counting by truth category")
	}

	if st.Completeness, err = s.completeness(ctx, opts); err != nil {
		return st, eris.Wrap(err, "store: counting completeness")
	}

	return st, nil
}

func (s *Store) completeness(ctx context.Context, opts QueryOptions) ([]Count, error) {
	cols := make([]string, len(completenessFields))
	for i, f := range completenessFields {
		cols[i] = fmt.Sprintf("COUNT(NULLIF(a.%s, '%s'))", f.column, f.empty)
	}
	query, args, err := filtered(sq.Select(cols...), opts).ToSql()
	if err != nil {
		return nil, err
	}

	out := make([]Count, len(completenessFields))
	dest := make([]any, len(out))
	for i, f := range completenessFields {
		out[i].Key = f.column
		dest[i] = &out[i].Count
	}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		return nil, err
	}
	return out, nil
}

// listCounts groups the matching articles by the members of a JSON list
// column.
func listCounts(column string, opts QueryOptions) sq.SelectBuilder {
	base := filtered(sq.Select("a."+column+" AS list"), opts)
	return sq.Select("j.value AS k", "COUNT(*) AS n").
		FromSelect(base, "f").
		CrossJoin("json_each(f.list) j").
		GroupBy("k").
		OrderBy("n DESC", "k")
}

func (s *Store) counts(ctx context.Context, b sq.SelectBuilder) ([]Count, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
