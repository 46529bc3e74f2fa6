package repository

const (
	// DefaultLimit is the number of records returned when a query sets no limit.
	DefaultLimit = 10
	maxLimit     = 100

	StatusField QueryField = "status"
)

// Query narrows a scan over a collection.
type Query struct {
	Values map[QueryField]string

	Limit int
}

type QueryField string

func NewQuery() *Query {
	return &Query{
		Values: map[QueryField]string{},
	}
}

func (q *Query) With(field QueryField, val string) *Query {
	q.Values[field] = val
	return q
}

// EffectiveLimit clamps the query limit into [1, 100], falling back to DefaultLimit.
func (q Query) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return min(maxLimit, q.Limit)
}
