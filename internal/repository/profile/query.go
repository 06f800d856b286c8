package profile

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/search"
)

const profileColumns = `
            p.id,
            p.profile_type,
            p.name,
            p.bio,
            p.location,
            p.latitude,
            p.longitude,
            p.rating,
            p.hourly_rate,
            p.years_experience,
            p.specialty_ids,
            p.service_names,
            p.amenity_names,
            p.is_active,
            p.is_verified,
            p.has_portfolio,
            p.accepts_new_clients,
            p.is_available,
            p.created_at`

// queryBuilder renders a plan to SQL. Filter params come first so the count
// query can reuse them; select and order params are appended after.
type queryBuilder struct {
	filters    []string
	params     []interface{}
	paramIndex int
}

func newQueryBuilder(plan *search.Plan) *queryBuilder {
	qb := &queryBuilder{
		filters: make([]string, 0, len(plan.Predicates)),
		params:  make([]interface{}, 0),
	}
	for _, pred := range plan.Predicates {
		qb.addPredicate(pred)
	}
	return qb
}

// Get the next parameter index
func (qb *queryBuilder) nextParamIndex() int {
	qb.paramIndex++
	return qb.paramIndex
}

// bind appends a parameter and returns its placeholder
func (qb *queryBuilder) bind(value interface{}) string {
	qb.params = append(qb.params, value)
	return fmt.Sprintf("$%d", qb.nextParamIndex())
}

// Add a filter with a parameter
func (qb *queryBuilder) addFilter(clause string, value interface{}) {
	qb.filters = append(qb.filters, fmt.Sprintf(clause, qb.bind(value)))
}

// Add a filter without parameter placeholders
func (qb *queryBuilder) addPlainFilter(clause string) {
	qb.filters = append(qb.filters, clause)
}

func (qb *queryBuilder) addPredicate(pred search.Predicate) {
	switch p := pred.(type) {
	case search.TextMatch:
		pattern := qb.bind(likePattern(p.Term))
		qb.addPlainFilter(fmt.Sprintf(`(p.name ILIKE %[1]s OR p.bio ILIKE %[1]s OR p.location ILIKE %[1]s
            OR EXISTS (SELECT 1 FROM specialties s WHERE s.id = ANY(p.specialty_ids) AND s.name ILIKE %[1]s)
            OR EXISTS (SELECT 1 FROM unnest(p.service_names) AS sn(name) WHERE sn.name ILIKE %[1]s))`, pattern))

	case search.ProfileTypeIs:
		qb.addFilter("p.profile_type = %s", string(p.Type))

	case search.LocationContains:
		qb.addFilter("p.location ILIKE %s", likePattern(p.Term))

	case search.SetMatch:
		op := "&&"
		if p.Operator == filter.OperatorAnd {
			op = "@>"
		}
		qb.addFilter(fmt.Sprintf("p.%s %s %%s", setColumn(p.Field), op), pq.Array(p.Values))

	case search.MinRating:
		qb.addFilter("p.rating >= %s", p.Value)

	case search.RangeMatch:
		col := "p." + string(p.Field)
		lower, upper := rangeBounds(p)
		bounds := []string{fmt.Sprintf("%s >= %s", col, qb.bind(lower))}
		if p.Max != nil {
			bounds = append(bounds, fmt.Sprintf("%s <= %s", col, qb.bind(upper)))
		}
		clause := strings.Join(bounds, " AND ")
		if p.IncludeNull {
			clause = fmt.Sprintf("(%s IS NULL OR (%s))", col, clause)
		} else {
			clause = "(" + clause + ")"
		}
		qb.addPlainFilter(clause)

	case search.WithinDistance:
		distance := qb.distanceExpr(p.Origin.Lat, p.Origin.Lng)
		qb.addPlainFilter(fmt.Sprintf("(p.latitude IS NOT NULL AND p.longitude IS NOT NULL AND %s <= %s)", distance, qb.bind(p.Km)))

	case search.HasCoordinate:
		qb.addPlainFilter("(p.latitude IS NOT NULL AND p.longitude IS NOT NULL)")

	case search.AvailabilityIs:
		qb.addFilter("p.is_available = %s", p.Available)

	case search.WorkingHoursMatch:
		clauses := []string{"wh.profile_id = p.id"}
		if len(p.Days) > 0 {
			clauses = append(clauses, fmt.Sprintf("wh.weekday = ANY(%s)", qb.bind(pq.Array(weekdayInts(p.Days)))))
		}
		clauses = append(clauses,
			fmt.Sprintf("wh.opens_at < %s", qb.bind(p.ToMinute)),
			fmt.Sprintf("wh.closes_at > %s", qb.bind(p.FromMinute)),
		)
		qb.addPlainFilter(fmt.Sprintf("EXISTS (SELECT 1 FROM profile_working_hours wh WHERE %s)", strings.Join(clauses, " AND ")))

	case search.FlagIs:
		qb.addPlainFilter(fmt.Sprintf("p.%s = TRUE", p.Field))
	}
}

// distanceExpr is the haversine distance in km from (lat, lng) to the profile
// rangeBounds returns the values bound for a range. years_experience is an
// INTEGER column, so its bounds are rounded inward to whole years.
func rangeBounds(m search.RangeMatch) (lower, upper interface{}) {
	if m.Field != search.FieldYearsExperience {
		if m.Max != nil {
			return m.Min, *m.Max
		}
		return m.Min, nil
	}
	lower = int64(math.Ceil(m.Min))
	if m.Max != nil {
		upper = int64(math.Floor(*m.Max))
	}
	return lower, upper
}

func (qb *queryBuilder) distanceExpr(lat, lng float64) string {
	latParam, lngParam := qb.bind(lat), qb.bind(lng)
	return fmt.Sprintf(`(2 * %[3]g * asin(sqrt(LEAST(1, power(sin(radians(p.latitude - %[1]s) / 2), 2)
            + cos(radians(%[1]s)) * cos(radians(p.latitude)) * power(sin(radians(p.longitude - %[2]s) / 2), 2)))))`,
		latParam, lngParam, search.EarthRadiusKm)
}

func (qb *queryBuilder) where() string {
	if len(qb.filters) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(qb.filters, " AND ")
}

// Build a query to count total results
func (qb *queryBuilder) buildCountQuery() (string, []interface{}) {
	return "SELECT COUNT(*) FROM profiles p" + qb.where(), qb.params
}

// Build the page query. Select and order params follow the filter params.
func (qb *queryBuilder) buildQuery(plan *search.Plan) (string, []interface{}) {
	where := qb.where()

	columns := profileColumns
	if plan.Origin != nil {
		columns += ",\n            " + qb.distanceExpr(plan.Origin.Lat, plan.Origin.Lng) + " AS distance"
	} else {
		columns += ",\n            NULL::double precision AS distance"
	}

	order := make([]string, 0, len(plan.Sort))
	for _, key := range plan.Sort {
		order = append(order, qb.orderTerm(key))
	}

	query := "SELECT" + columns + "\n        FROM profiles p" + where
	if len(order) > 0 {
		query += " ORDER BY " + strings.Join(order, ", ")
	}
	if plan.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", plan.Limit, plan.Offset)
	}
	return query, qb.params
}

func (qb *queryBuilder) orderTerm(key search.SortKey) string {
	dir := "ASC"
	if key.Desc {
		dir = "DESC"
	}

	var expr string
	switch key.Field {
	case search.SortNameMatch:
		expr = fmt.Sprintf("(p.name ILIKE %s)", qb.bind(likePattern(key.Term)))
	case search.SortDistance:
		expr = "distance"
	default:
		expr = "p." + string(key.Field)
	}
	return fmt.Sprintf("%s %s NULLS LAST", expr, dir)
}

func setColumn(field search.SetField) string {
	switch field {
	case search.SetServices:
		return "service_names"
	case search.SetAmenities:
		return "amenity_names"
	default:
		return "specialty_ids"
	}
}

// likePattern wraps term for a substring ILIKE, escaping wildcards
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func weekdayInts(days []time.Weekday) []int64 {
	out := make([]int64, len(days))
	for i, d := range days {
		out[i] = int64(d)
	}
	return out
}
