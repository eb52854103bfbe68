package daterange

import (
	"net/url"
	"strconv"

	"github.com/salesboard-dev/salesboard/internal/model"
)

// Query parameter names understood by the transactions endpoint.
const (
	ParamYear  = "transaction_date__year"
	ParamMonth = "transaction_date__month"
	ParamDay   = "transaction_date__day"
	ParamGTE   = "transaction_date__gte"
	ParamLT    = "transaction_date__lt"
)

// ISODate is the layout used for every date sent to the API.
const ISODate = "2006-01-02"

// DayQuery matches transactions on the calendar day of r.Start.
func DayQuery(r model.DateRange) url.Values {
	y, m, d := r.Start.Date()
	return url.Values{
		ParamYear:  {strconv.Itoa(y)},
		ParamMonth: {strconv.Itoa(int(m))},
		ParamDay:   {strconv.Itoa(d)},
	}
}

// MonthQuery matches transactions in the calendar month of r.Start.
func MonthQuery(r model.DateRange) url.Values {
	y, m, _ := r.Start.Date()
	return url.Values{
		ParamYear:  {strconv.Itoa(y)},
		ParamMonth: {strconv.Itoa(int(m))},
	}
}

// RangeQuery matches transactions from r.Start through r.End inclusive. The
// API bound is exclusive, so one day is added to the end date.
func RangeQuery(r model.DateRange) url.Values {
	return url.Values{
		ParamGTE: {r.Start.Format(ISODate)},
		ParamLT:  {r.End.AddDate(0, 0, 1).Format(ISODate)},
	}
}

// Describe formats a range for display.
func Describe(r model.DateRange) string {
	start, end := r.Start.Format(ISODate), r.End.Format(ISODate)
	if start == end {
		return start
	}
	return start + " to " + end
}
