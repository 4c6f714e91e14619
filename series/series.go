// Package series turns filtered ledger records into a gap free weekly sales series.
package series

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-sales-forecaster/ledger"
	"github.com/aouyang1/go-sales-forecaster/timedataset"
)

const Week = 7 * 24 * time.Hour

var ErrEmptyResult = errors.New("no records match the filter criteria")

type observation struct {
	date  time.Time
	sales float64
}

// Build filters the records by year range and category, averages sales into weekly buckets
// labelled by the week-ending Sunday and forward fills weeks without sales.
func Build(records []ledger.Record, c Criteria) (*timedataset.TimeDataset, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	obs, err := filter(records, c)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("category %q in %d-%d, %w", c.Category, c.StartYear, c.EndYear, ErrEmptyResult)
	}

	t, y := resample(obs)
	if err := ForwardFill(y); err != nil {
		return nil, err
	}
	return timedataset.NewUnivariateDataset(t, y)
}

// filter parses dates, applies the criteria and prunes every column except date and sales.
// Sales are only parsed for matching records.
func filter(records []ledger.Record, c Criteria) ([]observation, error) {
	obs := make([]observation, 0, len(records))
	for i, rec := range records {
		rawDate, err := rec.Get(ledger.ColumnOrderDate)
		if err != nil {
			return nil, fmt.Errorf("record %d, %w", i, err)
		}
		date, err := ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("record %d, %w", i, err)
		}
		category, err := rec.Get(ledger.ColumnCategory)
		if err != nil {
			return nil, fmt.Errorf("record %d, %w", i, err)
		}
		if !c.matches(date.Year(), category) {
			continue
		}

		pruned := rec.Select(ledger.ColumnSales)
		rawSales, err := pruned.Get(ledger.ColumnSales)
		if err != nil {
			return nil, fmt.Errorf("record %d, %w", i, err)
		}
		sales, err := ParseSales(rawSales)
		if err != nil {
			return nil, fmt.Errorf("record %d, %w", i, err)
		}
		obs = append(obs, observation{date: date, sales: sales})
	}
	return obs, nil
}

// WeekEnding returns the Sunday closing the Monday to Sunday week containing t
func WeekEnding(t time.Time) time.Time {
	day := truncateDay(t)
	daysToSunday := (7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, daysToSunday)
}

// resample averages observations into contiguous weekly buckets from the first to the last
// observed week. Weeks without observations hold NaN.
func resample(obs []observation) ([]time.Time, []float64) {
	if len(obs) == 0 {
		return nil, nil
	}

	first := WeekEnding(obs[0].date)
	last := first
	for _, o := range obs {
		w := WeekEnding(o.date)
		if w.Before(first) {
			first = w
		}
		if w.After(last) {
			last = w
		}
	}

	n := int(last.Sub(first)/Week) + 1
	sums := make([]float64, n)
	counts := make([]int, n)
	for _, o := range obs {
		idx := int(WeekEnding(o.date).Sub(first) / Week)
		sums[idx] += o.sales
		counts[idx]++
	}

	t := make([]time.Time, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		t[i] = first.AddDate(0, 0, 7*i)
		if counts[i] == 0 {
			y[i] = math.NaN()
			continue
		}
		y[i] = sums[i] / float64(counts[i])
	}
	return t, y
}

// ForwardFill replaces every NaN with the closest preceding value in place. The first value
// must be present.
func ForwardFill(y []float64) error {
	if len(y) == 0 {
		return nil
	}
	if math.IsNaN(y[0]) {
		return fmt.Errorf("first bucket has no value to carry forward, %w", timedataset.ErrInsufficientData)
	}
	for i := 1; i < len(y); i++ {
		if math.IsNaN(y[i]) {
			y[i] = y[i-1]
		}
	}
	return nil
}
