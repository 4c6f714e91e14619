package series

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// Holidays are the US holidays annotated on weekly sales buckets
var Holidays = []*cal.Holiday{
	us.NewYear,
	us.MemorialDay,
	us.IndependenceDay,
	us.LaborDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// Annotation lists the holidays observed inside the week ending at T
type Annotation struct {
	T        time.Time `json:"time"`
	Holidays []string  `json:"holidays"`
}

// Annotate returns an annotation for every week ending in t that contains an observed
// holiday. t is expected to hold week-ending Sundays.
func Annotate(t []time.Time) []Annotation {
	if len(t) == 0 {
		return nil
	}

	byWeek := make(map[time.Time][]string)
	for year := t[0].Year() - 1; year <= t[len(t)-1].Year()+1; year++ {
		for _, hol := range Holidays {
			_, observed := hol.Calc(year)
			if observed.IsZero() {
				continue
			}
			week := WeekEnding(observed)
			byWeek[week] = append(byWeek[week], hol.Name)
		}
	}

	var annotations []Annotation
	for _, week := range t {
		if names, exists := byWeek[week]; exists {
			annotations = append(annotations, Annotation{T: week, Holidays: names})
		}
	}
	return annotations
}
