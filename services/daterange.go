package services

import (
	"time"

	"github.com/vnkhanh/questions-server/utils"
	"gorm.io/gorm"
)

// DateRange bounds a query on a timestamp column. Start is inclusive. End is
// inclusive unless EndExclusive is set.
type DateRange struct {
	Start        *time.Time
	End          *time.Time
	EndExclusive bool
}

func (r DateRange) apply(db *gorm.DB, column string) *gorm.DB {
	if r.Start != nil {
		db = db.Where(column+" >= ?", r.Start.UTC())
	}
	if r.End != nil {
		if r.EndExclusive {
			db = db.Where(column+" < ?", r.End.UTC())
		} else {
			db = db.Where(column+" <= ?", r.End.UTC())
		}
	}
	return db
}

// ParseTimestampRange reads optional ISO 8601 start_date and end_date values.
func ParseTimestampRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, err := utils.ParseISO8601(start)
		if err != nil {
			return r, invalid(ReasonInvalidField).field("start_date").wrap(err)
		}
		r.Start = &t
	}
	if end != "" {
		t, err := utils.ParseISO8601(end)
		if err != nil {
			return r, invalid(ReasonInvalidField).field("end_date").wrap(err)
		}
		r.End = &t
	}
	return r, nil
}

// ParseCalendarRange reads optional YYYY-MM-DD dates. The end date is
// included in full, so the range stops before the following midnight UTC.
func ParseCalendarRange(start, end string) (DateRange, error) {
	r := DateRange{EndExclusive: true}
	if start != "" {
		d, err := utils.ParseDate(start)
		if err != nil {
			return r, invalid(ReasonInvalidField).field("start_date").wrap(err)
		}
		r.Start = &d
	}
	if end != "" {
		d, err := utils.ParseDate(end)
		if err != nil {
			return r, invalid(ReasonInvalidField).field("end_date").wrap(err)
		}
		next := d.AddDate(0, 0, 1)
		r.End = &next
	}
	return r, nil
}
