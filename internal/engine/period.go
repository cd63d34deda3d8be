package engine

import (
	"time"

	"github.com/ternarybob/colligo/internal/models"
)

// PeriodFor returns the business year and report kind of the most recent
// financial disclosure assumed available at the given date. The boundaries
// encode the statutory filing deadlines of the disclosure regime:
//
//	Jan 1  – Mar 31:  prior-year Q3 interim (the annual report is not due yet)
//	Apr 1  – May 15:  prior-year annual
//	May 16 – Aug 14:  current-year Q1 interim
//	Aug 15 – Nov 14:  current-year H1 interim
//	Nov 15 – Dec 31:  current-year Q3 interim
func PeriodFor(date time.Time) (int, models.ReportKind) {
	year := date.Year()
	month := int(date.Month())
	day := date.Day()

	switch {
	case month < 4:
		return year - 1, models.ReportQ3
	case month < 5 || (month == 5 && day < 16):
		return year - 1, models.ReportFY
	case month < 8 || (month == 8 && day < 15):
		return year, models.ReportQ1
	case month < 11 || (month == 11 && day < 15):
		return year, models.ReportH1
	default:
		return year, models.ReportQ3
	}
}
