// Package ftd selects and parses SEC fails-to-deliver data files.
// Downloading is left to the caller; this package only knows which
// files cover a reporting period and how to read them.
package ftd

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod reports a year/half combination outside the published
// file range.
var ErrInvalidPeriod = errors.New("invalid reporting period")

const baseURL = "https://www.sec.gov/files/data/fails-deliver-data"

// FileURLs returns the download URLs covering one half-year of fails data.
// Zero year or half default to the period containing now. Files exist from
// 2009 onward; the second half of the current year is published after June.
// Years 2010+ ship as a single a/b archive, 2009 as six monthly archives.
func FileURLs(year, half int, now time.Time) ([]string, error) {
	currentYear := now.Year()
	currentMonth := int(now.Month())

	if year == 0 {
		year = currentYear
	}
	if half == 0 {
		if currentMonth <= 6 {
			half = 1
		} else {
			half = 2
		}
	}

	if year < 2009 || year > currentYear {
		return nil, fmt.Errorf("%w: year must be between 2009 and %d", ErrInvalidPeriod, currentYear)
	}
	if half != 1 && half != 2 {
		return nil, fmt.Errorf("%w: half must be 1 or 2", ErrInvalidPeriod)
	}
	if year == currentYear && half == 2 && currentMonth <= 6 {
		return nil, fmt.Errorf("%w: second half of %d is not yet available", ErrInvalidPeriod, year)
	}

	if year >= 2010 {
		suffix := "a"
		if half == 2 {
			suffix = "b"
		}
		return []string{fmt.Sprintf("%s/cnsfails%d%s.zip", baseURL, year, suffix)}, nil
	}

	// 2009 was published as monthly archives
	var urls []string
	start, end := 1, 6
	if half == 2 {
		start, end = 7, 12
	}
	for month := start; month <= end; month++ {
		urls = append(urls, fmt.Sprintf("%s/cnsfails%d%02d.zip", baseURL, year, month))
	}
	return urls, nil
}
