package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReleaseDateLayout is the only accepted wire format for release dates.
const ReleaseDateLayout = "2006-01-02"

type (
	// ModelRecord is one language-model release entry.
	ModelRecord struct {
		Model        string
		Organization string
		ReleaseDate  time.Time
	}

	// YearMonth identifies a calendar month.
	YearMonth struct {
		Year  int
		Month time.Month
	}

	// MonthlyBucket aggregates the records released in one calendar month.
	MonthlyBucket struct {
		Month   YearMonth
		Count   int
		Records []ModelRecord
	}

	// OrganizationGroup aggregates the records of one organization.
	// Organizations are matched by exact string: "OpenAI" and "Open AI"
	// are two distinct groups.
	OrganizationGroup struct {
		Organization string
		Records      []ModelRecord
	}
)

var (
	ErrEmptyModel        = errors.New("empty model name")
	ErrEmptyOrganization = errors.New("empty organization")
	ErrInvalidDate       = errors.New("invalid release date")
)

func (r ModelRecord) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return ErrEmptyModel
	}
	if strings.TrimSpace(r.Organization) == "" {
		return ErrEmptyOrganization
	}
	if r.ReleaseDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Month returns the calendar month the record was released in.
func (r ModelRecord) Month() YearMonth {
	return YearMonthOf(r.ReleaseDate)
}

// YearMonthOf truncates a date to its calendar month.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses a "YYYY-MM" key as produced by String.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("parse year-month %q: %w", s, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// String renders the month as "YYYY-MM".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Before reports whether ym is chronologically before other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Next returns the following calendar month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}
