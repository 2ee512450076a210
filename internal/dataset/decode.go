package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hirelens/hirelens/pkg/types"
)

// Field labels of the input vocabulary.
const (
	FieldApplicant        = "Applicant"
	FieldJobTitle         = "Job Title"
	FieldJobOwner         = "Job Owner"
	FieldApplicationDate  = "Application Date"
	FieldViewedBy         = "Viewed By"
	FieldInterviewDate    = "Interview Date"
	FieldOfferDate        = "Offer Date"
	FieldHireDate         = "Hire Date"
	FieldApplicationState = "Application State"
	FieldApplicants       = "Applicants"
	FieldWeek             = "Week"
	FieldJobName          = "Job Name"
	FieldTotalApplicants  = "Total Applicants"
	FieldDaysOpen         = "Days Open"
)

// Sentinel errors for data that violates the input contract.
var (
	ErrMalformedDate   = errors.New("malformed date")
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrDuplicateStatus = errors.New("duplicate status")
)

// FieldError pinpoints the record and field that failed to decode.
type FieldError struct {
	Collection string
	Index      int
	Field      string
	Value      string
	Err        error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s[%d] %q = %q: %v", e.Collection, e.Index, e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// dateLayouts are tried in order for every date field.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
}

// ParseDate parses s with the first matching layout. Dates without a zone
// are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrMalformedDate
}

// rawRow is one record keyed by field label. Values stay raw until the
// typed conversion so that strings and numbers are both accepted.
type rawRow map[string]json.RawMessage

// rawSnapshot is the on-the-wire document.
type rawSnapshot struct {
	Applications []rawRow `json:"applications"`
	Statuses     []rawRow `json:"statuses"`
	Weekly       []rawRow `json:"weekly"`
	Jobs         []rawRow `json:"jobs"`
}

// Decode reads a JSON snapshot from r and converts it to a typed Dataset.
func Decode(r io.Reader) (types.Dataset, error) {
	var raw rawSnapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return types.Dataset{}, fmt.Errorf("dataset: parse json: %w", err)
	}

	var ds types.Dataset
	var err error
	if ds.Applications, err = decodeApplications(raw.Applications); err != nil {
		return types.Dataset{}, fmt.Errorf("dataset: %w", err)
	}
	if ds.Statuses, err = decodeStatuses(raw.Statuses); err != nil {
		return types.Dataset{}, fmt.Errorf("dataset: %w", err)
	}
	if ds.Weekly, err = decodeWeekly(raw.Weekly); err != nil {
		return types.Dataset{}, fmt.Errorf("dataset: %w", err)
	}
	if ds.Jobs, err = decodeJobs(raw.Jobs); err != nil {
		return types.Dataset{}, fmt.Errorf("dataset: %w", err)
	}
	return ds, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(b []byte) (types.Dataset, error) {
	return Decode(bytes.NewReader(b))
}

func decodeApplications(rows []rawRow) ([]types.ApplicationRecord, error) {
	out := make([]types.ApplicationRecord, 0, len(rows))
	for i, row := range rows {
		c := cursor{collection: "applications", index: i, row: row}

		applied, err := c.requiredDate(FieldApplicationDate)
		if err != nil {
			return nil, err
		}
		rec := types.ApplicationRecord{
			Applicant: c.str(FieldApplicant),
			JobTitle:  c.str(FieldJobTitle),
			JobOwner:  c.str(FieldJobOwner),
			AppliedAt: applied,
		}

		// "Viewed By" is a presence marker; it only yields a timestamp when
		// the marker happens to be a date.
		if v := c.str(FieldViewedBy); v != "" {
			rec.ViewedBy = &v
			if t, err := ParseDate(v); err == nil {
				rec.ViewedAt = &t
			}
		}
		if rec.InterviewAt, err = c.optionalDate(FieldInterviewDate); err != nil {
			return nil, err
		}
		if rec.OfferAt, err = c.optionalDate(FieldOfferDate); err != nil {
			return nil, err
		}
		if rec.HiredAt, err = c.optionalDate(FieldHireDate); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeStatuses(rows []rawRow) ([]types.StatusAggregate, error) {
	out := make([]types.StatusAggregate, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		c := cursor{collection: "statuses", index: i, row: row}
		status := c.str(FieldApplicationState)
		if status == "" {
			return nil, c.fail(FieldApplicationState, "", ErrMissingField)
		}
		if seen[status] {
			return nil, c.fail(FieldApplicationState, status, ErrDuplicateStatus)
		}
		seen[status] = true

		n, err := c.count(FieldApplicants)
		if err != nil {
			return nil, err
		}
		out = append(out, types.StatusAggregate{Status: status, Applicants: n})
	}
	return out, nil
}

func decodeWeekly(rows []rawRow) ([]types.WeeklyPoint, error) {
	out := make([]types.WeeklyPoint, 0, len(rows))
	for i, row := range rows {
		c := cursor{collection: "weekly", index: i, row: row}
		week, err := c.requiredDate(FieldWeek)
		if err != nil {
			return nil, err
		}
		n, err := c.count(FieldApplicants)
		if err != nil {
			return nil, err
		}
		out = append(out, types.WeeklyPoint{WeekStart: week, Applicants: n})
	}
	// Consumers compare the last two points, so order must hold even if the
	// source does not guarantee it. Missing weeks are not filled in.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeekStart.Before(out[j].WeekStart)
	})
	return out, nil
}

func decodeJobs(rows []rawRow) ([]types.JobAggregate, error) {
	out := make([]types.JobAggregate, 0, len(rows))
	for i, row := range rows {
		c := cursor{collection: "jobs", index: i, row: row}
		total, err := c.count(FieldTotalApplicants)
		if err != nil {
			return nil, err
		}
		days, err := c.number(FieldDaysOpen)
		if err != nil {
			return nil, err
		}
		if days < 0 {
			return nil, c.fail(FieldDaysOpen, c.str(FieldDaysOpen), ErrInvalidNumber)
		}
		out = append(out, types.JobAggregate{
			JobName:         c.str(FieldJobName),
			JobOwner:        c.str(FieldJobOwner),
			TotalApplicants: total,
			DaysOpen:        days,
		})
	}
	return out, nil
}

// cursor reads typed values out of one raw row.
type cursor struct {
	collection string
	index      int
	row        rawRow
}

func (c cursor) fail(field, value string, err error) error {
	return &FieldError{Collection: c.collection, Index: c.index, Field: field, Value: value, Err: err}
}

// str returns the field as a trimmed string. Numbers are rendered as text;
// null and absent fields are "".
func (c cursor) str(field string) string {
	raw, ok := c.row[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	if string(raw) == "null" {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func (c cursor) optionalDate(field string) (*time.Time, error) {
	v := c.str(field)
	if v == "" {
		return nil, nil
	}
	t, err := ParseDate(v)
	if err != nil {
		return nil, c.fail(field, v, err)
	}
	return &t, nil
}

func (c cursor) requiredDate(field string) (time.Time, error) {
	v := c.str(field)
	if v == "" {
		return time.Time{}, c.fail(field, "", ErrMissingField)
	}
	t, err := ParseDate(v)
	if err != nil {
		return time.Time{}, c.fail(field, v, err)
	}
	return t, nil
}

// number accepts a JSON number or a numeric string. Absent means 0.
func (c cursor) number(field string) (float64, error) {
	v := c.str(field)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, c.fail(field, v, ErrInvalidNumber)
	}
	return f, nil
}

// count is number restricted to non-negative integers.
func (c cursor) count(field string) (int, error) {
	f, err := c.number(field)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, c.fail(field, c.str(field), ErrInvalidNumber)
	}
	return int(f), nil
}
