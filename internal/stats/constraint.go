package stats

import (
	"fmt"
	"strconv"
	"time"
)

const DateLayout = time.DateOnly

type ConstraintType string

const (
	ConstraintCommitLimit ConstraintType = "commit_limit"
	ConstraintDateRange   ConstraintType = "date_range"
)

// Constraint bounds the commits included in a computation. It is either a
// CommitLimit or a DateRange.
type Constraint interface {
	Type() ConstraintType
	// Canonical returns the unique string form used in cache keys.
	Canonical() string
	Validate() error

	isConstraint()
}

// CommitLimit includes the newest Limit non-merge commits.
type CommitLimit struct {
	Limit int
}

func (CommitLimit) Type() ConstraintType { return ConstraintCommitLimit }

func (c CommitLimit) Canonical() string {
	return string(ConstraintCommitLimit) + ":limit=" + strconv.Itoa(c.Limit)
}

func (c CommitLimit) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConstraint, c.Limit)
	}

	return nil
}

func (CommitLimit) isConstraint() {}

// DateRange includes commits authored between From and To, both inclusive
// calendar dates in UTC.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (DateRange) Type() ConstraintType { return ConstraintDateRange }

func (d DateRange) Canonical() string {
	return string(ConstraintDateRange) +
		":from=" + d.From.Format(DateLayout) +
		",to=" + d.To.Format(DateLayout)
}

func (d DateRange) Validate() error {
	if d.From.IsZero() || d.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidConstraint)
	}
	if d.From.After(d.To) {
		return fmt.Errorf(
			"%w: from %s is after to %s",
			ErrInvalidConstraint, d.From.Format(DateLayout), d.To.Format(DateLayout),
		)
	}

	return nil
}

// Contains reports whether t falls on a day within the range.
func (d DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	return !day.Before(d.From) && !day.After(d.To)
}

func (DateRange) isConstraint() {}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ConstraintSpec is the wire form of a Constraint. Fields that do not apply
// to Type are ignored.
type ConstraintSpec struct {
	Type  ConstraintType `json:"type"            validate:"required,oneof=commit_limit date_range"`
	Limit int            `json:"limit,omitempty"`
	From  string         `json:"from,omitempty"`
	To    string         `json:"to,omitempty"`
}

// Parse converts the wire form into a validated Constraint.
func (s ConstraintSpec) Parse() (Constraint, error) {
	var c Constraint

	switch s.Type {
	case ConstraintCommitLimit:
		c = CommitLimit{Limit: s.Limit}
	case ConstraintDateRange:
		from, err := time.ParseInLocation(DateLayout, s.From, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: from: %w", ErrInvalidConstraint, err)
		}
		to, err := time.ParseInLocation(DateLayout, s.To, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: to: %w", ErrInvalidConstraint, err)
		}
		c = DateRange{From: from, To: to}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidConstraint, s.Type)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// SpecOf returns the wire form of c with only the fields relevant to its type.
func SpecOf(c Constraint) ConstraintSpec {
	switch v := c.(type) {
	case CommitLimit:
		return ConstraintSpec{Type: ConstraintCommitLimit, Limit: v.Limit}
	case DateRange:
		return ConstraintSpec{
			Type: ConstraintDateRange,
			From: v.From.Format(DateLayout),
			To:   v.To.Format(DateLayout),
		}
	default:
		panic(fmt.Sprintf("unknown constraint %T", c))
	}
}
