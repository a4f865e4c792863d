// Package admission formats and parses year-scoped admission codes such as INST-2026-0042.
package admission

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vemac/institute/internal/pkg/apperrors"
)

const (
	// DefaultPrefix is prepended to every code.
	DefaultPrefix = "INST"
	// DefaultMaxSequence is the largest counter that fits the four digit field.
	DefaultMaxSequence = 9999
)

// Format builds PREFIX-YYYY-NNNN. Sequences above MaxSequence are rejected by Allocator, not here.
func Format(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%04d-%04d", prefix, year, seq)
}

// YearPrefix returns the "PREFIX-YYYY-" prefix shared by every code of a year.
func YearPrefix(prefix string, year int) string {
	return fmt.Sprintf("%s-%04d-", prefix, year)
}

// Parse splits a code into its year and sequence number.
func Parse(prefix, code string) (year, seq int, err error) {
	rest, ok := strings.CutPrefix(code, prefix+"-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: admission code %q has no %s prefix", apperrors.ErrValidationFailed, code, prefix)
	}
	yearPart, seqPart, ok := strings.Cut(rest, "-")
	if !ok || len(yearPart) != 4 || len(seqPart) < 4 {
		return 0, 0, fmt.Errorf("%w: malformed admission code %q", apperrors.ErrValidationFailed, code)
	}
	if year, err = strconv.Atoi(yearPart); err != nil {
		return 0, 0, fmt.Errorf("%w: malformed admission code %q", apperrors.ErrValidationFailed, code)
	}
	if seq, err = strconv.Atoi(seqPart); err != nil || seq < 1 {
		return 0, 0, fmt.Errorf("%w: malformed admission code %q", apperrors.ErrValidationFailed, code)
	}
	return year, seq, nil
}

// Policy holds the code prefix and capacity for one installation.
type Policy struct {
	Prefix      string
	MaxSequence int
}

// DefaultPolicy returns INST with four digit capacity.
func DefaultPolicy() Policy {
	return Policy{Prefix: DefaultPrefix, MaxSequence: DefaultMaxSequence}
}

// Code checks seq against the capacity and formats it.
func (p Policy) Code(year, seq int) (string, error) {
	if year < 1 || year > 9999 {
		return "", fmt.Errorf("%w: year %d out of range", apperrors.ErrValidationFailed, year)
	}
	if seq < 1 {
		return "", fmt.Errorf("invalid admission sequence %d", seq)
	}
	if seq > p.MaxSequence {
		return "", apperrors.ErrAdmissionCodesExhausted
	}
	return Format(p.Prefix, year, seq), nil
}
