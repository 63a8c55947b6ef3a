// Copyright 2025 The exifprobe authors
// SPDX-License-Identifier: MIT

package exifprobe

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rat is a rational number.
type Rat[T int32 | uint32] interface {
	Num() T
	Den() T

	// Float64 returns the quotient. It is NaN when the denominator is
	// zero; check Den before relying on the result.
	Float64() float64

	// String returns the string representation of the rational number.
	// If the denominator is 1, the string will be the numerator only.
	String() string
}

var (
	_ encoding.TextUnmarshaler = (*rat[int32])(nil)
	_ encoding.TextMarshaler   = rat[int32]{}
)

// rat is a lightweight version of math/big.Rat.
type rat[T int32 | uint32] struct {
	num T
	den T
}

func (r rat[T]) Num() T {
	return r.num
}

func (r rat[T]) Den() T {
	return r.den
}

func (r rat[T]) Float64() float64 {
	if r.den == 0 {
		return math.NaN()
	}
	return float64(r.num) / float64(r.den)
}

func (r rat[T]) String() string {
	if r.den == 1 {
		return fmt.Sprintf("%d", r.num)
	}
	return fmt.Sprintf("%d/%d", r.num, r.den)
}

func (r *rat[T]) UnmarshalText(text []byte) error {
	s := string(text)
	if !strings.Contains(s, "/") {
		num, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("failed to parse %q as a rational number: %w", s, err)
		}
		r.num = T(num)
		r.den = 1
		return nil
	}
	if _, err := fmt.Sscanf(s, "%d/%d", &r.num, &r.den); err != nil {
		return fmt.Errorf("failed to parse %q as a rational number: %w", s, err)
	}
	return nil
}

func (r rat[T]) MarshalText() (text []byte, err error) {
	return []byte(r.String()), nil
}

// NewRat returns a new Rat with the given numerator and denominator,
// normalized by their greatest common divisor.
func NewRat[T int32 | uint32](num, den T) (Rat[T], error) {
	if den == 0 {
		return nil, errors.New("denominator must be non-zero")
	}

	gcd := func(a, b T) T {
		for b != 0 {
			a, b = b, a%b
		}
		return a
	}
	d := gcd(num, den)
	if d != 1 {
		num, den = num/d, den/d
	}

	// Denominator must be positive.
	if den < 0 {
		num, den = -num, -den
	}

	return &rat[T]{num: num, den: den}, nil
}

// newRawRat keeps the numerator and denominator exactly as read off the
// wire, including a zero denominator, which marks the value unusable.
func newRawRat[T int32 | uint32](num, den T) Rat[T] {
	return rat[T]{num: num, den: den}
}
