// Package loader parses uploaded price tables into a date-ordered Series.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"GoldCast/internal/model"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order for every date cell.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-1-2",
	"1/2/2006",
	"2006-01",
	"2006",
}

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrBadDate       = errors.New("value is not a date")
	ErrBadPrice      = errors.New("value is not a non-negative number")
	ErrNoHeader      = errors.New("input has no header row")
)

// ParseError reports a malformed upload. Row is 1-based and counts the header.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("parse: %v: %s", e.Err, e.Column)
	}
	return fmt.Sprintf("parse: row %d column %s: %v: %q", e.Row, e.Column, e.Err, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Loader maps a date column and a price column, matched by any of the given
// header aliases, into observations.
type Loader struct {
	DateColumns  []string
	PriceColumns []string
}

// New creates a Loader with the given header aliases.
func New(dateColumns, priceColumns []string) *Loader {
	return &Loader{DateColumns: dateColumns, PriceColumns: priceColumns}
}

// LoadFile reads a local CSV file, labelling the series with its base name.
func (l *Loader) LoadFile(path string) (*model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return l.Load(f, filepath.Base(path))
}

// Load parses a CSV table and returns its observations sorted ascending by date.
// Equal dates keep their input order. Nothing is returned on error.
func (l *Loader) Load(r io.Reader, label string) (*model.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Column: "header", Err: ErrNoHeader}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	dateIdx := findColumn(header, l.DateColumns)
	if dateIdx < 0 {
		return nil, &ParseError{Column: strings.Join(l.DateColumns, "|"), Err: ErrMissingColumn}
	}
	priceIdx := findColumn(header, l.PriceColumns)
	if priceIdx < 0 {
		return nil, &ParseError{Column: strings.Join(l.PriceColumns, "|"), Err: ErrMissingColumn}
	}
	dateName, priceName := header[dateIdx], header[priceIdx]

	var obs []model.Observation
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Row: row, Column: fmt.Sprintf("#%d", csvErr.Column), Err: err}
			}
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		if isBlank(rec) {
			continue
		}

		var dateVal, priceVal string
		if dateIdx < len(rec) {
			dateVal = strings.TrimSpace(rec[dateIdx])
		}
		if priceIdx < len(rec) {
			priceVal = strings.TrimSpace(rec[priceIdx])
		}

		date, err := ParseDate(dateVal)
		if err != nil {
			return nil, &ParseError{Row: row, Column: dateName, Value: dateVal, Err: ErrBadDate}
		}
		price, err := decimal.NewFromString(priceVal)
		if err != nil || price.IsNegative() || math.IsInf(price.InexactFloat64(), 0) {
			return nil, &ParseError{Row: row, Column: priceName, Value: priceVal, Err: ErrBadPrice}
		}
		obs = append(obs, model.Observation{Date: date, Price: price})
	}

	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Date.Before(obs[j].Date)
	})

	return &model.Series{Label: label, Observations: obs}, nil
}

// ParseDate accepts the calendar formats commonly found in exported price tables.
func ParseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, ErrBadDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadDate
}

func findColumn(header, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(alias)) {
				return i
			}
		}
	}
	return -1
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
