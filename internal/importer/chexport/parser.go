// Package chexport parses client-list CSV exports into client records. It
// auto-detects which format (Companies House bulk export, practice-software
// list) is being used by matching column headers against known profiles.
package chexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/dates"
	enc "github.com/rgoodall/duebook/internal/encoding"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]client.Client, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching client-list format found: expected Companies House or practice-software columns")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts client records from data rows using the matched
// profile. headerRowNum is the 0-based index of the header in the original
// file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]client.Client, error) {
	var clients []client.Client

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		name := cellValue(row, cols, p.NameCol)
		if name == "" {
			continue
		}

		c := client.Client{Name: name, Type: parseCategory(cellValue(row, cols, p.CategoryCol))}

		if number := cellValue(row, cols, p.NumberCol); number != "" {
			c.CompanyNumber = &number
		}

		c.IncorporationDate = parseDate(p, cellValue(row, cols, p.IncorporationCol))
		c.LastAccountsMadeUpTo = parseDate(p, cellValue(row, cols, p.LastAccountsCol))
		c.CHNextYearEnd = parseDate(p, cellValue(row, cols, p.NextMadeUpToCol))

		if day := cellValue(row, cols, p.RefDayCol); day != "" {
			d, err := strconv.Atoi(day)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad accounting reference day %q", rowNum, day)
			}

			c.AccountingRefDay = d
		}

		if month := cellValue(row, cols, p.RefMonthCol); month != "" {
			m, err := strconv.Atoi(month)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad accounting reference month %q", rowNum, month)
			}

			c.AccountingRefMonth = time.Month(m)
		}

		if stagger := cellValue(row, cols, p.VATStaggerCol); stagger != "" {
			group, err := parseStagger(stagger)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}

			c.VATEnabled = true
			c.VATQuarterGroup = &group
		}

		clients = append(clients, c)
	}

	return clients, nil
}

// parseCategory maps a source-system company category onto a client type.
// Anything unrecognized defaults to limited, the overwhelmingly common case
// in Companies House exports.
func parseCategory(s string) client.Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sole trader", "sole_trader", "individual":
		return client.TypeSoleTrader
	case "partnership", "llp", "limited-liability-partnership":
		return client.TypePartnership
	}

	return client.TypeLimited
}

// parseStagger maps practice-software VAT stagger group numbers onto quarter
// groups. Unknown values are a hard error: guessing a stagger group means a
// wrong filing deadline.
func parseStagger(s string) (dates.QuarterGroup, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return dates.QuarterGroupJanAprJulOct, nil
	case "2":
		return dates.QuarterGroupFebMayAugNov, nil
	case "3":
		return dates.QuarterGroupMarJunSepDec, nil
	}

	return dates.ParseQuarterGroup(strings.TrimSpace(s))
}

// parseDate returns nil for empty or unparseable cells; exports routinely
// leave date columns blank for newly incorporated or dormant companies.
func parseDate(p *Profile, s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(p.DateLayout, s)
	if err != nil {
		return nil
	}

	return &t
}

// cellValue safely gets a trimmed cell value by column name. Unmapped
// columns (not every profile has every field) read as empty.
func cellValue(row []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
