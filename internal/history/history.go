// Package history keeps a CSV record of published query cycles.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the history file.
type Entry struct {
	Timestamp    time.Time
	CycleID      string
	Range        string
	Query        string
	Outcome      string
	Transactions int
	Wallet       decimal.Decimal
	Sales        decimal.Decimal
	Rebates      decimal.Decimal
	TopUps       decimal.Decimal
	Error        string
}

// Header is the CSV header of a history file.
const Header = "timestamp,cycle_id,range,query,outcome,transactions,wallet,sales,rebates,top_ups,error"

const (
	numFields       = 11
	colTimestamp    = 0
	colCycleID      = 1
	colRange        = 2
	colQuery        = 3
	colOutcome      = 4
	colTransactions = 5
	colWallet       = 6
	colSales        = 7
	colRebates      = 8
	colTopUps       = 9
	colError        = 10
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colCycleID] = e.CycleID
	row[colRange] = e.Range
	row[colQuery] = e.Query
	row[colOutcome] = e.Outcome
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colWallet] = e.Wallet.String()
	row[colSales] = e.Sales.String()
	row[colRebates] = e.Rebates.String()
	row[colTopUps] = e.TopUps.String()
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	n, err := strconv.Atoi(record[colTransactions])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTransactions], err)
	}

	e := Entry{
		Timestamp:    ts,
		CycleID:      record[colCycleID],
		Range:        record[colRange],
		Query:        record[colQuery],
		Outcome:      record[colOutcome],
		Transactions: n,
		Error:        record[colError],
	}
	amounts := []struct {
		col int
		dst *decimal.Decimal
	}{
		{colWallet, &e.Wallet},
		{colSales, &e.Sales},
		{colRebates, &e.Rebates},
		{colTopUps, &e.TopUps},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(record[a.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing %s %q: %w", strings.Split(Header, ",")[a.col], record[a.col], err)
		}
		*a.dst = d
	}
	return e, nil
}

// Append writes entries to the history file at path, creating the file,
// its directory and the header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries in the history file at path.
// Returns nil if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Tail returns the last n entries, or all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading history CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
