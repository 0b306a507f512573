// Package export reads and writes the transaction ledger as CSV or JSON.
// Imports are row-tolerant: malformed rows are reported and skipped rather
// than failing the whole file.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
)

// csvHeader is the canonical column order for CSV exchange.
var csvHeader = []string{"transaction_id", "amount", "category", "description", "date", "type"}

// dateLayout is the calendar-date format used in CSV files.
const dateLayout = "2006-01-02"

// ImportResult summarizes a row-tolerant import.
type ImportResult struct {
	Transactions []models.Transaction `json:"-"`
	Imported     int                  `json:"imported"`
	Skipped      int                  `json:"skipped"`
	Errors       []string             `json:"errors,omitempty"`
}

func (r *ImportResult) skip(line int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %v", line, err))
}

// WriteCSV writes transactions in the canonical column order.
func WriteCSV(w io.Writer, transactions []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, err)
	}

	for _, t := range transactions {
		record := []string{
			strconv.FormatUint(uint64(t.ID), 10),
			t.Amount.String(),
			t.Category,
			t.Description,
			t.Date.Format(dateLayout),
			string(t.Type),
		}
		if err := cw.Write(record); err != nil {
			return apperrors.Wrap(apperrors.ErrExportFailed, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, err)
	}
	return nil
}

// ReadCSV parses transactions from CSV. The header row is required; rows that
// fail to parse or validate are skipped and reported in the result.
func ReadCSV(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrImportFailed, err)
	}
	for i, col := range csvHeader {
		if header[i] != col {
			return nil, apperrors.WithMessage(apperrors.ErrImportFailed,
				fmt.Sprintf("unexpected CSV header: column %d is %q, want %q", i+1, header[i], col))
		}
	}

	result := &ImportResult{}
	line := 1
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.skip(line, err)
			continue
		}

		transaction, err := parseRecord(record)
		if err != nil {
			result.skip(line, err)
			continue
		}
		result.Transactions = append(result.Transactions, *transaction)
		result.Imported++
	}
	return result, nil
}

func parseRecord(record []string) (*models.Transaction, error) {
	amount, err := decimal.NewFromString(record[1])
	if err != nil {
		return nil, fmt.Errorf("bad amount %q", record[1])
	}

	date, err := time.Parse(dateLayout, record[4])
	if err != nil {
		return nil, fmt.Errorf("bad date %q", record[4])
	}

	return models.NewTransaction(amount, record[2], record[3], date, models.TransactionType(record[5]))
}

// WriteJSON writes transactions as an indented JSON array.
func WriteJSON(w io.Writer, transactions []models.Transaction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(transactions); err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, err)
	}
	return nil
}

// ReadJSON parses transactions from a JSON array. Rows failing validation are
// skipped and reported in the result.
func ReadJSON(r io.Reader) (*ImportResult, error) {
	var raw []models.Transaction
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrImportFailed, err)
	}

	result := &ImportResult{}
	for i, t := range raw {
		transaction, err := models.NewTransaction(t.Amount, t.Category, t.Description, t.Date, t.Type)
		if err != nil {
			result.skip(i+1, err)
			continue
		}
		result.Transactions = append(result.Transactions, *transaction)
		result.Imported++
	}
	return result, nil
}
