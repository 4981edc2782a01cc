package ftd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshbtc/finport/internal/models"
)

// ParseResult is the outcome of reading one fails file for a symbol.
type ParseResult struct {
	Points  []*models.FTDPoint
	Skipped int
}

// ParseFails reads a pipe-delimited fails file and returns the rows matching
// symbol as FTD points for securityID. Rows with missing or unparseable
// fields are counted in Skipped, not returned as errors; value is derived as
// quantity times price.
func ParseFails(r io.Reader, symbol string, securityID int) (*ParseResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read fails file header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	dateIdx, ok := cols["SETTLEMENT DATE"]
	if !ok {
		return nil, fmt.Errorf("fails file missing SETTLEMENT DATE column")
	}
	symbolIdx, ok := cols["SYMBOL"]
	if !ok {
		return nil, fmt.Errorf("fails file missing SYMBOL column")
	}
	quantityIdx, ok := cols["QUANTITY (FAILS)"]
	if !ok {
		return nil, fmt.Errorf("fails file missing QUANTITY (FAILS) column")
	}
	priceIdx, ok := cols["PRICE"]
	if !ok {
		return nil, fmt.Errorf("fails file missing PRICE column")
	}

	result := &ParseResult{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}
		maxIdx := dateIdx
		for _, idx := range []int{symbolIdx, quantityIdx, priceIdx} {
			if idx > maxIdx {
				maxIdx = idx
			}
		}
		if len(record) <= maxIdx {
			result.Skipped++
			continue
		}
		if strings.ToUpper(strings.TrimSpace(record[symbolIdx])) != symbol {
			continue
		}

		date, err := time.Parse("20060102", strings.TrimSpace(record[dateIdx]))
		if err != nil {
			result.Skipped++
			continue
		}
		quantity, err := strconv.ParseInt(strings.TrimSpace(record[quantityIdx]), 10, 64)
		if err != nil {
			result.Skipped++
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(record[priceIdx]))
		if err != nil {
			result.Skipped++
			continue
		}

		result.Points = append(result.Points, &models.FTDPoint{
			SecurityID: securityID,
			Date:       date,
			Quantity:   quantity,
			Price:      price,
			Value:      price.Mul(decimal.NewFromInt(quantity)),
		})
	}

	return result, nil
}
