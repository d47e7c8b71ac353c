package casefile

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/davidahmann/monetic/pkg/types"
)

var requiredColumns = []string{
	"auth_id", "card", "amount", "currency", "merchant_id", "auth_time",
	"request_id", "type", "request_time",
}

// parseCSV decodes the single-row CSV case encoding: one header row and
// exactly one data row. Multiple data rows are rejected rather than silently
// truncated.
func parseCSV(path string, raw []byte) (types.Case, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return types.Case{}, &FormatError{Path: path, Detail: err.Error()}
	}
	if len(records) < 2 {
		return types.Case{}, &EmptyInputError{Path: path}
	}
	if len(records) > 2 {
		return types.Case{}, &FormatError{Path: path, Detail: "multiple data rows; expected exactly one"}
	}

	header := records[0]
	row := records[1]

	columns := make(map[string]string, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if i < len(row) {
			columns[key] = strings.TrimSpace(row[i])
		} else {
			columns[key] = ""
		}
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return types.Case{}, &MissingFieldError{Field: name}
		}
	}

	amount, err := parseFloat(path, "amount", columns["amount"])
	if err != nil {
		return types.Case{}, err
	}

	captured := 0.0
	if text := columns["captured_amount"]; text != "" {
		captured, err = parseFloat(path, "captured_amount", text)
		if err != nil {
			return types.Case{}, err
		}
	}

	var expiry *int
	if text := columns["expiry_minutes"]; text != "" {
		minutes, convErr := strconv.Atoi(text)
		if convErr != nil {
			return types.Case{}, &FormatError{Path: path, Detail: "invalid expiry_minutes: " + text}
		}
		if minutes != 0 {
			expiry = &minutes
		}
	}

	return types.Case{
		Auth: types.Authorization{
			AuthID:     columns["auth_id"],
			Card:       columns["card"],
			Amount:     amount,
			Currency:   columns["currency"],
			MerchantID: columns["merchant_id"],
			AuthTime:   columns["auth_time"],
		},
		State: types.CaptureState{
			CapturedAmount: captured,
			Voided:         parseCSVBool(columns["voided"]),
			ExpiryMinutes:  expiry,
		},
		ReversalRequest: types.ReversalRequest{
			RequestID:   columns["request_id"],
			Type:        columns["type"],
			RequestTime: columns["request_time"],
			Reason:      columns["reason"],
		},
	}, nil
}

func parseCSVBool(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
