package casefile

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/davidahmann/monetic/pkg/types"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatCSV  Format = "csv"
)

type parseFn func(path string, raw []byte) (types.Case, error)

var parsers = map[Format]parseFn{
	FormatJSON: parseJSON,
	FormatXML:  parseXML,
	FormatCSV:  parseCSV,
}

// DetectFormat picks the parser by file extension. JSON is the default for
// unknown extensions, matching the canonical encoding.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML
	case ".csv":
		return FormatCSV
	default:
		return FormatJSON
	}
}

// Load reads a case file, decodes it according to its extension, and validates
// the resulting canonical Case.
func Load(path string) (types.Case, error) {
	// #nosec G304 -- path comes from an operator-provided case file or folder.
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Case{}, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return types.Case{}, &EmptyInputError{Path: path}
	}

	parse := parsers[DetectFormat(path)]
	c, err := parse(path, raw)
	if err != nil {
		return types.Case{}, err
	}

	normalizeCase(&c)

	if err := Validate(c); err != nil {
		return types.Case{}, err
	}
	return c, nil
}

func parseJSON(path string, raw []byte) (types.Case, error) {
	var c types.Case
	if err := json.Unmarshal(raw, &c); err != nil {
		return types.Case{}, &FormatError{Path: path, Detail: err.Error()}
	}
	return c, nil
}

type xmlCase struct {
	XMLName xml.Name `xml:"case"`
	Auth    struct {
		AuthID     string `xml:"auth_id"`
		Card       string `xml:"card"`
		Amount     string `xml:"amount"`
		Currency   string `xml:"currency"`
		MerchantID string `xml:"merchant_id"`
		AuthTime   string `xml:"auth_time"`
	} `xml:"auth"`
	State struct {
		CapturedAmount string `xml:"captured_amount"`
		Voided         string `xml:"voided"`
		ExpiryMinutes  string `xml:"expiry_minutes"`
	} `xml:"state"`
	ReversalRequest struct {
		RequestID   string `xml:"request_id"`
		Type        string `xml:"type"`
		RequestTime string `xml:"request_time"`
		Reason      string `xml:"reason"`
	} `xml:"reversal_request"`
}

func parseXML(path string, raw []byte) (types.Case, error) {
	var x xmlCase
	if err := xml.Unmarshal(raw, &x); err != nil {
		return types.Case{}, &FormatError{Path: path, Detail: err.Error()}
	}

	amount, err := parseFloat(path, "auth.amount", x.Auth.Amount)
	if err != nil {
		return types.Case{}, err
	}

	captured := 0.0
	if strings.TrimSpace(x.State.CapturedAmount) != "" {
		captured, err = parseFloat(path, "state.captured_amount", x.State.CapturedAmount)
		if err != nil {
			return types.Case{}, err
		}
	}

	var expiry *int
	if text := strings.TrimSpace(x.State.ExpiryMinutes); text != "" {
		minutes, err := strconv.Atoi(text)
		if err != nil {
			return types.Case{}, &FormatError{Path: path, Detail: "invalid state.expiry_minutes: " + text}
		}
		expiry = &minutes
	}

	return types.Case{
		Auth: types.Authorization{
			AuthID:     x.Auth.AuthID,
			Card:       x.Auth.Card,
			Amount:     amount,
			Currency:   x.Auth.Currency,
			MerchantID: x.Auth.MerchantID,
			AuthTime:   x.Auth.AuthTime,
		},
		State: types.CaptureState{
			CapturedAmount: captured,
			Voided:         strings.EqualFold(strings.TrimSpace(x.State.Voided), "true"),
			ExpiryMinutes:  expiry,
		},
		ReversalRequest: types.ReversalRequest{
			RequestID:   x.ReversalRequest.RequestID,
			Type:        x.ReversalRequest.Type,
			RequestTime: x.ReversalRequest.RequestTime,
			Reason:      x.ReversalRequest.Reason,
		},
	}, nil
}

func parseFloat(path string, field string, text string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, &FormatError{Path: path, Detail: "invalid " + field + ": " + text}
	}
	return value, nil
}

// normalizeCase applies NFC normalization and trimming to every textual field
// so that identifier comparisons behave the same regardless of source encoding.
func normalizeCase(c *types.Case) {
	clean := func(s string) string {
		return norm.NFC.String(strings.TrimSpace(s))
	}
	c.Auth.AuthID = clean(c.Auth.AuthID)
	c.Auth.Card = clean(c.Auth.Card)
	c.Auth.Currency = clean(c.Auth.Currency)
	c.Auth.MerchantID = clean(c.Auth.MerchantID)
	c.Auth.AuthTime = clean(c.Auth.AuthTime)
	c.ReversalRequest.RequestID = clean(c.ReversalRequest.RequestID)
	c.ReversalRequest.Type = clean(strings.ToLower(c.ReversalRequest.Type))
	c.ReversalRequest.RequestTime = clean(c.ReversalRequest.RequestTime)
	c.ReversalRequest.Reason = clean(c.ReversalRequest.Reason)
}
