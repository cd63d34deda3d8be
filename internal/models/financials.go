package models

import (
	"strings"
)

// ReportKind identifies a periodic disclosure report.
type ReportKind string

const (
	ReportQ1 ReportKind = "Q1" // first-quarter interim
	ReportH1 ReportKind = "H1" // half-year interim
	ReportQ3 ReportKind = "Q3" // third-quarter interim
	ReportFY ReportKind = "FY" // annual
)

// ReprtCodes maps report kinds to DART reprt_code values.
var ReprtCodes = map[ReportKind]string{
	ReportQ1: "11013",
	ReportH1: "11012",
	ReportQ3: "11014",
	ReportFY: "11011",
}

// AccountRow is one raw line item from a financial statement response.
type AccountRow struct {
	AccountName string `json:"account_nm"`
	Amount      string `json:"thstrm_amount"`
	Currency    string `json:"currency"`
	FsDiv       string `json:"fs_div"`
}

// KeyAccounts holds the normalized headline figures of one statement.
// Nil pointers mean the figure was missing or unparseable, never zero.
type KeyAccounts struct {
	Revenue          *int64 `json:"revenue"`
	OperatingIncome  *int64 `json:"operating_income"`
	NetIncome        *int64 `json:"net_income"`
	TotalAssets      *int64 `json:"total_assets"`
	TotalLiabilities *int64 `json:"total_liabilities"`
	TotalEquity      *int64 `json:"total_equity"`
	Unit             string `json:"unit,omitempty"`
	FsDiv            string `json:"fs_div,omitempty"`
}

// FinancialsResult is the outcome of a financial-statement fetch, or an
// explicit skip when no disclosure id is available.
type FinancialsResult struct {
	Status      Status      `json:"status"` // success | error | skipped
	CorpCode    string      `json:"corp_code,omitempty"`
	Year        int         `json:"year,omitempty"`
	ReportKind  ReportKind  `json:"report_kind,omitempty"`
	KeyAccounts KeyAccounts `json:"key_accounts"`
	RawCount    int         `json:"raw_count,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// NormalizeAmount parses a reported figure into an integer amount.
// Thousands separators are stripped and parenthesized values denote negative
// amounts. Placeholder tokens ("-", "", "null", "None") return nil rather
// than zero so missing data is never mistaken for a zero figure.
func NormalizeAmount(v string) *int64 {
	s := strings.TrimSpace(v)
	switch s {
	case "", "-", "null", "None":
		return nil
	}

	s = strings.ReplaceAll(s, ",", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	var n int64
	var seen bool
	for i, r := range s {
		if i == 0 && (r == '-' || r == '+') {
			if r == '-' {
				negative = !negative
			}
			continue
		}
		if r < '0' || r > '9' {
			return nil
		}
		n = n*10 + int64(r-'0')
		seen = true
	}
	if !seen {
		return nil
	}
	if negative {
		n = -n
	}
	return &n
}

// NormalizeKeyAccounts extracts headline figures from raw statement rows.
// The first row whose account name contains the category substring wins;
// later rows for the same category are ignored even if they would match.
func NormalizeKeyAccounts(rows []AccountRow) KeyAccounts {
	var ka KeyAccounts

	for _, r := range rows {
		account := strings.TrimSpace(r.AccountName)

		if r.Currency != "" && ka.Unit == "" {
			ka.Unit = r.Currency
		}
		if r.FsDiv != "" && ka.FsDiv == "" {
			ka.FsDiv = r.FsDiv
		}

		amount := NormalizeAmount(r.Amount)
		if amount == nil {
			continue
		}

		switch {
		case ka.Revenue == nil && strings.Contains(account, "매출"):
			ka.Revenue = amount
		case ka.OperatingIncome == nil && strings.Contains(account, "영업이익"):
			ka.OperatingIncome = amount
		case ka.NetIncome == nil && (strings.Contains(account, "당기순이익") || strings.Contains(account, "순이익")):
			ka.NetIncome = amount
		case ka.TotalAssets == nil && strings.Contains(account, "자산총계"):
			ka.TotalAssets = amount
		case ka.TotalLiabilities == nil && strings.Contains(account, "부채총계"):
			ka.TotalLiabilities = amount
		case ka.TotalEquity == nil && strings.Contains(account, "자본총계"):
			ka.TotalEquity = amount
		}
	}

	return ka
}
