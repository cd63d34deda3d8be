package models

import (
	"time"
)

// RegistryCompany is one entry of the bulk company registry.
type RegistryCompany struct {
	CorpCode  string `json:"corp_code" xml:"corp_code"`
	Name      string `json:"corp_name" xml:"corp_name"`
	StockCode string `json:"stock_code" xml:"stock_code"`
}

// RegistrySnapshot is a cached copy of the upstream company registry,
// filtered to listed companies. Built once per process lifetime.
type RegistrySnapshot struct {
	Companies []RegistryCompany `json:"companies"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Intent is the classified shape of a research request.
type Intent struct {
	Portfolio bool `json:"portfolio"` // request concerns the user's holdings
	Financial bool `json:"financial"` // request shows interest in financial statements
}
