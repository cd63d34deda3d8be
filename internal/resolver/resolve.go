package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

// ResolutionStatus tags a resolution outcome.
type ResolutionStatus string

const (
	StatusResolved       ResolutionStatus = "resolved"
	StatusDisambiguation ResolutionStatus = "disambiguation"
	StatusNotFound       ResolutionStatus = "not_found"
)

// Candidate is one entry of a disambiguation list.
type Candidate struct {
	DisplayName string `json:"display_name"`
	StockCode   string `json:"stock_code"`
	CorpCode    string `json:"corp_code"`
}

// Resolution is the outcome of one resolve call. A disambiguation carries an
// ordered candidate list which the caller must keep for a follow-up numeric
// selection.
type Resolution struct {
	Status     ResolutionStatus        `json:"status"`
	Company    *models.CompanyIdentity `json:"company,omitempty"`
	Candidates []Candidate             `json:"candidates,omitempty"`
	Message    string                  `json:"message,omitempty"`
}

// Resolve maps a free-text reference to an identity. Lookup order, each step
// tried only if the previous does not apply:
//
//  1. sub-width all-digit input with a prior candidate list is a 1-based
//     selection into that list
//  2. full-width all-digit input is an exact ticker lookup; a miss is a
//     definitive not-found
//  3. exact, then normalized, name lookup
//  4. partial search over ticker prefixes and name substrings, returned as a
//     disambiguation
//  5. not-found, echoing the query
func (r *Resolver) Resolve(ctx context.Context, query string, lastCandidates []Candidate) *Resolution {
	if err := r.EnsureLoaded(ctx); err != nil {
		return &Resolution{
			Status:  StatusNotFound,
			Message: fmt.Sprintf("registry unavailable: %v", err),
		}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return &Resolution{Status: StatusNotFound, Message: "empty query"}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Step 1: numeric selection against a prior disambiguation.
	if common.IsAllDigits(query) && len(query) < common.StockCodeWidth {
		return r.selectCandidate(query, lastCandidates)
	}

	// Step 2: exact-width ticker.
	if common.IsStockCode(query) {
		if c, ok := r.byTicker[query]; ok {
			return &Resolution{Status: StatusResolved, Company: identity(c)}
		}
		return &Resolution{
			Status:  StatusNotFound,
			Message: fmt.Sprintf("no listed company with ticker %s", query),
		}
	}

	// Step 3: exact then normalized name.
	if c, ok := r.byName[query]; ok {
		return &Resolution{Status: StatusResolved, Company: identity(c)}
	}
	if c, ok := r.byNormName[common.NormalizeName(query)]; ok {
		return &Resolution{Status: StatusResolved, Company: identity(c)}
	}

	// Step 4: partial search.
	if candidates := r.partialSearch(query); len(candidates) > 0 {
		return &Resolution{
			Status:     StatusDisambiguation,
			Candidates: candidates,
			Message:    fmt.Sprintf("%d companies match %q; reply with a number to choose", len(candidates), query),
		}
	}

	// Step 5: nothing matched.
	message := fmt.Sprintf("no company found for %q", query)
	if common.IsAllDigits(query) {
		message = fmt.Sprintf("no listed company with ticker %s", query)
	}
	return &Resolution{Status: StatusNotFound, Message: message}
}

// selectCandidate treats a short numeric query as a 1-based index into the
// previous turn's candidate list.
func (r *Resolver) selectCandidate(query string, lastCandidates []Candidate) *Resolution {
	if len(lastCandidates) == 0 {
		return &Resolution{
			Status:  StatusNotFound,
			Message: "need a company name or full ticker, not a bare number",
		}
	}

	n, err := strconv.Atoi(query)
	if err != nil || n < 1 || n > len(lastCandidates) {
		return &Resolution{
			Status:     StatusDisambiguation,
			Candidates: lastCandidates,
			Message:    fmt.Sprintf("selection %s is out of range 1-%d", query, len(lastCandidates)),
		}
	}

	chosen := lastCandidates[n-1]
	return &Resolution{
		Status: StatusResolved,
		Company: &models.CompanyIdentity{
			DisplayName: chosen.DisplayName,
			StockCode:   chosen.StockCode,
			CorpCode:    chosen.CorpCode,
			Status:      "resolved",
		},
	}
}

// partialSearch unions ticker-prefix matches (for all-digit queries) with
// normalized-name substring matches, de-duplicated by (ticker, name) and
// capped at the candidate limit, preserving registry order.
func (r *Resolver) partialSearch(query string) []Candidate {
	norm := common.NormalizeName(query)
	digits := common.IsAllDigits(query)

	seen := make(map[string]struct{})
	var out []Candidate

	add := func(c models.RegistryCompany) bool {
		key := c.StockCode + "|" + c.Name
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		out = append(out, Candidate{
			DisplayName: c.Name,
			StockCode:   c.StockCode,
			CorpCode:    c.CorpCode,
		})
		return len(out) < r.candidateLimit
	}

	if digits {
		for _, c := range r.companies {
			if strings.HasPrefix(c.StockCode, query) {
				if !add(c) {
					return out
				}
			}
		}
	}

	if norm != "" {
		for _, c := range r.companies {
			if strings.Contains(common.NormalizeName(c.Name), norm) {
				if !add(c) {
					return out
				}
			}
		}
	}

	return out
}

// ResolveIdentity is the engine-facing adapter. The engine runs without a
// conversational turn to answer a disambiguation, so multiple candidates
// surface as not-found with the candidate names in the message.
func (r *Resolver) ResolveIdentity(ctx context.Context, query string) *models.ResolveResult {
	resolution := r.Resolve(ctx, query, nil)

	switch resolution.Status {
	case StatusResolved:
		return &models.ResolveResult{
			Status:  models.StatusSuccess,
			Company: resolution.Company,
		}
	case StatusDisambiguation:
		names := make([]string, 0, len(resolution.Candidates))
		for _, c := range resolution.Candidates {
			names = append(names, c.DisplayName)
		}
		return &models.ResolveResult{
			Status:  models.StatusNotFound,
			Message: fmt.Sprintf("ambiguous reference %q: %s", query, strings.Join(names, ", ")),
		}
	default:
		return &models.ResolveResult{
			Status:  models.StatusNotFound,
			Message: resolution.Message,
		}
	}
}
