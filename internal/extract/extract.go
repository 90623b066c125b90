// Package extract pulls structured invoice fields out of raw document
// text. The text has already been produced elsewhere (PDF text layer,
// OCR); everything here is line scanning and ordered pattern matching.
// A field that no pattern finds is left nil, never defaulted.
package extract

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

// amountFloor is the noise cutoff for the largest-amount fallback.
// Two-decimal tokens below 100 are line items, quantities, or page
// numbers far more often than invoice totals.
var amountFloor = decimal.NewFromInt(100)

// recipientScanLines bounds how deep into the document the recipient
// scan looks. Recipient blocks sit in the letterhead region.
const recipientScanLines = 25

const (
	minRecipientLen = 5
	maxRecipientLen = 60
)

// Options tunes the recipient heuristics for a particular issuer.
// Zero values fall back to the built-in defaults.
type Options struct {
	// IssuerAliases are substrings of the issuing company's own name,
	// skipped so the letterhead is never tagged as the recipient.
	IssuerAliases []string
	// CompanyKeywords are the legal-suffix tokens that qualify a line
	// as a company name.
	CompanyKeywords []string
}

// Extractor runs the four field sub-extractions. Safe for concurrent use;
// it holds only compiled patterns and option lists.
type Extractor struct {
	issuerAliases   []string
	companyKeywords []string
}

// New creates an Extractor, applying defaults for unset options.
func New(opts Options) *Extractor {
	e := &Extractor{
		issuerAliases:   opts.IssuerAliases,
		companyKeywords: opts.CompanyKeywords,
	}
	if len(e.issuerAliases) == 0 {
		e.issuerAliases = defaultIssuerAliases
	}
	if len(e.companyKeywords) == 0 {
		e.companyKeywords = defaultCompanyKeywords
	}
	return e
}

// Extract parses invoice fields from document text. With empty text it
// degrades to recovering the invoice number from the source ID alone,
// which is all a scanned document with no OCR result can give us.
func (e *Extractor) Extract(text, sourceID string) model.InvoiceRecord {
	rec := model.InvoiceRecord{SourceID: sourceID}

	if strings.TrimSpace(text) == "" {
		rec.InvoiceNumber = numberFromSourceID(sourceID)
		return rec
	}

	rec.InvoiceNumber = e.extractNumber(text, sourceID)
	rec.RecipientName = e.extractRecipient(text)
	rec.InvoiceDate = e.extractDate(text)
	rec.TotalAmount, rec.AmountGuessed = e.extractAmount(text)

	return rec
}

// extractNumber tries the body patterns most specific first, then falls
// back to the source ID.
func (e *Extractor) extractNumber(text, sourceID string) *string {
	for _, p := range invoiceNumberPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			num := strings.ToUpper(m[1])
			return &num
		}
	}
	return numberFromSourceID(sourceID)
}

func numberFromSourceID(sourceID string) *string {
	m := sourceIDPattern.FindStringSubmatch(sourceID)
	if m == nil {
		return nil
	}
	num := strings.ToUpper(m[1])
	return &num
}

// extractRecipient scans the top of the document for the first plausible
// company line. It stops at the first keyword hit rather than ranking
// candidates.
func (e *Extractor) extractRecipient(text string) *string {
	lines := nonEmptyLines(text)
	if len(lines) > recipientScanLines {
		lines = lines[:recipientScanLines]
	}

	for _, line := range lines {
		if len(line) < minRecipientLen || len(line) > maxRecipientLen {
			continue
		}
		if skipRecipientLine(line) || e.isIssuerLine(line) {
			continue
		}

		upper := strings.ToUpper(line)
		for _, kw := range e.companyKeywords {
			if strings.Contains(upper, kw) {
				name := strings.TrimSpace(trailingRefPattern.ReplaceAllString(line, ""))
				if name == "" {
					return nil
				}
				return &name
			}
		}
	}
	return nil
}

func skipRecipientLine(line string) bool {
	for _, p := range recipientSkipPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

func (e *Extractor) isIssuerLine(line string) bool {
	upper := strings.ToUpper(line)
	for _, alias := range e.issuerAliases {
		if strings.Contains(upper, strings.ToUpper(alias)) {
			return true
		}
	}
	return false
}

// extractDate commits to the first pattern that matches structurally.
// If the captured substring then parses under no layout, the date stays
// unknown; later patterns are not consulted.
func (e *Extractor) extractDate(text string) *time.Time {
	for _, p := range datePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return parseDate(m[1])
	}
	return nil
}

func parseDate(s string) *time.Time {
	for _, dl := range dateLayouts {
		candidate := s
		if dl.twoDigitYear {
			expanded := twoDigitYearPattern.ReplaceAllString(s, "${1}20${2}")
			if expanded == s {
				continue
			}
			candidate = expanded
		}
		t, err := time.Parse(dl.layout, candidate)
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

// extractAmount tries the labeled-total patterns, then falls back to the
// largest two-decimal token at or above the noise floor. The fallback is
// a guess and is flagged as such.
func (e *Extractor) extractAmount(text string) (*decimal.Decimal, bool) {
	for _, p := range totalPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amt, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return &amt, false
	}

	var best *decimal.Decimal
	for _, m := range amountTokenPattern.FindAllStringSubmatch(text, -1) {
		amt, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		if amt.LessThan(amountFloor) {
			continue
		}
		if best == nil || amt.GreaterThan(*best) {
			best = &amt
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
