package extract

import "regexp"

// Invoice number patterns, most specific first. The first match wins.
var invoiceNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)INVOICE\s*[:\s]+([A-Z0-9]+-\d+)`),
	regexp.MustCompile(`(?i)Invoice\s*No\s*[:\s]*([A-Z0-9]+-\d+)`),
	regexp.MustCompile(`(?i)([A-Z]{2,5}-\d{3,})`),
}

// sourceIDPattern recovers an invoice number from a filename like
// "INV-9001.pdf" when the document text gives nothing better.
var sourceIDPattern = regexp.MustCompile(`(?i)([A-Z]{2,}-\d+)`)

// Lines matching any of these are never recipient candidates: document
// headers, contact labels, address fragments, postal-code-leading lines,
// anything starting with a digit or containing an email.
var recipientSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(INVOICE|DATE|NO|TEL|FAX|EMAIL|PHONE|PAGE|REF|LOT|JALAN|Attn|Terms)`),
	regexp.MustCompile(`^\d|@`),
	regexp.MustCompile(`(?i)KAWASAN|PERUSAHAAN|KUALA\s*LUMPUR|SELANGOR|PERAK|JOHOR`),
	regexp.MustCompile(`^\d{5}\s`),
}

// trailingRefPattern strips a dangling reference label left at the end of
// a recipient line, e.g. "PUSTAKA JAYA SDN BHD Ref:".
var trailingRefPattern = regexp.MustCompile(`(?i)\s*\bRef\s*:.*$`)

// defaultCompanyKeywords mark a line as naming a company. Substring match
// against the uppercased line.
var defaultCompanyKeywords = []string{
	"SDN", "BHD", "ENTERPRISE", "GEMILANG", "PUSTAKA",
	"INDUSTRIES", "CORPORATION", "COMPANY", "PLT",
	"RESOURCES", "MARKETING", "TRADING",
}

// defaultIssuerAliases are fragments of the issuer's own name. A candidate
// line containing one is the letterhead, not the recipient.
var defaultIssuerAliases = []string{
	"GLOBAL GOODS", "TRADING SOLUTION",
}

// Date patterns, labeled first. The first structural match commits: if its
// capture parses under no layout, the date stays unknown.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Date\s*[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
	regexp.MustCompile(`(?i)(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4})`),
}

// dateLayout pairs a Go time layout with whether the captured year has
// only two digits (expanded by prefixing "20" before parsing).
type dateLayout struct {
	layout       string
	twoDigitYear bool
}

// Tried in order against the captured date substring.
var dateLayouts = []dateLayout{
	{layout: "2/1/2006"},
	{layout: "2-1-2006"},
	{layout: "2/1/2006", twoDigitYear: true},
	{layout: "2-1-2006", twoDigitYear: true},
	{layout: "2 January 2006"},
	{layout: "2 Jan 2006"},
}

// twoDigitYearPattern matches a numeric date whose year component has
// exactly two digits.
var twoDigitYearPattern = regexp.MustCompile(`^(\d{1,2}[/-]\d{1,2}[/-])(\d{2})$`)

// Labeled total patterns, most specific first.
var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Total\s*\(?\s*RM\s*\)?\s*[:\s]*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)Grand\s*Total[:\s]*(?:RM\s*)?([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)TOTAL\s*[:\s]*([\d,]+\.\d{2})`),
	regexp.MustCompile(`(?i)Total\s*Amount[:\s]*(?:RM\s*)?([\d,]+\.?\d*)`),
}

// amountTokenPattern finds every two-decimal-place number for the
// largest-amount fallback.
var amountTokenPattern = regexp.MustCompile(`([\d,]+\.\d{2})\b`)
