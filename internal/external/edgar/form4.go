package edgar

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

// Sentinel results for documents that cannot be extracted. Both are expected
// outcomes, not parse errors: the caller skips the filing and moves on.
var (
	// ErrSchemaMismatch means the document is not an ownership document
	// (an HTML error page, a different form schema, ...)
	ErrSchemaMismatch = errors.New("document does not match the ownership schema")

	// ErrNoUsableData means the document parsed but is missing required
	// identity fields or has no keepable transaction rows
	ErrNoUsableData = errors.New("filing has no usable data")
)

// ownershipMarker must appear at the document root before structured
// extraction is attempted
const ownershipMarker = "<ownershipDocument"

// Filing is the validated result of extracting one Form 4 document
type Filing struct {
	Issuer       Issuer
	Owner        ReportingOwner
	Role         string
	Transactions []FilingTransaction
}

// Issuer identifies the company the filing is about
type Issuer struct {
	Ticker string
	Name   string
	CIK    string
}

// ReportingOwner identifies the insider reporting the transactions
type ReportingOwner struct {
	Name string
	CIK  string
}

// FilingTransaction is one keepable non-derivative transaction row
type FilingTransaction struct {
	Date           time.Time
	Code           string
	Type           contracts.TransactionType
	Shares         float64
	PricePerShare  float64
	Value          float64
	IsPurchase     bool
	OwnershipAfter float64
}

// valueElement models EDGAR's numeric/date leaf wrapper. The actual value
// sits in a <value> child; an optional <footnoteId> sibling may appear in
// any order and is ignored by structure.
type valueElement struct {
	Value string `xml:"value"`
}

type ownershipDocument struct {
	XMLName xml.Name `xml:"ownershipDocument"`

	Issuer struct {
		CIK    string `xml:"issuerCik"`
		Name   string `xml:"issuerName"`
		Symbol string `xml:"issuerTradingSymbol"`
	} `xml:"issuer"`

	Owners []struct {
		ID struct {
			CIK  string `xml:"rptOwnerCik"`
			Name string `xml:"rptOwnerName"`
		} `xml:"reportingOwnerId"`
		Relationship struct {
			IsDirector        string `xml:"isDirector"`
			IsOfficer         string `xml:"isOfficer"`
			IsTenPercentOwner string `xml:"isTenPercentOwner"`
			OfficerTitle      string `xml:"officerTitle"`
		} `xml:"reportingOwnerRelationship"`
	} `xml:"reportingOwner"`

	NonDerivativeTable struct {
		Transactions []nonDerivativeTransaction `xml:"nonDerivativeTransaction"`
	} `xml:"nonDerivativeTable"`
}

type nonDerivativeTransaction struct {
	Date   valueElement `xml:"transactionDate"`
	Coding struct {
		Code string `xml:"transactionCode"`
	} `xml:"transactionCoding"`
	Amounts struct {
		Shares        valueElement `xml:"transactionShares"`
		PricePerShare valueElement `xml:"transactionPricePerShare"`
	} `xml:"transactionAmounts"`
	PostAmounts struct {
		SharesOwned valueElement `xml:"sharesOwnedFollowingTransaction"`
	} `xml:"postTransactionAmounts"`
}

// ParseForm4 extracts a validated Filing from a raw ownership document.
// Returns ErrSchemaMismatch when the document is not an ownership document,
// and ErrNoUsableData when required identity fields are missing or no
// transaction row survives the inclusion rule.
// ⭐ SSOT: Form 4 extraction happens in this function only
func ParseForm4(data []byte) (*Filing, error) {
	if !bytes.Contains(data, []byte(ownershipMarker)) {
		return nil, ErrSchemaMismatch
	}

	var doc ownershipDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, ErrSchemaMismatch
	}

	filing := &Filing{
		Issuer: Issuer{
			Ticker: strings.TrimSpace(doc.Issuer.Symbol),
			Name:   strings.TrimSpace(doc.Issuer.Name),
			CIK:    strings.TrimSpace(doc.Issuer.CIK),
		},
	}

	if len(doc.Owners) > 0 {
		owner := doc.Owners[0]
		filing.Owner = ReportingOwner{
			Name: strings.TrimSpace(owner.ID.Name),
			CIK:  strings.TrimSpace(owner.ID.CIK),
		}
		filing.Role = resolveRole(
			flagSet(owner.Relationship.IsOfficer),
			flagSet(owner.Relationship.IsDirector),
			flagSet(owner.Relationship.IsTenPercentOwner),
			strings.TrimSpace(owner.Relationship.OfficerTitle),
		)
	}

	for _, row := range doc.NonDerivativeTable.Transactions {
		txn, ok := extractTransaction(row)
		if !ok {
			continue
		}
		filing.Transactions = append(filing.Transactions, txn)
	}

	if !filing.valid() {
		return nil, ErrNoUsableData
	}

	return filing, nil
}

// valid enforces the extraction contract: issuer symbol+CIK, owner name+CIK
// and at least one kept transaction row
func (f *Filing) valid() bool {
	return f.Issuer.Ticker != "" &&
		f.Issuer.CIK != "" &&
		f.Owner.Name != "" &&
		f.Owner.CIK != "" &&
		len(f.Transactions) > 0
}

// resolveRole applies the strict role priority:
// officer title > Director > 10% Owner > Other
func resolveRole(isOfficer, isDirector, isTenPercentOwner bool, officerTitle string) string {
	switch {
	case isOfficer && officerTitle != "":
		return officerTitle
	case isDirector:
		return "Director"
	case isTenPercentOwner:
		return "10% Owner"
	default:
		return "Other"
	}
}

// extractTransaction converts one XML row, applying the inclusion rule:
// shares must be positive and a date present; price 0 is legitimate (grants).
func extractTransaction(row nonDerivativeTransaction) (FilingTransaction, bool) {
	shares := parseFloat(row.Amounts.Shares.Value)
	date, dateOK := parseDate(row.Date.Value)

	if shares <= 0 || !dateOK {
		return FilingTransaction{}, false
	}

	price := parseFloat(row.Amounts.PricePerShare.Value)
	code := strings.TrimSpace(row.Coding.Code)
	txnType, isPurchase := contracts.ClassifyTransactionCode(code)

	return FilingTransaction{
		Date:           date,
		Code:           code,
		Type:           txnType,
		Shares:         shares,
		PricePerShare:  price,
		Value:          shares * price,
		IsPurchase:     isPurchase,
		OwnershipAfter: parseFloat(row.PostAmounts.SharesOwned.Value),
	}, true
}

// flagSet reports whether a Form 4 boolean flag is set; filings use both
// "true" and "1"
func flagSet(s string) bool {
	s = strings.TrimSpace(s)
	return s == "true" || s == "1"
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseDate parses a Form 4 date value, tolerating timezone suffixes by
// reading the leading YYYY-MM-DD only
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
