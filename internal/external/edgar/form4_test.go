package edgar

import (
	"errors"
	"testing"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

const form4Doc = `<?xml version="1.0"?>
<ownershipDocument>
  <issuer>
    <issuerCik>0000320193</issuerCik>
    <issuerName>Apple Inc.</issuerName>
    <issuerTradingSymbol>AAPL</issuerTradingSymbol>
  </issuer>
  <reportingOwner>
    <reportingOwnerId>
      <rptOwnerCik>0001214156</rptOwnerCik>
      <rptOwnerName>COOK TIMOTHY D</rptOwnerName>
    </reportingOwnerId>
    <reportingOwnerRelationship>
      <isDirector>1</isDirector>
      <isOfficer>1</isOfficer>
      <officerTitle>Chief Executive Officer</officerTitle>
    </reportingOwnerRelationship>
  </reportingOwner>
  <nonDerivativeTable>
    <nonDerivativeTransaction>
      <transactionDate>
        <value>2026-08-20</value>
        <footnoteId id="F1"/>
      </transactionDate>
      <transactionCoding>
        <transactionCode>P</transactionCode>
      </transactionCoding>
      <transactionAmounts>
        <transactionShares>
          <footnoteId id="F2"/>
          <value>2500</value>
        </transactionShares>
        <transactionPricePerShare>
          <value>118.08</value>
        </transactionPricePerShare>
      </transactionAmounts>
      <postTransactionAmounts>
        <sharesOwnedFollowingTransaction>
          <value>3350000</value>
        </sharesOwnedFollowingTransaction>
      </postTransactionAmounts>
    </nonDerivativeTransaction>
  </nonDerivativeTable>
</ownershipDocument>`

func TestParseForm4(t *testing.T) {
	filing, err := ParseForm4([]byte(form4Doc))
	if err != nil {
		t.Fatalf("ParseForm4() error = %v", err)
	}

	if filing.Issuer.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", filing.Issuer.Ticker)
	}
	if filing.Issuer.CIK != "0000320193" {
		t.Errorf("Issuer CIK = %q, want 0000320193", filing.Issuer.CIK)
	}
	if filing.Owner.Name != "COOK TIMOTHY D" {
		t.Errorf("Owner name = %q, want COOK TIMOTHY D", filing.Owner.Name)
	}
	if filing.Owner.CIK != "0001214156" {
		t.Errorf("Owner CIK = %q, want 0001214156", filing.Owner.CIK)
	}

	// Officer title wins over the director flag
	if filing.Role != "Chief Executive Officer" {
		t.Errorf("Role = %q, want Chief Executive Officer", filing.Role)
	}

	if len(filing.Transactions) != 1 {
		t.Fatalf("len(Transactions) = %d, want 1", len(filing.Transactions))
	}

	txn := filing.Transactions[0]
	if !txn.Date.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want 2026-08-20", txn.Date)
	}
	if txn.Type != contracts.TypePurchase {
		t.Errorf("Type = %v, want Purchase", txn.Type)
	}
	if !txn.IsPurchase {
		t.Error("IsPurchase = false, want true")
	}
	if txn.Shares != 2500 {
		t.Errorf("Shares = %v, want 2500", txn.Shares)
	}
	if txn.PricePerShare != 118.08 {
		t.Errorf("PricePerShare = %v, want 118.08", txn.PricePerShare)
	}
	if txn.Value != 295200 {
		t.Errorf("Value = %v, want 295200", txn.Value)
	}
	if txn.OwnershipAfter != 3350000 {
		t.Errorf("OwnershipAfter = %v, want 3350000", txn.OwnershipAfter)
	}
}

func TestParseForm4SchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"html error page", `<html><body>Not Found</body></html>`},
		{"different schema", `<?xml version="1.0"?><feeSchedule><total>100</total></feeSchedule>`},
		{"marker but malformed", `<ownershipDocument><issuer>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseForm4([]byte(tt.doc))
			if !errors.Is(err, ErrSchemaMismatch) {
				t.Errorf("ParseForm4() error = %v, want ErrSchemaMismatch", err)
			}
		})
	}
}

func TestParseForm4NoUsableData(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"missing ticker",
			`<ownershipDocument>
			  <issuer><issuerCik>0000001</issuerCik><issuerName>X Corp</issuerName></issuer>
			  <reportingOwner>
			    <reportingOwnerId><rptOwnerCik>0000002</rptOwnerCik><rptOwnerName>DOE JANE</rptOwnerName></reportingOwnerId>
			  </reportingOwner>
			  <nonDerivativeTable>
			    <nonDerivativeTransaction>
			      <transactionDate><value>2026-08-20</value></transactionDate>
			      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
			      <transactionAmounts><transactionShares><value>100</value></transactionShares></transactionAmounts>
			    </nonDerivativeTransaction>
			  </nonDerivativeTable>
			</ownershipDocument>`,
		},
		{
			"missing owner cik",
			`<ownershipDocument>
			  <issuer><issuerCik>0000001</issuerCik><issuerTradingSymbol>XC</issuerTradingSymbol></issuer>
			  <reportingOwner>
			    <reportingOwnerId><rptOwnerName>DOE JANE</rptOwnerName></reportingOwnerId>
			  </reportingOwner>
			  <nonDerivativeTable>
			    <nonDerivativeTransaction>
			      <transactionDate><value>2026-08-20</value></transactionDate>
			      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
			      <transactionAmounts><transactionShares><value>100</value></transactionShares></transactionAmounts>
			    </nonDerivativeTransaction>
			  </nonDerivativeTable>
			</ownershipDocument>`,
		},
		{
			"no transaction rows",
			`<ownershipDocument>
			  <issuer><issuerCik>0000001</issuerCik><issuerTradingSymbol>XC</issuerTradingSymbol></issuer>
			  <reportingOwner>
			    <reportingOwnerId><rptOwnerCik>0000002</rptOwnerCik><rptOwnerName>DOE JANE</rptOwnerName></reportingOwnerId>
			  </reportingOwner>
			</ownershipDocument>`,
		},
		{
			"only zero-share rows",
			`<ownershipDocument>
			  <issuer><issuerCik>0000001</issuerCik><issuerTradingSymbol>XC</issuerTradingSymbol></issuer>
			  <reportingOwner>
			    <reportingOwnerId><rptOwnerCik>0000002</rptOwnerCik><rptOwnerName>DOE JANE</rptOwnerName></reportingOwnerId>
			  </reportingOwner>
			  <nonDerivativeTable>
			    <nonDerivativeTransaction>
			      <transactionDate><value>2026-08-20</value></transactionDate>
			      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
			      <transactionAmounts><transactionShares><value>0</value></transactionShares></transactionAmounts>
			    </nonDerivativeTransaction>
			  </nonDerivativeTable>
			</ownershipDocument>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseForm4([]byte(tt.doc))
			if !errors.Is(err, ErrNoUsableData) {
				t.Errorf("ParseForm4() error = %v, want ErrNoUsableData", err)
			}
		})
	}
}

func TestParseForm4KeepsZeroPriceGrant(t *testing.T) {
	doc := `<ownershipDocument>
	  <issuer><issuerCik>0000001</issuerCik><issuerName>X Corp</issuerName><issuerTradingSymbol>XC</issuerTradingSymbol></issuer>
	  <reportingOwner>
	    <reportingOwnerId><rptOwnerCik>0000002</rptOwnerCik><rptOwnerName>DOE JANE</rptOwnerName></reportingOwnerId>
	    <reportingOwnerRelationship><isDirector>true</isDirector></reportingOwnerRelationship>
	  </reportingOwner>
	  <nonDerivativeTable>
	    <nonDerivativeTransaction>
	      <transactionDate><value>2026-08-21</value></transactionDate>
	      <transactionCoding><transactionCode>A</transactionCode></transactionCoding>
	      <transactionAmounts>
	        <transactionShares><value>1000</value></transactionShares>
	        <transactionPricePerShare><value>0</value></transactionPricePerShare>
	      </transactionAmounts>
	    </nonDerivativeTransaction>
	  </nonDerivativeTable>
	</ownershipDocument>`

	filing, err := ParseForm4([]byte(doc))
	if err != nil {
		t.Fatalf("ParseForm4() error = %v", err)
	}
	if len(filing.Transactions) != 1 {
		t.Fatalf("len(Transactions) = %d, want 1", len(filing.Transactions))
	}

	txn := filing.Transactions[0]
	if txn.Type != contracts.TypeGrant {
		t.Errorf("Type = %v, want Grant", txn.Type)
	}
	if !txn.IsPurchase {
		t.Error("grants count as buys")
	}
	if txn.Value != 0 {
		t.Errorf("Value = %v, want 0", txn.Value)
	}
	if filing.Role != "Director" {
		t.Errorf("Role = %q, want Director", filing.Role)
	}
}

func TestParseForm4DropsRowsMissingDate(t *testing.T) {
	doc := `<ownershipDocument>
	  <issuer><issuerCik>0000001</issuerCik><issuerName>X Corp</issuerName><issuerTradingSymbol>XC</issuerTradingSymbol></issuer>
	  <reportingOwner>
	    <reportingOwnerId><rptOwnerCik>0000002</rptOwnerCik><rptOwnerName>DOE JANE</rptOwnerName></reportingOwnerId>
	  </reportingOwner>
	  <nonDerivativeTable>
	    <nonDerivativeTransaction>
	      <transactionCoding><transactionCode>S</transactionCode></transactionCoding>
	      <transactionAmounts>
	        <transactionShares><value>500</value></transactionShares>
	        <transactionPricePerShare><value>10</value></transactionPricePerShare>
	      </transactionAmounts>
	    </nonDerivativeTransaction>
	    <nonDerivativeTransaction>
	      <transactionDate><value>2026-08-22</value></transactionDate>
	      <transactionCoding><transactionCode>S</transactionCode></transactionCoding>
	      <transactionAmounts>
	        <transactionShares><value>500</value></transactionShares>
	        <transactionPricePerShare><value>10</value></transactionPricePerShare>
	      </transactionAmounts>
	    </nonDerivativeTransaction>
	  </nonDerivativeTable>
	</ownershipDocument>`

	filing, err := ParseForm4([]byte(doc))
	if err != nil {
		t.Fatalf("ParseForm4() error = %v", err)
	}
	if len(filing.Transactions) != 1 {
		t.Fatalf("len(Transactions) = %d, want 1 (dateless row dropped)", len(filing.Transactions))
	}
	if filing.Transactions[0].IsPurchase {
		t.Error("sale classified as purchase")
	}
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name                                string
		isOfficer, isDirector, isTenPercent bool
		officerTitle                        string
		want                                string
	}{
		{"officer title wins", true, true, true, "CFO", "CFO"},
		{"officer without title falls through", true, true, false, "", "Director"},
		{"director", false, true, true, "", "Director"},
		{"ten percent owner", false, false, true, "", "10% Owner"},
		{"no flags", false, false, false, "", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveRole(tt.isOfficer, tt.isDirector, tt.isTenPercent, tt.officerTitle)
			if got != tt.want {
				t.Errorf("resolveRole() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyTransactionCode(t *testing.T) {
	tests := []struct {
		code    string
		want    contracts.TransactionType
		wantBuy bool
	}{
		{"P", contracts.TypePurchase, true},
		{"S", contracts.TypeSale, false},
		{"A", contracts.TypeGrant, true},
		{"M", contracts.TypeExercise, true},
		{"G", contracts.TypeOther, false},
		{"", contracts.TypeOther, false},
	}

	for _, tt := range tests {
		t.Run("code "+tt.code, func(t *testing.T) {
			got, gotBuy := contracts.ClassifyTransactionCode(tt.code)
			if got != tt.want || gotBuy != tt.wantBuy {
				t.Errorf("ClassifyTransactionCode(%q) = (%v, %v), want (%v, %v)",
					tt.code, got, gotBuy, tt.want, tt.wantBuy)
			}
		})
	}
}
