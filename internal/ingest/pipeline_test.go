package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wonny/insidertracker/backend/internal/cluster"
	"github.com/wonny/insidertracker/backend/internal/contracts"
	"github.com/wonny/insidertracker/backend/internal/external/edgar"
	"github.com/wonny/insidertracker/backend/internal/scoring"
	"github.com/wonny/insidertracker/backend/internal/store"
	"github.com/wonny/insidertracker/backend/pkg/config"
	"github.com/wonny/insidertracker/backend/pkg/httputil"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// edgarFixture is a fake EDGAR: an Atom feed, one index page per filing and
// one raw document per filing
type edgarFixture struct {
	srv     *httptest.Server
	indexes map[string]string // index path -> page html
	docs    map[string]string // doc path -> xml body
	feed    func(baseURL string) string
}

func newFixture(t *testing.T) *edgarFixture {
	t.Helper()

	f := &edgarFixture{
		indexes: make(map[string]string),
		docs:    make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/feed" {
			fmt.Fprint(w, f.feed(f.srv.URL))
			return
		}
		if page, ok := f.indexes[r.URL.Path]; ok {
			fmt.Fprint(w, page)
			return
		}
		if doc, ok := f.docs[r.URL.Path]; ok {
			fmt.Fprint(w, doc)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

// addFiling registers one complete filing: feed entry target, index page with
// a styled-rendering link, and the raw document behind the de-styled path
func (f *edgarFixture) addFiling(accession, doc string) {
	indexPath := "/Archives/edgar/data/1/" + accession + "-index.htm"
	styledPath := "/Archives/edgar/data/1/" + accession + "/xslF345X03/wf-form4.xml"
	docPath := "/Archives/edgar/data/1/" + accession + "/wf-form4.xml"

	f.indexes[indexPath] = fmt.Sprintf(
		`<html><body><strong>Form 4</strong><a href=%q>wf-form4.xml</a></body></html>`, styledPath)
	f.docs[docPath] = doc
}

func (f *edgarFixture) feedBody(baseURL string) string {
	body := `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom">`
	for path := range f.indexes {
		body += fmt.Sprintf(`<entry><link rel="alternate" href=%q/></entry>`, baseURL+path)
	}
	return body + `</feed>`
}

func form4XML(ticker, issuerCIK, ownerName, ownerCIK, title, date, code, shares, price string) string {
	return fmt.Sprintf(`<ownershipDocument>
  <issuer>
    <issuerCik>%s</issuerCik>
    <issuerName>%s Inc.</issuerName>
    <issuerTradingSymbol>%s</issuerTradingSymbol>
  </issuer>
  <reportingOwner>
    <reportingOwnerId>
      <rptOwnerCik>%s</rptOwnerCik>
      <rptOwnerName>%s</rptOwnerName>
    </reportingOwnerId>
    <reportingOwnerRelationship>
      <isOfficer>1</isOfficer>
      <officerTitle>%s</officerTitle>
    </reportingOwnerRelationship>
  </reportingOwner>
  <nonDerivativeTable>
    <nonDerivativeTransaction>
      <transactionDate><value>%s</value></transactionDate>
      <transactionCoding><transactionCode>%s</transactionCode></transactionCoding>
      <transactionAmounts>
        <transactionShares><value>%s</value></transactionShares>
        <transactionPricePerShare><value>%s</value></transactionPricePerShare>
      </transactionAmounts>
    </nonDerivativeTransaction>
  </nonDerivativeTable>
</ownershipDocument>`, issuerCIK, ticker, ticker, ownerCIK, ownerName, title, date, code, shares, price)
}

func newTestPipeline(t *testing.T, feedURL string, mem *store.MemoryStore, now time.Time) *Pipeline {
	t.Helper()

	cfg := &config.Config{
		Env:      "test",
		LogLevel: "error",
		SEC: config.SECConfig{
			FeedURL:    feedURL,
			UserAgent:  "test-agent test@example.com",
			BatchLimit: 20,
			FetchDelay: time.Millisecond,
		},
	}
	log := logger.New(cfg)
	httpClient := httputil.New(cfg, log).DisableRetry()
	edgarClient := edgar.NewClient(httpClient, log)

	clock := func() time.Time { return now }
	engine := scoring.NewEngine(mem, log).WithClock(clock)
	detector := cluster.NewDetector(mem, log).WithClock(clock)

	return New(edgarClient, mem, engine, detector, cfg, log).WithClock(clock)
}

func TestIngestEndToEnd(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f := newFixture(t)
	f.feed = f.feedBody

	// Two insiders buy the same company on the same day
	f.addFiling("0001", form4XML("AAPL", "0000320193", "COOK TIMOTHY D", "0001214156",
		"Chief Executive Officer", "2026-08-28", "P", "2500", "118.08"))
	f.addFiling("0002", form4XML("AAPL", "0000320193", "DOE JANE", "0009999999",
		"CFO", "2026-08-28", "P", "1000", "118.00"))

	mem := store.NewMemoryStore()
	pipeline := newTestPipeline(t, f.srv.URL+"/feed", mem, now)

	summary := pipeline.Ingest(context.Background())

	if !summary.Success {
		t.Fatalf("Ingest() failed: %s", summary.Error)
	}
	if summary.Processed != 2 || summary.Skipped != 0 || summary.Errors != 0 {
		t.Fatalf("summary = %+v, want 2 processed", summary)
	}

	if got := len(mem.Companies()); got != 1 {
		t.Errorf("got %d companies, want 1 (same CIK)", got)
	}
	if got := len(mem.Insiders()); got != 2 {
		t.Errorf("got %d insiders, want 2", got)
	}

	txns := mem.Transactions()
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}
	for _, txn := range txns {
		if txn.Shares == 2500 && txn.Value != 295200 {
			t.Errorf("Value = %v, want 295200", txn.Value)
		}
		if !txn.IsPurchase {
			t.Error("purchase stored as non-purchase")
		}
		if txn.Form4URL == "" {
			t.Error("Form4URL not recorded")
		}
	}

	// Derivations ran: one score row and one cluster event
	scores := mem.Scores()
	if len(scores) != 1 {
		t.Fatalf("got %d score rows, want 1", len(scores))
	}
	for _, s := range scores {
		// 50 + 15 + 4 (CEO, 295200) + 15 + 4 (CFO, 118000) + 10 (two buyers)
		if s.Score != 98 {
			t.Errorf("Score = %d, want 98", s.Score)
		}
		if s.Signal != contracts.SignalStrongBuy {
			t.Errorf("Signal = %q, want %q", s.Signal, contracts.SignalStrongBuy)
		}
	}

	clusters := mem.ClusterBuys()
	if len(clusters) != 1 {
		t.Fatalf("got %d cluster events, want 1", len(clusters))
	}
	if clusters[0].NumBuyers != 2 {
		t.Errorf("NumBuyers = %d, want 2", clusters[0].NumBuyers)
	}
}

func TestIngestReplayIsIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f := newFixture(t)
	f.feed = f.feedBody

	f.addFiling("0001", form4XML("AAPL", "0000320193", "COOK TIMOTHY D", "0001214156",
		"Chief Executive Officer", "2026-08-28", "P", "2500", "118.08"))
	f.addFiling("0002", form4XML("AAPL", "0000320193", "DOE JANE", "0009999999",
		"CFO", "2026-08-28", "P", "1000", "118.00"))

	mem := store.NewMemoryStore()
	pipeline := newTestPipeline(t, f.srv.URL+"/feed", mem, now)

	first := pipeline.Ingest(context.Background())
	second := pipeline.Ingest(context.Background())

	if !first.Success || !second.Success {
		t.Fatal("both runs must succeed")
	}
	if second.Processed != 2 {
		t.Errorf("replay Processed = %d, want 2", second.Processed)
	}

	if got := len(mem.Transactions()); got != 2 {
		t.Errorf("got %d transactions after replay, want 2", got)
	}
	if got := len(mem.ClusterBuys()); got != 1 {
		t.Errorf("got %d cluster events after replay, want 1", got)
	}
}

func TestIngestRecomputesScoresWithoutNewFilings(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f := newFixture(t)
	f.feed = f.feedBody

	// The only candidate fails extraction, so nothing new is stored
	f.addFiling("0001", `<html><body>oops</body></html>`)

	mem := store.NewMemoryStore()
	companyID, err := mem.UpsertCompany(context.Background(), "AAPL", "AAPL Inc.", "0000320193")
	if err != nil {
		t.Fatal(err)
	}
	insiderID, err := mem.UpsertInsider(context.Background(), "COOK TIMOTHY D", "0001214156")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mem.InsertTransaction(context.Background(), &contracts.Transaction{
		CompanyID:   companyID,
		InsiderID:   insiderID,
		Date:        now.AddDate(0, 0, -5),
		Type:        "Purchase",
		Shares:      2500,
		Value:       295200,
		IsPurchase:  true,
		InsiderRole: "CEO",
		FilingDate:  now.AddDate(0, 0, -5),
	}); err != nil {
		t.Fatal(err)
	}

	pipeline := newTestPipeline(t, f.srv.URL+"/feed", mem, now)

	summary := pipeline.Ingest(context.Background())

	if !summary.Success {
		t.Fatalf("Ingest() failed: %s", summary.Error)
	}
	if summary.Processed != 0 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v, want 0 processed / 1 skipped", summary)
	}

	// Scoring still ran over the trailing window
	scores := mem.Scores()
	if len(scores) != 1 {
		t.Fatalf("got %d score rows after all-skip batch, want 1", len(scores))
	}
	for _, s := range scores {
		// 50 + 15 (CEO) + 4 (value tier)
		if s.Score != 69 {
			t.Errorf("Score = %d, want 69", s.Score)
		}
	}
}

func TestIngestFeedFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	mem := store.NewMemoryStore()
	pipeline := newTestPipeline(t, srv.URL+"/feed", mem, time.Now())

	summary := pipeline.Ingest(context.Background())

	if summary.Success {
		t.Error("Success = true, want false on feed failure")
	}
	if summary.Error == "" {
		t.Error("Error not populated")
	}
	if summary.TotalCandidates != 0 {
		t.Errorf("TotalCandidates = %d, want 0", summary.TotalCandidates)
	}
}

func TestIngestTagsSkips(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f := newFixture(t)
	f.feed = f.feedBody

	// Good filing
	f.addFiling("0001", form4XML("AAPL", "0000320193", "COOK TIMOTHY D", "0001214156",
		"Chief Executive Officer", "2026-08-28", "P", "2500", "118.08"))
	// Document is not an ownership document
	f.addFiling("0002", `<html><body>oops</body></html>`)
	// Filing with no keepable rows
	f.addFiling("0003", form4XML("MSFT", "0000789019", "DOE JANE", "0009999999",
		"CFO", "2026-08-28", "P", "0", "118.00"))
	// Index page for a different form type
	f.indexes["/Archives/edgar/data/1/0004-index.htm"] =
		`<html><body><strong>Form 13F-HR</strong><a href="/a/doc.xml">doc</a></body></html>`

	mem := store.NewMemoryStore()
	pipeline := newTestPipeline(t, f.srv.URL+"/feed", mem, now)

	summary := pipeline.Ingest(context.Background())

	if !summary.Success {
		t.Fatalf("Ingest() failed: %s", summary.Error)
	}
	if summary.TotalCandidates != 4 {
		t.Fatalf("TotalCandidates = %d, want 4", summary.TotalCandidates)
	}
	if summary.Processed != 1 {
		t.Errorf("Processed = %d, want 1", summary.Processed)
	}
	if summary.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", summary.Skipped)
	}
	if summary.Errors != 0 {
		t.Errorf("Errors = %d, want 0", summary.Errors)
	}

	if got := len(mem.Transactions()); got != 1 {
		t.Errorf("got %d transactions, want 1", got)
	}
}
