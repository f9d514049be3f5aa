package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ahwr/internal/redaction/adapters/piiclient"
	"ahwr/internal/redaction/events"
	"ahwr/internal/redaction/identifier"
	"ahwr/internal/redaction/models"
	"ahwr/internal/redaction/selector"
	"ahwr/internal/redaction/stages"
	"ahwr/internal/redaction/store/agreement"
	"ahwr/internal/redaction/store/flag"
	"ahwr/internal/redaction/store/ledger"
	"ahwr/internal/tabular"
)

// piiService stands in for the document and messaging services.
type piiService struct {
	server   *httptest.Server
	fail     atomic.Bool
	mu       sync.Mutex
	requests [][]piiclient.AgreementToRedact
}

func newPIIService() *piiService {
	p := &piiService{}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.fail.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		var body struct {
			AgreementsToRedact []piiclient.AgreementToRedact `json:"agreementsToRedact"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p.mu.Lock()
		p.requests = append(p.requests, body.AgreementsToRedact)
		p.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	return p
}

func (p *piiService) calls() [][]piiclient.AgreementToRedact {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]piiclient.AgreementToRedact(nil), p.requests...)
}

// relationalStore records the references handed to the database stage.
type relationalStore struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (r *relationalStore) RedactAgreements(_ context.Context, references []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, references)
	return r.err
}

type ScenarioSuite struct {
	suite.Suite
	ledger     *ledger.InMemoryStore
	tables     *tabular.InMemoryStore
	flags      *flag.InMemoryStore
	events     *events.Recorder
	documents  *piiService
	messages   *piiService
	relational *relationalStore
	service    *Service
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}

var (
	agreementCreated = time.Date(2021, 8, 5, 9, 0, 0, 0, time.UTC)
	nextAgreement    = time.Date(2023, 3, 1, 9, 0, 0, 0, time.UTC)
)

func (s *ScenarioSuite) SetupTest() {
	ctx := context.Background()
	s.ledger = ledger.NewInMemory()
	agreements := agreement.NewInMemory(s.ledger.HasReference,
		models.Agreement{Reference: "REF-001", SBI: "123456789", CreatedAt: agreementCreated, UpdatedAt: agreementCreated},
		models.Agreement{Reference: "REF-002", SBI: "123456789", CreatedAt: nextAgreement, UpdatedAt: nextAgreement},
	).WithReserved(s.ledger.HasReplacement)

	s.tables = tabular.NewInMemory()
	s.Require().NoError(s.tables.Put(ctx, stages.TableEventStore, tabular.Entity{
		PartitionKey: "123456789", RowKey: "apply", Timestamp: agreementCreated.Add(time.Hour),
		Properties: map[string]string{
			stages.PayloadProperty: `{"sbi":"123456789","organisation":{"name":"Fenwick Farm","email":"fenwick@farm.test"}}`,
			stages.SBIProperty:     "123456789",
		},
	}))
	s.Require().NoError(s.tables.Put(ctx, stages.TableEventStore, tabular.Entity{
		PartitionKey: "123456789", RowKey: "apply-next", Timestamp: nextAgreement.Add(time.Hour),
		Properties: map[string]string{stages.PayloadProperty: `{"sbi":"123456789","organisation":{"name":"Fenwick Farm"}}`},
	}))

	s.flags = flag.NewInMemory()
	s.events = &events.Recorder{}
	s.documents = newPIIService()
	s.messages = newPIIService()
	s.T().Cleanup(s.documents.server.Close)
	s.T().Cleanup(s.messages.server.Close)
	s.relational = &relationalStore{}

	sel := selector.New(s.ledger, agreements, identifier.New(agreements))
	svc, err := New(sel, s.ledger, Pipeline(
		stages.NewDocuments(piiclient.New(s.documents.server.URL), s.ledger),
		stages.NewMessages(piiclient.New(s.messages.server.URL), s.ledger),
		stages.NewStorage(s.tables, s.ledger),
		stages.NewDatabase(s.relational, s.ledger),
		stages.NewFlags(s.flags, s.events, s.ledger),
	))
	s.Require().NoError(err)
	s.service = svc
}

func (s *ScenarioSuite) record() models.RedactionRecord {
	all := s.ledger.All()
	s.Require().Len(all, 1)
	return all[0]
}

func (s *ScenarioSuite) TestRedactsEligibleAgreement() {
	ctx := context.Background()
	s.Require().NoError(s.service.Run(ctx, "2025-08-05", discard))

	r := s.record()
	s.Equal("REF-001", r.ApplicationReference)
	s.Equal(models.ProgressComplete, r.Status)
	s.Equal(models.OutcomeSucceeded, r.Success)
	s.Len(r.ReplacementIdentifier, 9)
	s.NotEqual("123456789", r.ReplacementIdentifier)

	s.Equal([][]piiclient.AgreementToRedact{{{Reference: "REF-001", SBI: "123456789"}}}, s.documents.calls())
	s.Equal([][]piiclient.AgreementToRedact{{{Reference: "REF-001"}}}, s.messages.calls())
	s.Equal([][]string{{"REF-001"}}, s.relational.calls)

	moved, err := s.tables.Query(ctx, stages.TableEventStore, r.ReplacementIdentifier)
	s.Require().NoError(err)
	s.Require().Len(moved, 1)
	s.JSONEq(`{"sbi":"`+r.ReplacementIdentifier+`","organisation":{"name":"REDACTED_NAME","email":"REDACTED_EMAIL"}}`, moved[0].Properties[stages.PayloadProperty])

	kept, err := s.tables.Query(ctx, stages.TableEventStore, "123456789")
	s.Require().NoError(err)
	s.Require().Len(kept, 1)
	s.Equal("apply-next", kept[0].RowKey)

	f, ok := s.flags.Get("REF-001")
	s.Require().True(ok)
	s.Equal(r.ReplacementIdentifier, f.SBI)
	s.Len(s.events.Events(), 1)
}

func (s *ScenarioSuite) TestSecondRunIsANoop() {
	ctx := context.Background()
	s.Require().NoError(s.service.Run(ctx, "2025-08-05", discard))
	first := s.record()

	s.Require().NoError(s.service.Run(ctx, "2025-08-05", discard))
	s.Equal(first, s.record())
	s.Len(s.documents.calls(), 1)
	s.Len(s.messages.calls(), 1)
	s.Equal(1, s.flags.Count())
	s.Len(s.events.Events(), 1)
}

func (s *ScenarioSuite) TestResumesAfterFailure() {
	ctx := context.Background()
	s.messages.fail.Store(true)

	err := s.service.Run(ctx, "2025-08-05", discard)
	var stageErr *models.StageError
	s.Require().ErrorAs(err, &stageErr)
	s.Equal(models.StageMessages, stageErr.Stage)

	failed := s.record()
	s.Equal(models.Progress(1), failed.Status)
	s.Equal(1, failed.RetryCount)
	s.Equal(models.OutcomeFailed, failed.Success)
	s.Equal(0, s.flags.Count())

	s.messages.fail.Store(false)
	s.Require().NoError(s.service.Run(ctx, "2025-08-05", discard))

	done := s.record()
	s.Equal(failed.ID, done.ID)
	s.Equal(failed.ReplacementIdentifier, done.ReplacementIdentifier)
	s.Equal(models.ProgressComplete, done.Status)
	s.Equal(models.OutcomeSucceeded, done.Success)
	s.Equal(1, done.RetryCount)
	s.Len(s.documents.calls(), 1)
	s.Len(s.messages.calls(), 1)
	s.Equal(1, s.flags.Count())
}

func (s *ScenarioSuite) TestResumeFromDatabaseCheckpoint() {
	ctx := context.Background()
	s.relational.err = errors.New("could not serialize access")

	err := s.service.Run(ctx, "2025-08-05", discard)
	var stageErr *models.StageError
	s.Require().ErrorAs(err, &stageErr)
	s.Equal(models.StageDatabaseTables, stageErr.Stage)
	s.Equal(models.Progress(3), s.record().Status)
	s.Equal(0, s.flags.Count())

	s.relational.err = nil
	s.Require().NoError(s.service.Run(ctx, "2025-08-05", discard))
	s.Equal(models.ProgressComplete, s.record().Status)
	s.Len(s.documents.calls(), 1)
	s.Len(s.messages.calls(), 1)
	s.Len(s.relational.calls, 2)
	s.Equal(1, s.flags.Count())
}
