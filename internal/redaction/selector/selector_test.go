package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ahwr/internal/redaction/models"
	"ahwr/internal/redaction/selector/mocks"
	"ahwr/internal/redaction/store/agreement"
	"ahwr/internal/redaction/store/ledger"
	"ahwr/pkg/platform/sentinel"
)

type SelectorSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	ledger      *mocks.MockLedger
	agreements  *mocks.MockAgreementReader
	identifiers *mocks.MockIdentifierSource
	selector    *Selector
	logger      *slog.Logger
	date        models.RequestedDate
	now         time.Time
}

func TestSelectorSuite(t *testing.T) {
	suite.Run(t, new(SelectorSuite))
}

func (s *SelectorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ledger = mocks.NewMockLedger(s.ctrl)
	s.agreements = mocks.NewMockAgreementReader(s.ctrl)
	s.identifiers = mocks.NewMockIdentifierSource(s.ctrl)
	s.now = time.Date(2025, 8, 5, 9, 0, 0, 0, time.UTC)
	s.selector = New(s.ledger, s.agreements, s.identifiers, WithClock(func() time.Time { return s.now }))
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	date, err := models.ParseRequestedDate("2025-08-05")
	s.Require().NoError(err)
	s.date = date
}

func (s *SelectorSuite) expectNoExistingBatch() {
	s.ledger.EXPECT().FindUnfinished(gomock.Any(), s.date).Return(nil, nil)
}

func (s *SelectorSuite) expectRules(noPayment, rejected, paid []models.Agreement) {
	s.agreements.EXPECT().FindNoPayment(gomock.Any(), time.Date(2022, 8, 5, 0, 0, 0, 0, time.UTC)).Return(noPayment, nil)
	s.agreements.EXPECT().FindRejectedPayment(gomock.Any(), time.Date(2022, 8, 5, 0, 0, 0, 0, time.UTC)).Return(rejected, nil)
	s.agreements.EXPECT().FindPaidUnclaimed(gomock.Any(), time.Date(2018, 8, 5, 0, 0, 0, 0, time.UTC)).Return(paid, nil)
}

func (s *SelectorSuite) TestSelectsNewNoPaymentAgreement() {
	created := time.Date(2021, 8, 5, 10, 0, 0, 0, time.UTC)
	agreement := models.Agreement{Reference: "REF-001", SBI: "123456789", CreatedAt: created}

	s.expectNoExistingBatch()
	s.expectRules([]models.Agreement{agreement}, nil, nil)
	s.agreements.EXPECT().FindClaims(gomock.Any(), "REF-001").Return(nil, nil)
	s.agreements.EXPECT().FindNextCreatedAt(gomock.Any(), "123456789", created).Return(nil, nil)
	s.identifiers.EXPECT().Next(gomock.Any()).Return("987654321", nil)

	var inserted *models.RedactionRecord
	s.ledger.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.RedactionRecord) error {
		inserted = r
		return nil
	})

	batch, err := s.selector.Select(context.Background(), s.date, s.logger)
	s.Require().NoError(err)
	s.Require().Len(batch.Records, 1)
	s.Equal(models.ProgressNone, batch.Status)

	record := batch.Records[0]
	s.Equal("REF-001", record.ApplicationReference)
	s.Equal(models.ProgressNone, record.Status)
	s.Equal(models.OutcomePending, record.Success)
	s.Equal("987654321", record.ReplacementIdentifier)
	s.Equal("123456789", record.Snapshot.SBI)
	s.Equal(created, record.Snapshot.StartDate)
	s.Nil(record.Snapshot.EndDate)
	s.Equal(s.now, record.CreatedAt)
	s.Require().NotNil(inserted)
	s.Equal(record.ID, inserted.ID)
}

func (s *SelectorSuite) TestWindowEndsAtNextAgreementForSameSBI() {
	created := time.Date(2015, 1, 10, 0, 0, 0, 0, time.UTC)
	next := time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC)
	agreement := models.Agreement{Reference: "IAHW-0001", SBI: "111111111", CreatedAt: created}

	s.expectNoExistingBatch()
	s.expectRules(nil, nil, []models.Agreement{agreement})
	s.agreements.EXPECT().FindClaims(gomock.Any(), "IAHW-0001").Return([]models.Claim{
		{Reference: "FUSO-1", StatusCode: 9},
		{Reference: "FUSO-2", StatusCode: 9},
	}, nil)
	s.agreements.EXPECT().FindNextCreatedAt(gomock.Any(), "111111111", created).Return(&next, nil)
	s.identifiers.EXPECT().Next(gomock.Any()).Return("222222222", nil)
	s.ledger.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	batch, err := s.selector.Select(context.Background(), s.date, s.logger)
	s.Require().NoError(err)
	s.Require().Len(batch.Records, 1)
	snap := batch.Records[0].Snapshot
	s.Equal([]string{"FUSO-1", "FUSO-2"}, snap.ClaimReferences())
	s.Require().NotNil(snap.EndDate)
	s.Equal(next, *snap.EndDate)
}

func (s *SelectorSuite) TestCollapsesLegacyAndCurrentReferences() {
	created := time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC)
	legacy := models.Agreement{Reference: "AHWR-ABCD-1234", SBI: "333333333", CreatedAt: created}
	current := models.Agreement{Reference: "IAHW-ABCD-1234", SBI: "333333333", CreatedAt: created}

	s.expectNoExistingBatch()
	s.expectRules([]models.Agreement{legacy}, []models.Agreement{current}, nil)
	s.agreements.EXPECT().FindClaims(gomock.Any(), "AHWR-ABCD-1234").Return(nil, nil)
	s.agreements.EXPECT().FindNextCreatedAt(gomock.Any(), "333333333", created).Return(nil, nil)
	s.identifiers.EXPECT().Next(gomock.Any()).Return("444444444", nil).Times(1)
	s.ledger.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	batch, err := s.selector.Select(context.Background(), s.date, s.logger)
	s.Require().NoError(err)
	s.Equal([]string{"AHWR-ABCD-1234"}, batch.References())
}

func (s *SelectorSuite) TestResumesUnfinishedBatchWithoutReselecting() {
	unfinished := []models.RedactionRecord{
		{ApplicationReference: "REF-001", Status: 2, Success: models.OutcomeFailed, ReplacementIdentifier: "555555555"},
		{ApplicationReference: "REF-002", Status: 2, Success: models.OutcomeFailed, ReplacementIdentifier: "666666666"},
	}
	s.ledger.EXPECT().FindUnfinished(gomock.Any(), s.date).Return(unfinished, nil)

	batch, err := s.selector.Select(context.Background(), s.date, s.logger)
	s.Require().NoError(err)
	s.Equal(unfinished, batch.Records)
	s.Equal(models.Progress(2), batch.Status)
}

func (s *SelectorSuite) TestNoEligibleAgreementsIsEmptyBatch() {
	s.expectNoExistingBatch()
	s.expectRules(nil, nil, nil)

	batch, err := s.selector.Select(context.Background(), s.date, s.logger)
	s.Require().NoError(err)
	s.True(batch.IsEmpty())
}

func (s *SelectorSuite) TestAgreementStoreFailureIsSelectionError() {
	s.expectNoExistingBatch()
	boom := errors.New("connection refused")
	s.agreements.EXPECT().FindNoPayment(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := s.selector.Select(context.Background(), s.date, s.logger)
	var selErr *models.SelectionError
	s.Require().ErrorAs(err, &selErr)
	s.ErrorIs(err, boom)
}

func (s *SelectorSuite) TestCandidateReadFailureWritesNoLedgerRows() {
	created := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	s.selector = New(s.ledger, s.agreements, s.identifiers, WithWorkerLimit(1))
	s.expectNoExistingBatch()
	s.expectRules([]models.Agreement{
		{Reference: "REF-A", SBI: "100000001", CreatedAt: created},
		{Reference: "REF-B", SBI: "100000002", CreatedAt: created},
	}, nil, nil)
	boom := errors.New("db down")
	s.agreements.EXPECT().FindClaims(gomock.Any(), "REF-A").Return(nil, nil).MaxTimes(1)
	s.agreements.EXPECT().FindNextCreatedAt(gomock.Any(), "100000001", created).Return(nil, nil).MaxTimes(1)
	s.identifiers.EXPECT().Next(gomock.Any()).Return("700000001", nil).MaxTimes(1)
	s.agreements.EXPECT().FindClaims(gomock.Any(), "REF-B").Return(nil, boom)
	s.ledger.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.selector.Select(context.Background(), s.date, s.logger)
	var selErr *models.SelectionError
	s.Require().ErrorAs(err, &selErr)
	s.ErrorIs(err, boom)
}

func (s *SelectorSuite) TestSkipsAgreementAlreadyRecordedForDate() {
	created := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	s.expectNoExistingBatch()
	s.expectRules([]models.Agreement{
		{Reference: "REF-010", SBI: "100000010", CreatedAt: created},
		{Reference: "REF-011", SBI: "100000011", CreatedAt: created},
	}, nil, nil)
	s.agreements.EXPECT().FindClaims(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	s.agreements.EXPECT().FindNextCreatedAt(gomock.Any(), gomock.Any(), created).Return(nil, nil).Times(2)
	s.identifiers.EXPECT().Next(gomock.Any()).Return("700000000", nil).Times(2)
	s.ledger.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.RedactionRecord) error {
		if r.ApplicationReference == "REF-010" {
			return sentinel.ErrConflict
		}
		return nil
	}).Times(2)

	batch, err := s.selector.Select(context.Background(), s.date, s.logger)
	s.Require().NoError(err)
	s.Equal([]string{"REF-011"}, batch.References())
}

func (s *SelectorSuite) TestLedgerInsertFailureIsLedgerWriteError() {
	created := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	s.expectNoExistingBatch()
	s.expectRules([]models.Agreement{{Reference: "REF-020", SBI: "100000020", CreatedAt: created}}, nil, nil)
	s.agreements.EXPECT().FindClaims(gomock.Any(), "REF-020").Return(nil, nil)
	s.agreements.EXPECT().FindNextCreatedAt(gomock.Any(), "100000020", created).Return(nil, nil)
	s.identifiers.EXPECT().Next(gomock.Any()).Return("800000000", nil)
	s.ledger.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := s.selector.Select(context.Background(), s.date, s.logger)
	var lwErr *models.LedgerWriteError
	s.Require().ErrorAs(err, &lwErr)
	s.Equal("create", lwErr.Op)
}

// flakyClaims fails FindClaims for one reference until cleared.
type flakyClaims struct {
	*agreement.InMemoryStore
	failFor string
}

func (f *flakyClaims) FindClaims(ctx context.Context, reference string) ([]models.Claim, error) {
	if reference == f.failFor {
		return nil, errors.New("db down")
	}
	return f.InMemoryStore.FindClaims(ctx, reference)
}

type sequentialIdentifiers struct{ n int }

func (s *sequentialIdentifiers) Next(context.Context) (string, error) {
	s.n++
	return fmt.Sprintf("9%08d", s.n), nil
}

func TestRetryAfterReadFailureSelectsEveryCandidate(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	date, err := models.ParseRequestedDate("2025-08-05")
	require.NoError(t, err)

	created := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	l := ledger.NewInMemory()
	store := &flakyClaims{
		InMemoryStore: agreement.NewInMemory(l.HasReference,
			models.Agreement{Reference: "REF-A", SBI: "100000001", CreatedAt: created},
			models.Agreement{Reference: "REF-B", SBI: "100000002", CreatedAt: created},
		),
		failFor: "REF-B",
	}
	sel := New(l, store, &sequentialIdentifiers{}, WithWorkerLimit(1),
		WithClock(func() time.Time { return time.Date(2025, 8, 5, 9, 0, 0, 0, time.UTC) }))

	_, err = sel.Select(ctx, date, logger)
	var selErr *models.SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Empty(t, l.All(), "a failed selection leaves the ledger untouched")

	store.failFor = ""
	batch, err := sel.Select(ctx, date, logger)
	require.NoError(t, err)
	assert.Equal(t, []string{"REF-A", "REF-B"}, batch.References())
	assert.Len(t, l.All(), 2)
}
