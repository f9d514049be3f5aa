package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ahwr/internal/redaction/metrics"
	"ahwr/internal/redaction/models"
	"ahwr/internal/redaction/service/mocks"
	dErrors "ahwr/pkg/domain-errors"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// recordingExecutor logs each call into a shared trace.
type recordingExecutor struct {
	stage models.Stage
	trace *[]string
	seen  []models.Progress
	err   error
}

func (e *recordingExecutor) Execute(_ context.Context, _ []models.RedactionRecord, prior models.Progress, _ *slog.Logger) error {
	*e.trace = append(*e.trace, string(e.stage))
	e.seen = append(e.seen, prior)
	return e.err
}

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	selector  *mocks.MockSelector
	ledger    *mocks.MockLedger
	trace     []string
	executors map[models.Stage]*recordingExecutor
	metrics   *metrics.Metrics
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.selector = mocks.NewMockSelector(s.ctrl)
	s.ledger = mocks.NewMockLedger(s.ctrl)
	s.trace = nil
	s.executors = make(map[models.Stage]*recordingExecutor)
	for _, st := range models.Pipeline {
		s.executors[st] = &recordingExecutor{stage: st, trace: &s.trace}
	}
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())

	svc, err := New(s.selector, s.ledger, Pipeline(
		s.executors[models.StageDocuments],
		s.executors[models.StageMessages],
		s.executors[models.StageStorageAccounts],
		s.executors[models.StageDatabaseTables],
		s.executors[models.StageRedactedFlag],
	), WithMetrics(s.metrics))
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) batch(status models.Progress) models.Batch {
	date := mustDate(s.T(), "2025-08-05")
	return models.Batch{
		Records: []models.RedactionRecord{{
			ID:                    uuid.New(),
			ApplicationReference:  "REF-001",
			RequestedDate:         date,
			Status:                status,
			ReplacementIdentifier: "987654321",
		}},
		Status: status,
	}
}

func (s *ServiceSuite) TestInvalidDateNeverTouchesTheLedger() {
	err := s.service.Run(context.Background(), "2025-13-40", discard)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Empty(s.trace)
}

func (s *ServiceSuite) TestEmptyBatchIsNotAnError() {
	s.selector.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Batch{}, nil)

	s.Require().NoError(s.service.Run(context.Background(), "2025-08-05", discard))
	s.Empty(s.trace)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.BatchOutcome.WithLabelValues("empty")))
}

func (s *ServiceSuite) TestRunsEveryStageInOrder() {
	batch := s.batch(models.ProgressNone)
	s.selector.EXPECT().Select(gomock.Any(), batch.Records[0].RequestedDate, gomock.Any()).Return(batch, nil)
	s.ledger.EXPECT().MarkSucceeded(gomock.Any(), batch.Records).Return(nil)

	s.Require().NoError(s.service.Run(context.Background(), "2025-08-05", discard))
	s.Equal([]string{"documents", "messages", "storage-accounts", "database-tables", "redacted-flag"}, s.trace)
	for i, st := range models.Pipeline {
		s.Equal([]models.Progress{models.Progress(i)}, s.executors[st].seen, "stage %s sees progress before it", st)
	}
	s.Equal(1.0, testutil.ToFloat64(s.metrics.BatchOutcome.WithLabelValues("succeeded")))
}

func (s *ServiceSuite) TestResumeSkipsCompletedStages() {
	batch := s.batch(models.Progress(2))
	s.selector.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).Return(batch, nil)
	s.ledger.EXPECT().MarkSucceeded(gomock.Any(), batch.Records).Return(nil)

	s.Require().NoError(s.service.Run(context.Background(), "2025-08-05", discard))
	s.Equal([]string{"storage-accounts", "database-tables", "redacted-flag"}, s.trace)
	s.Equal([]models.Progress{2}, s.executors[models.StageStorageAccounts].seen)
	s.Equal([]models.Progress{4}, s.executors[models.StageRedactedFlag].seen)
}

func (s *ServiceSuite) TestStageFailureAborts() {
	stageErr := &models.StageError{Stage: models.StageMessages, Err: errors.New("503")}
	s.executors[models.StageMessages].err = stageErr
	s.selector.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.batch(models.ProgressNone), nil)

	err := s.service.Run(context.Background(), "2025-08-05", discard)
	s.ErrorIs(err, stageErr)
	s.Equal([]string{"documents", "messages"}, s.trace)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.BatchOutcome.WithLabelValues("failed")))
}

func (s *ServiceSuite) TestSelectionFailurePropagates() {
	selErr := &models.SelectionError{Err: errors.New("connection refused")}
	s.selector.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Batch{}, selErr)

	err := s.service.Run(context.Background(), "2025-08-05", discard)
	var target *models.SelectionError
	s.ErrorAs(err, &target)
	s.Empty(s.trace)
}

func (s *ServiceSuite) TestCompletionWriteFailure() {
	s.selector.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.batch(models.Progress(4)), nil)
	s.ledger.EXPECT().MarkSucceeded(gomock.Any(), gomock.Any()).Return(errors.New("deadlock detected"))

	err := s.service.Run(context.Background(), "2025-08-05", discard)
	var lwErr *models.LedgerWriteError
	s.Require().ErrorAs(err, &lwErr)
	s.Equal("complete", lwErr.Op)
	s.Equal([]string{"redacted-flag"}, s.trace)
}

func (s *ServiceSuite) TestList() {
	records := s.batch(models.ProgressComplete).Records
	s.ledger.EXPECT().ListByDate(gomock.Any(), records[0].RequestedDate).Return(records, nil)

	got, err := s.service.List(context.Background(), "2025-08-05")
	s.Require().NoError(err)
	s.Equal(records, got)

	_, err = s.service.List(context.Background(), "05/08/2025")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNewRejectsMisorderedPipeline(t *testing.T) {
	ctrl := gomock.NewController(t)
	var trace []string
	exec := func(st models.Stage) *recordingExecutor { return &recordingExecutor{stage: st, trace: &trace} }

	steps := Pipeline(exec(models.StageDocuments), exec(models.StageMessages), exec(models.StageStorageAccounts), exec(models.StageDatabaseTables), exec(models.StageRedactedFlag))
	steps[1], steps[2] = steps[2], steps[1]
	_, err := New(mocks.NewMockSelector(ctrl), mocks.NewMockLedger(ctrl), steps)
	assert.Error(t, err)

	_, err = New(mocks.NewMockSelector(ctrl), mocks.NewMockLedger(ctrl), steps[:4])
	assert.Error(t, err)

	steps = Pipeline(exec(models.StageDocuments), nil, exec(models.StageStorageAccounts), exec(models.StageDatabaseTables), exec(models.StageRedactedFlag))
	_, err = New(mocks.NewMockSelector(ctrl), mocks.NewMockLedger(ctrl), steps)
	require.Error(t, err)
}

func mustDate(t *testing.T, s string) models.RequestedDate {
	t.Helper()
	d, err := models.ParseRequestedDate(s)
	require.NoError(t, err)
	return d
}
