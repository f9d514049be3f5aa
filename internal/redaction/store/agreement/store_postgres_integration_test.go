//go:build integration

package agreement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"ahwr/pkg/testutil/containers"
)

type AgreementSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
}

func TestAgreementSuite(t *testing.T) {
	suite.Run(t, new(AgreementSuite))
}

var (
	longAgo = time.Date(2021, 8, 5, 9, 0, 0, 0, time.UTC)
	cutoff  = time.Date(2022, 8, 5, 0, 0, 0, 0, time.UTC)
	recent  = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
)

func (s *AgreementSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
}

func (s *AgreementSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "redact_pii", "claims", "applications"))
}

func (s *AgreementSuite) agreement(ref, sbi string, created time.Time) {
	_, err := s.pg.DB.ExecContext(context.Background(),
		`INSERT INTO applications (reference, sbi, created_at, updated_at) VALUES ($1, $2, $3, $3)`, ref, sbi, created)
	s.Require().NoError(err)
}

func (s *AgreementSuite) claim(ref, appRef string, status int, updated time.Time) {
	_, err := s.pg.DB.ExecContext(context.Background(),
		`INSERT INTO claims (reference, application_reference, status_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`,
		ref, appRef, status, updated)
	s.Require().NoError(err)
}

func (s *AgreementSuite) TestEligibilityQueries() {
	ctx := context.Background()
	s.agreement("NO-PAY", "111111111", longAgo)
	s.agreement("NO-PAY-RECENT", "111111111", recent)
	s.agreement("REJECTED", "222222222", longAgo)
	s.claim("C-REJ", "REJECTED", ClaimStatusRejected, longAgo.Add(24*time.Hour))
	s.agreement("PAID", "333333333", longAgo)
	s.claim("C-PAID", "PAID", ClaimStatusPaid, longAgo.Add(48*time.Hour))
	s.agreement("PAID-ACTIVE", "444444444", longAgo)
	s.claim("C-PAID-ACTIVE", "PAID-ACTIVE", ClaimStatusPaid, recent)

	noPay, err := s.store.FindNoPayment(ctx, cutoff)
	s.Require().NoError(err)
	s.Require().Len(noPay, 1)
	s.Equal("NO-PAY", noPay[0].Reference)

	rejected, err := s.store.FindRejectedPayment(ctx, cutoff)
	s.Require().NoError(err)
	s.Require().Len(rejected, 1)
	s.Equal("REJECTED", rejected[0].Reference)

	paid, err := s.store.FindPaidUnclaimed(ctx, cutoff)
	s.Require().NoError(err)
	s.Require().Len(paid, 1)
	s.Equal("PAID", paid[0].Reference)

	claims, err := s.store.FindClaims(ctx, "PAID")
	s.Require().NoError(err)
	s.Require().Len(claims, 1)
	s.Equal(ClaimStatusPaid, claims[0].StatusCode)
}

func (s *AgreementSuite) TestLedgeredAgreementsAreExcluded() {
	ctx := context.Background()
	s.agreement("NO-PAY", "111111111", longAgo)
	_, err := s.pg.DB.ExecContext(ctx, `
		INSERT INTO redact_pii (id, reference, requested_date, replacement_sbi, data)
		VALUES ($1, 'NO-PAY', '2025-08-05', '999999999', '{}')
	`, uuid.New())
	s.Require().NoError(err)

	noPay, err := s.store.FindNoPayment(ctx, cutoff)
	s.Require().NoError(err)
	s.Empty(noPay)
}

func (s *AgreementSuite) TestNextAgreementAndSBILookup() {
	ctx := context.Background()
	s.agreement("FIRST", "111111111", longAgo)
	s.agreement("SECOND", "111111111", recent)

	next, err := s.store.FindNextCreatedAt(ctx, "111111111", longAgo)
	s.Require().NoError(err)
	s.Require().NotNil(next)
	s.True(next.Equal(recent))

	none, err := s.store.FindNextCreatedAt(ctx, "111111111", recent)
	s.Require().NoError(err)
	s.Nil(none)

	exists, err := s.store.SBIExists(ctx, "111111111")
	s.Require().NoError(err)
	s.True(exists)
	exists, err = s.store.SBIExists(ctx, "555555555")
	s.Require().NoError(err)
	s.False(exists)

	_, err = s.pg.DB.ExecContext(ctx,
		`INSERT INTO redact_pii (id, reference, requested_date, replacement_sbi, data) VALUES ($1, 'FIRST', $2, '555555555', '{}')`,
		uuid.New(), cutoff)
	s.Require().NoError(err)
	exists, err = s.store.SBIExists(ctx, "555555555")
	s.Require().NoError(err)
	s.True(exists, "a reserved replacement counts as in use")
}
