//go:build integration

package tabular

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ahwr/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedis(s.redis.Client.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestPutQueryMergeRekey() {
	ctx := context.Background()
	ts := time.Date(2021, 9, 1, 12, 30, 0, 0, time.UTC)
	entity := Entity{
		PartitionKey: "123456789",
		RowKey:       "evt-1",
		Timestamp:    ts,
		Properties:   map[string]string{"Payload": `{"name":"Giles"}`, "EventType": "claim"},
	}
	s.Require().NoError(s.store.Put(ctx, "ahwreventstore", entity))

	rows, err := s.store.Query(ctx, "ahwreventstore", "123456789")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(ts, rows[0].Timestamp)
	s.Equal("claim", rows[0].Properties["EventType"])

	s.Require().NoError(s.store.Merge(ctx, "ahwreventstore", Entity{
		PartitionKey: "123456789",
		RowKey:       "evt-1",
		Properties:   map[string]string{"Payload": `{"name":"REDACTED_NAME"}`},
	}))
	rows, err = s.store.Query(ctx, "ahwreventstore", "123456789")
	s.Require().NoError(err)
	s.Equal(`{"name":"REDACTED_NAME"}`, rows[0].Properties["Payload"])
	s.Equal("claim", rows[0].Properties["EventType"])

	s.Require().NoError(s.store.Rekey(ctx, "ahwreventstore", rows[0], "987654321"))
	old, err := s.store.Query(ctx, "ahwreventstore", "123456789")
	s.Require().NoError(err)
	s.Empty(old)
	moved, err := s.store.Query(ctx, "ahwreventstore", "987654321")
	s.Require().NoError(err)
	s.Require().Len(moved, 1)
	s.Equal("evt-1", moved[0].RowKey)
	s.Equal(`{"name":"REDACTED_NAME"}`, moved[0].Properties["Payload"])
}

func (s *RedisStoreSuite) TestMergeMissingEntity() {
	err := s.store.Merge(context.Background(), "ahwrstatus", Entity{PartitionKey: "FUSO-1", RowKey: "r"})
	s.ErrorIs(err, ErrNotFound)
}
