package redislock_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/redislock"
	"dispatch/internal/adapters/out/redistest"

	"github.com/stretchr/testify/suite"
)

type SweepLockIntegrationTestSuite struct {
	suite.Suite
	server *redistest.Server
}

func (suite *SweepLockIntegrationTestSuite) SetupSuite() {
	server, err := redistest.Start(context.Background())
	suite.Require().NoError(err)
	suite.server = server
}

func (suite *SweepLockIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.server.Flush(context.Background()))
}

func (suite *SweepLockIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.server.Terminate(context.Background()))
}

func (suite *SweepLockIntegrationTestSuite) lock(ttl time.Duration) *redislock.SweepLock {
	l, err := redislock.NewSweepLock(suite.server.Client, "", ttl)
	suite.Require().NoError(err)
	return l
}

func (suite *SweepLockIntegrationTestSuite) TestSecondHolderIsRefused() {
	ctx := suite.T().Context()
	first, second := suite.lock(time.Minute), suite.lock(time.Minute)

	unlock, ok, err := first.TryLock(ctx)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	other, ok, err := second.TryLock(ctx)
	suite.Require().NoError(err)
	suite.False(ok)
	suite.Nil(other)

	suite.Require().NoError(unlock(ctx))

	_, ok, err = second.TryLock(ctx)
	suite.Require().NoError(err)
	suite.True(ok, "lock is free after release")
}

func (suite *SweepLockIntegrationTestSuite) TestExpiredLockIsNotReleasedByOldHolder() {
	ctx := suite.T().Context()
	l := suite.lock(100 * time.Millisecond)

	staleUnlock, ok, err := l.TryLock(ctx)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	suite.Eventually(func() bool {
		_, ok, err := l.TryLock(ctx)
		return err == nil && ok
	}, 2*time.Second, 50*time.Millisecond)

	suite.ErrorIs(staleUnlock(ctx), redislock.ErrLockLost)
	exists, err := suite.server.Client.Exists(ctx, redislock.DefaultKey).Result()
	suite.Require().NoError(err)
	suite.EqualValues(1, exists, "the new holder keeps the lock")
}

func TestNewSweepLock_Requirements(t *testing.T) {
	if _, err := redislock.NewSweepLock(nil, "", time.Second); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestSweepLockIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SweepLockIntegrationTestSuite))
}
