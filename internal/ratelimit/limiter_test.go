package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
)

type LimiterSuite struct {
	suite.Suite
	limiter *Limiter
	base    time.Time
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupTest() {
	s.limiter = New(60*time.Second, 5)
	s.base = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
}

func (s *LimiterSuite) at(offset time.Duration) context.Context {
	return requesttime.WithTime(context.Background(), s.base.Add(offset))
}

func (s *LimiterSuite) TestAllowsUpToMaxWithinWindow() {
	for i := 0; i < 5; i++ {
		s.NoError(s.limiter.CheckAndIncrement(s.at(time.Duration(i)*time.Second), "auth:a@example.com"))
	}

	err := s.limiter.CheckAndIncrement(s.at(10*time.Second), "auth:a@example.com")
	s.Require().True(dErrors.HasCode(err, dErrors.CodeRateLimited))

	retryAfter := dErrors.RetryAfter(err)
	s.Greater(retryAfter, 0)
	s.LessOrEqual(retryAfter, 60)
}

func (s *LimiterSuite) TestBlockedAttemptsDoNotExtendTheWindow() {
	for i := 0; i < 5; i++ {
		s.NoError(s.limiter.CheckAndIncrement(s.at(0), "auth:a@example.com"))
	}

	// Hammering a blocked scope never increments; the window still ends
	// exactly 60s after the first attempt.
	for i := 0; i < 10; i++ {
		err := s.limiter.CheckAndIncrement(s.at(30*time.Second), "auth:a@example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
	}

	s.NoError(s.limiter.CheckAndIncrement(s.at(61*time.Second), "auth:a@example.com"))
}

func (s *LimiterSuite) TestWindowBoundaryResetsCleanly() {
	for i := 0; i < 5; i++ {
		s.NoError(s.limiter.CheckAndIncrement(s.at(0), "auth:a@example.com"))
	}

	// Exactly at windowResetAt the entry is stale and replaced; the full
	// budget is available again.
	for i := 0; i < 5; i++ {
		s.NoError(s.limiter.CheckAndIncrement(s.at(60*time.Second), "auth:a@example.com"))
	}
	err := s.limiter.CheckAndIncrement(s.at(60*time.Second), "auth:a@example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
}

func (s *LimiterSuite) TestScopesAreIndependent() {
	for i := 0; i < 5; i++ {
		s.NoError(s.limiter.CheckAndIncrement(s.at(0), "auth:a@example.com"))
	}
	s.NoError(s.limiter.CheckAndIncrement(s.at(0), "auth:b@example.com"))
}

func (s *LimiterSuite) TestRetryAfterRoundsUp() {
	for i := 0; i < 5; i++ {
		s.NoError(s.limiter.CheckAndIncrement(s.at(0), "auth:a@example.com"))
	}

	// 59.2s remain in the window; retry-after must round up to 60.
	err := s.limiter.CheckAndIncrement(s.at(800*time.Millisecond), "auth:a@example.com")
	s.Require().True(dErrors.HasCode(err, dErrors.CodeRateLimited))
	s.Equal(60, dErrors.RetryAfter(err))
}

func (s *LimiterSuite) TestConcurrentAttemptsNeverExceedMax() {
	const goroutines = 50
	var wg sync.WaitGroup
	allowed := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.limiter.CheckAndIncrement(s.at(0), "auth:race@example.com"); err == nil {
				allowed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	s.Len(allowed, 5)
}

func (s *LimiterSuite) TestSweepRemovesOnlyExpiredEntries() {
	s.Require().NoError(s.limiter.CheckAndIncrement(s.at(0), "auth:old@example.com"))
	s.Require().NoError(s.limiter.CheckAndIncrement(s.at(30*time.Second), "auth:fresh@example.com"))

	removed := s.limiter.Sweep(s.base.Add(70 * time.Second))
	s.Equal(1, removed)
	s.Equal(1, s.limiter.Len())

	// The fresh scope still counts its earlier attempt.
	for i := 0; i < 4; i++ {
		s.NoError(s.limiter.CheckAndIncrement(s.at(80*time.Second), "auth:fresh@example.com"))
	}
	err := s.limiter.CheckAndIncrement(s.at(85*time.Second), "auth:fresh@example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
}

func (s *LimiterSuite) TestSweeperRunOnce() {
	sweeper := NewSweeper(s.limiter, WithSweeperInterval(time.Minute))

	s.Require().NoError(s.limiter.CheckAndIncrement(s.at(0), "auth:one@example.com"))
	s.Equal(0, sweeper.RunOnce(s.base.Add(10*time.Second)))
	s.Equal(1, sweeper.RunOnce(s.base.Add(2*time.Minute)))
	s.Equal(0, s.limiter.Len())
}
