package jobs_test

import (
	"errors"
	"testing"

	"dispatch/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJob struct {
	mock.Mock
}

func (m *MockJob) Start() error {
	return m.Called().Error(0)
}

func (m *MockJob) Stop() {
	m.Called()
}

func TestJobManager_StartAndStop(t *testing.T) {
	first, second := new(MockJob), new(MockJob)
	first.On("Start").Return(nil)
	second.On("Start").Return(nil)
	first.On("Stop").Once()
	second.On("Stop").Once()

	jm := jobs.NewJobManager()
	jm.Register("first", first)
	jm.Register("second", second)

	require.NoError(t, jm.StartAll())
	jm.StopAll()
	jm.StopAll()

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestJobManager_FailedStartStopsStartedJobs(t *testing.T) {
	ok, broken := new(MockJob), new(MockJob)
	ok.On("Start").Return(nil)
	ok.On("Stop").Once()
	broken.On("Start").Return(errors.New("bad schedule"))

	jm := jobs.NewJobManager()
	jm.Register("ok", ok)
	jm.Register("broken", broken)

	err := jm.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	ok.AssertExpectations(t)
	broken.AssertNotCalled(t, "Stop")
}
