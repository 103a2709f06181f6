package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/testconfig"
)

type mapLoader struct {
	tests map[string]*testconfig.TestConfiguration
	err   error
}

func (m mapLoader) LoadTest(_ context.Context, key string) (*testconfig.TestConfiguration, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tests[key], nil
}

func TestBootstrap(t *testing.T) {
	signedIn := auth.Identity{Loaded: true, UserID: "user_1"}
	valid := testConfig("Physics", "Chemistry", "Mathematics")
	valid.TimeLimit = 180

	empty := testConfig()
	badOptions := testConfig("Physics")
	badOptions.Questions[0].Options = []string{"only one"}

	tests := []struct {
		name    string
		user    auth.Identity
		loader  mapLoader
		wantErr error
		create  bool
	}{
		{name: "identity loading", user: auth.Identity{}, wantErr: ErrIdentityNotLoaded},
		{name: "signed out", user: auth.Identity{Loaded: true}, wantErr: ErrUnauthenticated},
		{name: "no test stored", user: signedIn, loader: mapLoader{}, wantErr: ErrNoTest, create: true},
		{name: "zero questions", user: signedIn, loader: mapLoader{tests: map[string]*testconfig.TestConfiguration{testconfig.StorageKey: empty}}, wantErr: ErrEmptyTest, create: true},
		{name: "invalid options", user: signedIn, loader: mapLoader{tests: map[string]*testconfig.TestConfiguration{testconfig.StorageKey: badOptions}}, wantErr: ErrInvalidTest, create: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Bootstrap(context.Background(), tt.user, tt.loader, Deps{Scheduler: NewManualScheduler()})
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.create, NeedsCreate(err))
		})
	}

	t.Run("valid", func(t *testing.T) {
		sched := NewManualScheduler()
		loader := mapLoader{tests: map[string]*testconfig.TestConfiguration{testconfig.StorageKey: valid}}
		s, err := Bootstrap(context.Background(), signedIn, loader, Deps{Scheduler: sched, Evaluator: &gradingEvaluator{}})
		require.NoError(t, err)
		defer s.Close()

		snap := s.Snapshot()
		assert.Equal(t, PhaseInProgress, snap.Phase)
		assert.Equal(t, 180*60, snap.Remaining)
		assert.Equal(t, 0, snap.Current)
		assert.Equal(t, 0, snap.AnsweredCount)
		assert.Equal(t, 0, snap.MarkedCount)
		assert.Equal(t, 1, sched.Pending())
	})

	t.Run("loader error", func(t *testing.T) {
		boom := errors.New("disk full")
		_, err := Bootstrap(context.Background(), signedIn, mapLoader{err: boom}, Deps{})
		assert.ErrorIs(t, err, boom)
		assert.False(t, NeedsCreate(err))
	})
}
