package questiongen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeace/jeeace/internal/testconfig"
)

func TestClampCount(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 5}, {4, 5}, {5, 5}, {25, 25}, {50, 50}, {51, 50}, {-3, 5},
	}
	for _, tt := range tests {
		if got := ClampCount(tt.in); got != tt.want {
			t.Errorf("ClampCount(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDurationMinutes(t *testing.T) {
	tests := map[string]int{"": 60, "15min": 15, "30min": 30, "1hour": 60, "3hours": 180, " 3HOURS ": 180}
	for in, want := range tests {
		got, err := DurationMinutes(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := DurationMinutes("2hours")
	assert.True(t, errors.Is(err, ErrUnknownDuration))
}

func TestNewPlan_Defaults(t *testing.T) {
	p, err := NewPlan(PlanOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Physics", "Chemistry", "Mathematics"}, p.SubjectNames())
	assert.Equal(t, 75, p.TotalQuestions())
	assert.Equal(t, 60, p.TimeLimit)
	assert.Equal(t, DifficultyMixed, p.Difficulty)
	assert.Equal(t, ModeTimed, p.Mode)
}

func TestNewPlan_CountsAndDedup(t *testing.T) {
	p, err := NewPlan(PlanOptions{
		Subjects: []string{"Physics", " Physics", "Mathematics", ""},
		Counts:   map[string]int{"Physics": 2, "Mathematics": 80},
		Duration: "30min",
		Topics:   []string{"Kinematics"},
		Mode:     ModeUntimed,
	})
	require.NoError(t, err)

	require.Len(t, p.Subjects, 2)
	assert.Equal(t, SubjectPlan{Subject: "Physics", Count: 5, Topics: []string{"Kinematics"}}, p.Subjects[0])
	assert.Equal(t, 50, p.Subjects[1].Count)
	assert.Equal(t, 30, p.TimeLimit)
	assert.Equal(t, ModeUntimed, p.Mode)
}

func TestNewPlan_Errors(t *testing.T) {
	_, err := NewPlan(PlanOptions{Subjects: []string{" "}})
	assert.ErrorIs(t, err, ErrNoSubjects)

	_, err = NewPlan(PlanOptions{Duration: "forever"})
	assert.ErrorIs(t, err, ErrUnknownDuration)
}

func TestPlanConfiguration(t *testing.T) {
	p, err := NewPlan(PlanOptions{Subjects: []string{"Chemistry"}, Duration: "15min", Difficulty: DifficultyAdvanced, Name: "Quick chem"})
	require.NoError(t, err)

	qs := []testconfig.Question{*validQuestion(), *validQuestion()}
	cfg := p.Configuration(qs)

	assert.Equal(t, "Quick chem", cfg.TestName)
	assert.Equal(t, testconfig.TestTypeCustom, cfg.TestType)
	assert.Equal(t, 15, cfg.TimeLimit)
	assert.Equal(t, 2, cfg.TotalQuestions)
	assert.Equal(t, []string{"Chemistry"}, cfg.Subjects)
	assert.Equal(t, "advanced", cfg.DifficultyLevel)
	assert.Equal(t, "timed", cfg.TestMode)
}
