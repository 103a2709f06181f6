package questiongen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeace/jeeace/internal/testconfig"
)

// fakeGenerator returns n numbered questions per subject, or a preset error.
type fakeGenerator struct {
	have   map[string]int
	errs   map[string]error
	inputs []GenerateInput
}

func (f *fakeGenerator) Generate(_ context.Context, in GenerateInput) ([]testconfig.Question, error) {
	f.inputs = append(f.inputs, in)
	if err := f.errs[in.Subject]; err != nil {
		return nil, err
	}
	n := in.Count
	if h, ok := f.have[in.Subject]; ok {
		n = h
	}
	var out []testconfig.Question
	for i := 0; i < n; i++ {
		out = append(out, testconfig.Question{
			Question: fmt.Sprintf("%s %d", in.Subject, i),
			Options:  []string{"1", "2", "3", "4"},
			Answer:   "A",
		})
	}
	return out, nil
}

func TestBuild(t *testing.T) {
	plan, err := NewPlan(PlanOptions{
		Counts:     map[string]int{"Physics": 5, "Chemistry": 6, "Mathematics": 7},
		Duration:   "3hours",
		Difficulty: DifficultyAdvanced,
	})
	require.NoError(t, err)

	gen := &fakeGenerator{have: map[string]int{"Chemistry": 9, "Mathematics": 2}}
	cfg, err := Build(context.Background(), gen, plan, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 5+6+2, cfg.TotalQuestions)
	assert.Len(t, cfg.Questions, 13)
	assert.Equal(t, 180, cfg.TimeLimit)
	assert.Equal(t, "Physics", cfg.Questions[0].Subject)
	assert.Equal(t, "Chemistry", cfg.Questions[5].Subject)
	assert.Equal(t, "Mathematics", cfg.Questions[12].Subject)
	assert.Equal(t, DifficultyAdvanced, gen.inputs[0].Difficulty)
	require.NoError(t, testconfig.Validate(cfg))
}

func TestBuild_SubjectWithNoQuestions(t *testing.T) {
	plan, err := NewPlan(PlanOptions{})
	require.NoError(t, err)

	gen := &fakeGenerator{
		have: map[string]int{"Chemistry": 0},
		errs: map[string]error{"Mathematics": errors.New("upstream down")},
	}
	_, err = Build(context.Background(), gen, plan, zerolog.Nop())

	var se *SubjectError
	require.ErrorAs(t, err, &se)
	assert.Len(t, se.Failed, 2)
	assert.ErrorIs(t, se.Failed["Chemistry"], ErrNoQuestions)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestBuild_Canceled(t *testing.T) {
	plan, err := NewPlan(PlanOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, &fakeGenerator{}, plan, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}
