package testconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *TestConfiguration {
	return &TestConfiguration{
		Questions: []Question{
			{Subject: "Physics", Question: "Unit of force?", Options: []string{"N", "J", "W", "Pa"}, Answer: "A"},
			{Subject: "Chemistry", Question: "Symbol for sodium?", Options: []string{"S", "Na", "So", "N"}},
		},
		TimeLimit:      30,
		TestType:       TestTypeCustom,
		Subjects:       []string{"Physics", "Chemistry"},
		TotalQuestions: 2,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *TestConfiguration)
		wantErr error
		field   string
	}{
		{name: "valid", mutate: func(c *TestConfiguration) {}},
		{name: "no questions", mutate: func(c *TestConfiguration) { c.Questions = nil }, wantErr: ErrNoQuestions},
		{name: "zero time limit", mutate: func(c *TestConfiguration) { c.TimeLimit = 0 }, wantErr: ErrInvalidTimeLimit},
		{name: "three options", mutate: func(c *TestConfiguration) { c.Questions[0].Options = c.Questions[0].Options[:3] }, field: "questions[0].options"},
		{name: "bad answer code", mutate: func(c *TestConfiguration) { c.Questions[0].Answer = "E" }, field: "questions[0].answer"},
		{name: "missing subject", mutate: func(c *TestConfiguration) { c.Questions[1].Subject = "" }, field: "questions[1].subject"},
		{name: "unknown test type", mutate: func(c *TestConfiguration) { c.TestType = "weekly" }, field: "testType"},
		{name: "total mismatch", mutate: func(c *TestConfiguration) { c.TotalQuestions = 90 }, field: "totalQuestions"},
		{name: "total undeclared", mutate: func(c *TestConfiguration) { c.TotalQuestions = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.field != "":
				var ve *ValidationError
				require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
				assert.Contains(t, ve.Fields, tt.field)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrNoQuestions)
}

func TestOptionCode(t *testing.T) {
	assert.Equal(t, "A", OptionCode(0))
	assert.Equal(t, "D", OptionCode(3))
	assert.Equal(t, "", OptionCode(-1))

	assert.Equal(t, 1, OptionIndex("b"))
	assert.Equal(t, 3, OptionIndex(" D "))
	assert.Equal(t, -1, OptionIndex(""))
	assert.Equal(t, -1, OptionIndex("AB"))
}

func TestSubjectList(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, []string{"Physics", "Chemistry"}, cfg.SubjectList())

	cfg.Subjects = nil
	cfg.Questions = append(cfg.Questions, Question{Subject: "Physics"})
	assert.Equal(t, []string{"Physics", "Chemistry"}, cfg.SubjectList())
}
