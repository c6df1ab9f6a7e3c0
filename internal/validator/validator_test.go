package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pollForm struct {
	Question string   `json:"question" validate:"required,max=500"`
	Type     string   `json:"type" validate:"required,poll_type"`
	Options  []string `json:"options" validate:"required,min=2,dive,required"`
}

func TestValidate_PollType(t *testing.T) {
	v := New()

	err := v.Validate(&pollForm{
		Question: "Куда едем?",
		Type:     "rated_options",
		Options:  []string{"Горы", "Море"},
	})
	assert.NoError(t, err)

	err = v.Validate(&pollForm{
		Question: "Куда едем?",
		Type:     "ranked",
		Options:  []string{"Горы", "Море"},
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	// Имя поля берется из json-тега
	assert.Contains(t, vErr.Errors, "type")
	assert.Contains(t, vErr.Errors["type"], "single, multiple, rated_options")
}

func TestValidate_MinOptions(t *testing.T) {
	v := New()

	err := v.Validate(&pollForm{
		Question: "Вопрос",
		Type:     "single",
		Options:  []string{"Единственный"},
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "options")
}
