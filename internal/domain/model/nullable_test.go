package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullable_DistinguishesOmittedNullAndValue(t *testing.T) {
	type body struct {
		Notes        Nullable[string]    `json:"notes"`
		ReminderDate Nullable[time.Time] `json:"reminderDate"`
	}

	var omitted body
	require.NoError(t, json.Unmarshal([]byte(`{}`), &omitted))
	assert.False(t, omitted.Notes.Set)
	assert.False(t, omitted.ReminderDate.Set)

	var cleared body
	require.NoError(t, json.Unmarshal([]byte(`{"notes":null,"reminderDate":null}`), &cleared))
	assert.True(t, cleared.Notes.Set)
	assert.False(t, cleared.Notes.Valid)
	assert.True(t, cleared.ReminderDate.Set)
	assert.Nil(t, cleared.ReminderDate.Ptr())

	var set body
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"two pointers","reminderDate":"2024-03-01T10:00:00Z"}`), &set))
	assert.True(t, set.Notes.Valid)
	assert.Equal(t, "two pointers", set.Notes.Value)
	require.NotNil(t, set.ReminderDate.Ptr())
	assert.True(t, set.ReminderDate.Value.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestNullable_RejectsWrongType(t *testing.T) {
	var n Nullable[time.Time]
	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &n))
}

func TestNullable_Marshal(t *testing.T) {
	b, err := json.Marshal(NullOf[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = json.Marshal(NullableOf("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(b))
}

func TestNullable_EmptyStringIsNull(t *testing.T) {
	var n Nullable[string]
	require.NoError(t, json.Unmarshal([]byte(`""`), &n))
	assert.True(t, n.Set)
	assert.False(t, n.Valid)
	assert.Nil(t, n.Ptr())
}
