package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		title string
		want  Status
	}{
		{"Backlog", StatusBacklog},
		{"backlog", StatusBacklog},
		{"  BACKLOG  ", StatusBacklog},
		{"To Do", StatusTodo},
		{"todo", StatusTodo},
		{"TO DO", StatusTodo},
		{"In Progress", StatusInProgress},
		{"inprogress", StatusInProgress},
		{"progress", StatusInProgress},
		{"Done", StatusDone},
		{"completed", StatusDone},
		{"Review", CustomStatus("Review")},
		{"  QA Check ", CustomStatus("QA Check")},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.True(t, DeriveStatus(tt.title).Equal(tt.want))
		})
	}
}

func TestDeriveStatusCustomKeepsOriginalCase(t *testing.T) {
	status := DeriveStatus("Waiting On Vendor")
	assert.Equal(t, "Waiting On Vendor", status.String())
	assert.False(t, status.IsTodo())
	assert.False(t, status.IsBacklog())
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Backlog", StatusBacklog.String())
	assert.Equal(t, "Todo", StatusTodo.String())
	assert.Equal(t, "In Progress", StatusInProgress.String())
	assert.Equal(t, "Done", StatusDone.String())
	assert.Equal(t, "Reopened", StatusReopened.String())
}

func TestParseStatusRoundTrip(t *testing.T) {
	for _, status := range []Status{StatusTodo, StatusInProgress, StatusDone, StatusReopened, CustomStatus("Review")} {
		assert.True(t, ParseStatus(status.String()).Equal(status))
	}
	assert.True(t, ParseStatus("").Equal(StatusBacklog))
	assert.True(t, ParseStatus("Backlog").Equal(StatusBacklog))
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(StatusBacklog)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = json.Marshal(StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, `"In Progress"`, string(data))

	var status Status
	require.NoError(t, json.Unmarshal([]byte("null"), &status))
	assert.True(t, status.IsBacklog())

	require.NoError(t, json.Unmarshal([]byte(`"Reopened"`), &status))
	assert.True(t, status.IsReopened())

	require.NoError(t, json.Unmarshal([]byte(`"Design"`), &status))
	assert.True(t, status.Equal(CustomStatus("Design")))
}

func TestStatusZeroValueIsBacklog(t *testing.T) {
	var status Status
	assert.True(t, status.IsBacklog())
	assert.True(t, status.Equal(StatusBacklog))
}
