package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        JobStatus
		stringValue   string
		jsonValue     string
		validForParse bool
	}{
		{
			name:          "Unknown status",
			status:        JobStatusUnknown,
			stringValue:   "unknown",
			jsonValue:     `"unknown"`,
			validForParse: true,
		},
		{
			name:          "Pending status",
			status:        JobStatusPending,
			stringValue:   "pending",
			jsonValue:     `"pending"`,
			validForParse: true,
		},
		{
			name:          "Processing status",
			status:        JobStatusProcessing,
			stringValue:   "processing",
			jsonValue:     `"processing"`,
			validForParse: true,
		},
		{
			name:          "Completed status",
			status:        JobStatusCompleted,
			stringValue:   "completed",
			jsonValue:     `"completed"`,
			validForParse: true,
		},
		{
			name:          "Failed status",
			status:        JobStatusFailed,
			stringValue:   "failed",
			jsonValue:     `"failed"`,
			validForParse: true,
		},
		{
			name:          "Invalid status",
			stringValue:   "invalid_status",
			jsonValue:     `"invalid_status"`,
			validForParse: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseJobStatus(tt.stringValue)
			if tt.validForParse {
				assert.NoError(t, err)
				assert.Equal(t, tt.status, parsed)
				assert.Equal(t, tt.stringValue, parsed.String())

				data, err := json.Marshal(&parsed)
				assert.NoError(t, err)
				assert.Equal(t, tt.jsonValue, string(data))

				var roundTrip JobStatus
				assert.NoError(t, json.Unmarshal(data, &roundTrip))
				assert.Equal(t, tt.status, roundTrip)
			} else {
				assert.Error(t, err)

				var status JobStatus
				assert.Error(t, json.Unmarshal([]byte(tt.jsonValue), &status))
			}
		})
	}
}

func TestJobStatusIsTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusProcessing.IsTerminal())
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
}

func TestStoryJobValidate(t *testing.T) {
	job := &StoryJob{JobID: "abc", Theme: "pirates"}
	assert.NoError(t, job.Validate())

	assert.Error(t, (&StoryJob{Theme: "pirates"}).Validate())
	assert.Error(t, (&StoryJob{JobID: "abc"}).Validate())
}

func TestStoryJobBeforeCreateDefaultsStatus(t *testing.T) {
	job := &StoryJob{JobID: "abc", Theme: "pirates"}
	assert.NoError(t, job.BeforeCreate(nil))
	assert.Equal(t, JobStatusPending, job.Status)
}
