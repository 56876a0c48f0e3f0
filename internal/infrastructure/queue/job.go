package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

type JobType string

const (
	JobDeleteObject JobType = "delete_object"
)

// MaxAttempts bounds how often a job is retried before it is dropped and left
// to the orphan sweeper.
const MaxAttempts = 5

type Job struct {
	Type       JobType   `json:"type"`
	URL        string    `json:"url"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func NewDeleteJob(url string) Job {
	return Job{Type: JobDeleteObject, URL: url, EnqueuedAt: time.Now()}
}

func (j Job) Serialize() (string, error) {
	data, err := json.Marshal(j)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func DeserializeJob(raw string) (*Job, error) {
	var j Job
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return nil, fmt.Errorf("deserialize job: %w", err)
	}
	if j.Type == "" || j.URL == "" {
		return nil, fmt.Errorf("deserialize job: missing type or url in %q", raw)
	}
	return &j, nil
}
