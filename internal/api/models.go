package api

import "strconv"

// Job is a scheduler job as returned by /api/scheduler/jobs.
type Job struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	JobType           string  `json:"job_type"`
	CronExpression    *string `json:"cron_expression"`
	IntervalSeconds   *int    `json:"interval_seconds"`
	ScheduledTime     *string `json:"scheduled_time"`
	IsActive          bool    `json:"is_active"`
	MaxInstances      int     `json:"max_instances"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RetryCount        int     `json:"retry_count"`
	RetryDelaySeconds int     `json:"retry_delay_seconds"`
	LastRun           *string `json:"last_run"`
	NextRun           *string `json:"next_run"`
	RunCount          int     `json:"run_count"`
	SuccessCount      int     `json:"success_count"`
	FailureCount      int     `json:"failure_count"`
}

// Schedule describes when the job runs, e.g. "cron 0 * * * *" or "every 300s".
func (j Job) Schedule() string {
	switch {
	case j.CronExpression != nil && *j.CronExpression != "":
		return "cron " + *j.CronExpression
	case j.IntervalSeconds != nil:
		return "every " + strconv.Itoa(*j.IntervalSeconds) + "s"
	case j.ScheduledTime != nil:
		return "at " + *j.ScheduledTime
	}
	return j.JobType
}

// Process is one ETL run as returned by /api/etl/processes.
type Process struct {
	ID               int            `json:"id"`
	JobID            *int           `json:"job_id"`
	Filename         string         `json:"filename"`
	Filepath         *string        `json:"filepath"`
	Status           string         `json:"status"`
	StartTime        *string        `json:"start_time"`
	EndTime          *string        `json:"end_time"`
	DurationSeconds  *float64       `json:"duration_seconds"`
	RecordsProcessed int64          `json:"records_processed"`
	RecordsInserted  int64          `json:"records_inserted"`
	RecordsUpdated   int64          `json:"records_updated"`
	RecordsSkipped   int64          `json:"records_skipped"`
	RecordsError     int64          `json:"records_error"`
	ErrorMessage     *string        `json:"error_message"`
	Metadata         map[string]any `json:"metadata"`
	CreatedAt        *string        `json:"created_at"`
}

// ProcessFilter narrows ListProcesses. Zero values mean "all" and the
// server-side default limit.
type ProcessFilter struct {
	Status string
	Limit  int
}

// Health is the /api/system/health payload.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
	System    struct {
		CPUPercent        float64 `json:"cpu_percent"`
		MemoryPercent     float64 `json:"memory_percent"`
		MemoryAvailableGB float64 `json:"memory_available_gb"`
		DiskPercent       float64 `json:"disk_percent"`
		DiskFreeGB        float64 `json:"disk_free_gb"`
	} `json:"system"`
	ETL struct {
		TotalProcesses int `json:"total_processes"`
		ActiveJobs     int `json:"active_jobs"`
		RecentErrors   int `json:"recent_errors"`
	} `json:"etl"`
}
