package cronjob

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/cleverage/tools/pkg/config"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Job kinds.
const (
	KindCommand = "command"
	KindSQL     = "sql"
)

// Job is a runnable cron job.
type Job struct {
	Group      string
	Name       string
	Schedule   string
	Command    []string
	SQL        string
	Connection string

	schedule cron.Schedule
}

// Load builds the jobs declared in groups, sorted by group then name. Every
// schedule must be a standard five field cron expression or a descriptor
// such as @daily.
func Load(groups map[string]map[string]config.CronJob) ([]Job, error) {
	var jobs []Job

	for _, group := range slices.Sorted(maps.Keys(groups)) {
		for _, name := range slices.Sorted(maps.Keys(groups[group])) {
			def := groups[group][name]

			schedule, err := cron.ParseStandard(def.Schedule)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid schedule for job %s::%s", group, name)
			}

			jobs = append(jobs, Job{
				Group:      group,
				Name:       name,
				Schedule:   def.Schedule,
				Command:    def.Command,
				SQL:        def.SQL,
				Connection: def.Connection,
				schedule:   schedule,
			})
		}
	}

	return jobs, nil
}

// Kind returns KindSQL or KindCommand.
func (j Job) Kind() string {
	if j.SQL != "" {
		return KindSQL
	}

	return KindCommand
}

// Target describes what the job runs.
func (j Job) Target() string {
	if j.SQL != "" {
		return j.SQL
	}

	return strings.Join(j.Command, " ")
}

// Next returns the first activation after t, or the zero time when the job
// wasn't loaded with a schedule.
func (j Job) Next(t time.Time) time.Time {
	if j.schedule == nil {
		return time.Time{}
	}

	return j.schedule.Next(t)
}
