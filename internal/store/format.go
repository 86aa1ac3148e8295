package store

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormattedJob is a job annotated for display. Status is a fixed label until
// real lifecycle states exist.
type FormattedJob struct {
	Job
	DisplayPrice string `json:"displayPrice"`
	DisplayDate  string `json:"displayDate"`
	Status       string `json:"status"`
}

// FormattedJobs is a pure derived view over the collection; it never mutates
// stored state.
func (s *Store) FormattedJobs() []FormattedJob {
	jobs := s.Jobs()
	out := make([]FormattedJob, len(jobs))
	for i, j := range jobs {
		out[i] = FormattedJob{
			Job:          j,
			DisplayPrice: "$" + humanize.Commaf(j.Budget),
			DisplayDate:  time.UnixMilli(j.CreatedAt).Format("Jan 2, 2006"),
			Status:       "Active",
		}
	}
	return out
}
