package poller

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/olekukonko/tablewriter"

	"hotelmgt/internal/activity/feed"
)

const timeLayout = "15:04:05"

// TablePresenter renders each feed as a text table on w. Safe for concurrent use.
type TablePresenter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTablePresenter returns a presenter writing to w.
func NewTablePresenter(w io.Writer) *TablePresenter {
	return &TablePresenter{w: w}
}

// Present writes the summary line and, unless the feed is empty, one row per event.
func (p *TablePresenter) Present(_ context.Context, res *feed.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w, res.Summary)
	if res.Empty {
		fmt.Fprintln(p.w, "No activity recorded for this day.")
		return
	}

	table := tablewriter.NewWriter(p.w)
	table.SetHeader([]string{"Time", "Employee", "Type", "Description"})
	table.SetAutoWrapText(false)
	for _, ev := range res.Events {
		table.Append([]string{ev.Timestamp.Format(timeLayout), ev.ActorName, ev.DisplayType, ev.Description})
	}
	table.Render()
	if res.Skipped > 0 {
		fmt.Fprintf(p.w, "%d malformed rows skipped\n", res.Skipped)
	}
}

// PresentError writes err on its own line.
func (p *TablePresenter) PresentError(_ context.Context, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "error: %v\n", err)
}
