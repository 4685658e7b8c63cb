package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Operation string

const (
	OperationCreation Operation = "Creation"
	OperationUpdate   Operation = "Update"
	OperationUpToDate Operation = "Already up-to-date"
)

// Report is the outcome of the deployment of one artifact
type Report struct {
	Name      string
	Operation Operation
	Failed    bool
	Error     error
	Metadata  map[string]string
}

func Failure(name string, err error) Report {
	return Report{Name: name, Failed: true, Error: err}
}

type Reports []Report

func (rs Reports) Failed() bool {
	return rs.Failures() > 0
}

func (rs Reports) Failures() int {
	n := 0

	for _, r := range rs {
		if r.Failed {
			n++
		}
	}

	return n
}

type DeployFunc[T any] func(ctx context.Context, item T) Report

// Deploy runs fn over items with at most workers concurrent calls. A failed
// item never cancels its siblings and reports keep the order of items. Items
// skipped after a cancellation are reported under their name.
func Deploy[T any](ctx context.Context, items []T, workers int, name func(T) string, fn DeployFunc[T]) Reports {
	if workers < 1 {
		workers = 1
	}

	rs := make(Reports, len(items))

	var g errgroup.Group

	g.SetLimit(workers)

	for i := range items {
		i := i

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				rs[i] = Failure(name(items[i]), err)
				return nil
			}

			r := fn(ctx, items[i])
			if r.Error != nil {
				r.Failed = true
			}

			rs[i] = r

			return nil
		})
	}

	g.Wait()

	return rs
}
