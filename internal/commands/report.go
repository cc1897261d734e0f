package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// Stage names the pipeline step a link failed in.
type Stage string

const (
	StageResolve Stage = "resolve"
	StageFetch   Stage = "fetch"
	StageConvert Stage = "convert"
)

// Result records the outcome of a single link.
type Result struct {
	Link   string
	Title  string
	Output string
	Bytes  int64
	Stage  Stage
	Err    error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Report collects per-link results for the end-of-run summary.
type Report struct {
	results []Result
}

func (r *Report) Add(result Result) {
	r.results = append(r.results, result)
}

func (r *Report) Size() int {
	return len(r.results)
}

func (r *Report) Failures() int {
	var n int
	for _, result := range r.results {
		if result.Failed() {
			n++
		}
	}
	return n
}

// Render writes one line per link and a totals line.
func (r *Report) Render(w io.Writer) {
	if len(r.results) == 0 {
		return
	}
	var totalBytes int64
	for _, result := range r.results {
		if result.Failed() {
			fmt.Fprintf(w, "failed  %s: %s: %v\n", result.Link, result.Stage, result.Err)
			continue
		}
		fmt.Fprintf(w, "ok      %s -> %s (%s)\n", result.Link, result.Output, humanize.Bytes(uint64(result.Bytes)))
		totalBytes += result.Bytes
	}
	failures := r.Failures()
	fmt.Fprintf(w, "%d links: %d ok, %d failed, %s downloaded\n",
		len(r.results), len(r.results)-failures, failures, humanize.Bytes(uint64(totalBytes)))
}
