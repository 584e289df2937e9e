package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samuelfneumann/tdpong/experiment"
	"github.com/samuelfneumann/tdpong/experiment/tracker"
)

// Chart collects a bar chart of the bounce histogram of every report
// and renders them together as a single HTML page
type Chart struct {
	title  string
	charts []*charts.Bar
}

// NewChart returns a new Chart reporter whose page has the given title
func NewChart(title string) *Chart {
	return &Chart{title: title}
}

// Report adds a bar chart of the histogram of r
func (c *Chart) Report(phase experiment.Phase, r tracker.Report) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%v batch %v", phase, len(c.charts)+1),
			Subtitle: fmt.Sprintf("%v episodes, max %v, mean %.3f",
				r.Episodes, r.Max, r.Mean),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: c.title,
			Theme:     "shine",
		}),
	)

	xAxis := make([]string, len(r.Histogram))
	items := make([]opts.BarData, len(r.Histogram))
	for bounces, count := range r.Histogram {
		xAxis[bounces] = strconv.Itoa(bounces)
		items[bounces] = opts.BarData{Value: count}
	}
	bar.SetXAxis(xAxis).AddSeries("episodes", items)

	c.charts = append(c.charts, bar)
	return nil
}

// Len returns the number of charts collected
func (c *Chart) Len() int {
	return len(c.charts)
}

// Render renders all collected charts as an HTML page to w
func (c *Chart) Render(w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = c.title
	for _, bar := range c.charts {
		page.AddCharts(bar)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Save renders all collected charts as an HTML page to filename
func (c *Chart) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create file: %w", err)
	}
	defer f.Close()

	return c.Render(f)
}
