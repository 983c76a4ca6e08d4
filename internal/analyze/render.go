package analyze

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart file names mirror the aggregates they render.
const (
	HeatmapFile       = "class_schedule_heatmap.html"
	PerDayFile        = "classes_per_day.html"
	PerHourFile       = "classes_per_hour.html"
	TopCoursesFile    = "top_courses_by_hours.html"
	heatmapGradientLo = "#fffde7"
	heatmapGradientHi = "#d32f2f"
)

// RenderCharts writes the heatmap and the three bar charts as
// self-contained HTML documents under dir and returns the written paths.
func RenderCharts(a *Analysis, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory %s: %w", dir, err)
	}

	written := make([]string, 0, 4)

	path := filepath.Join(dir, HeatmapFile)
	if err := renderTo(path, buildHeatmap(a)); err != nil {
		return written, err
	}
	written = append(written, path)

	path = filepath.Join(dir, PerDayFile)
	if err := renderTo(path, buildPerDayBar(a)); err != nil {
		return written, err
	}
	written = append(written, path)

	path = filepath.Join(dir, PerHourFile)
	if err := renderTo(path, buildPerHourBar(a)); err != nil {
		return written, err
	}
	written = append(written, path)

	path = filepath.Join(dir, TopCoursesFile)
	if err := renderTo(path, buildTopCoursesBar(a)); err != nil {
		return written, err
	}
	written = append(written, path)

	return written, nil
}

type renderable interface {
	Render(w io.Writer) error
}

func renderTo(path string, chart renderable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render chart %s: %w", path, err)
	}
	return nil
}

func buildHeatmap(a *Analysis) *charts.HeatMap {
	hours := Hours()
	hourLabels := make([]string, len(hours))
	maxCount := 0
	data := make([]opts.HeatMapData, 0, len(DayOrder)*len(hours))

	for yi, hour := range hours {
		hourLabels[yi] = fmt.Sprintf("%02d:00", hour)
	}
	for xi, day := range DayOrder {
		for yi, hour := range hours {
			count := a.Heatmap[day][hour]
			if count > maxCount {
				maxCount = count
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{xi, yi, count}})
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Class Schedule Heatmap", Width: "1200px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Class Schedule Heatmap", Subtitle: "Number of classes by day and hour"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: DayOrder}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: hourLabels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        float32(maxCount),
			InRange:    &opts.VisualMapInRange{Color: []string{heatmapGradientLo, heatmapGradientHi}},
		}),
	)
	hm.AddSeries("classes", data)
	return hm
}

func buildPerDayBar(a *Analysis) *charts.Bar {
	values := make([]opts.BarData, len(DayOrder))
	for i, day := range DayOrder {
		values[i] = opts.BarData{Value: a.CoursesPerDay[day]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Courses per Day", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Number of Unique Courses per Day"}),
	)
	bar.SetXAxis(DayOrder).AddSeries("courses", values)
	return bar
}

func buildPerHourBar(a *Analysis) *charts.Bar {
	hours := a.SortedHours()
	labels := make([]string, len(hours))
	values := make([]opts.BarData, len(hours))
	for i, hour := range hours {
		labels[i] = strconv.Itoa(hour)
		values[i] = opts.BarData{Value: a.CoursesPerHour[hour]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Courses per Hour", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Number of Unique Courses per Hour", Subtitle: "Hour of day, 24h format"}),
	)
	bar.SetXAxis(labels).AddSeries("courses", values)
	return bar
}

func buildTopCoursesBar(a *Analysis) *charts.Bar {
	labels := make([]string, len(a.TopCourses))
	values := make([]opts.BarData, len(a.TopCourses))
	for i, course := range a.TopCourses {
		labels[i] = course.Code
		values[i] = opts.BarData{Value: course.Hours}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Top Courses", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Top 10 Courses with Most Class Hours"}),
	)
	bar.SetXAxis(labels).AddSeries("hours", values)
	return bar
}
