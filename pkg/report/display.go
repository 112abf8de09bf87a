package report

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// PrettyPrintReports renders the dashboard listing.
func PrettyPrintReports(reports ...Report) {
	if len(reports) == 0 {
		fmt.Println("no reports")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID", "TITLE", "TYPE", "SEVERITY", "STATUS", "WHERE", "WHEN")

	for _, r := range reports {
		where := r.LocationName
		if where == "" && r.Latitude != nil && r.Longitude != nil {
			where = fmt.Sprintf("%.6f, %.6f", *r.Latitude, *r.Longitude)
		}
		tbl.AddRow(
			r.ID,
			r.Title,
			r.IncidentType,
			colorSeverity(r.Severity),
			r.Status,
			where,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// PrettyPrintReceipt renders a single set of form values as a key/value
// table, in document order.
func PrettyPrintReceipt(values Fields) {
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, name := range FieldOrder {
		v, ok := values[name]
		if !ok {
			continue
		}
		if name == FieldSeverity {
			v = colorSeverity(v)
		}
		tbl.AddRow(name, v)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func colorSeverity(severity string) string {
	switch severity {
	case "critical":
		return color.New(color.FgRed, color.Bold).Sprint(severity)
	case "high":
		return color.New(color.FgRed).Sprint(severity)
	case "medium":
		return color.New(color.FgYellow).Sprint(severity)
	case "low":
		return color.New(color.FgGreen).Sprint(severity)
	default:
		return severity
	}
}
