package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukprop/clearance/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the operational job report: a summary sheet with counts
// per status, then one detail sheet listing every job.
func (g *Generator) Generate(jobs []model.Job, now time.Time) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, jobs, now); err != nil {
		return nil, err
	}

	detailSheet := "Jobs"
	file.NewSheet(detailSheet)
	if err := g.writeDetail(file, detailSheet, jobs, now); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, jobs []model.Job, now time.Time) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	statusCounts := map[model.JobStatus]int{}
	statusOrder := []model.JobStatus{}
	breached := 0
	var estimated, collected float64
	for _, job := range jobs {
		if _, seen := statusCounts[job.Status]; !seen {
			statusOrder = append(statusOrder, job.Status)
		}
		statusCounts[job.Status]++
		if job.SLABreached(now) {
			breached++
		}
		estimated += job.EstimatedValue
		collected += job.DepositPaid
	}

	set("A1", "Report generated")
	set("B1", formatDateTime(now))
	set("A2", "Total jobs")
	set("B2", len(jobs))
	set("A3", "SLA breached")
	set("B3", breached)
	set("A4", "Estimated value")
	set("B4", formatAmount(estimated))
	set("A5", "Deposits collected")
	set("B5", formatAmount(collected))

	tableRow := 7
	set(fmt.Sprintf("A%d", tableRow), "Status")
	set(fmt.Sprintf("B%d", tableRow), "Jobs")
	for i, status := range statusOrder {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), string(status))
		set(fmt.Sprintf("B%d", row), statusCounts[status])
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, jobs []model.Job, now time.Time) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Reference",
		"Service",
		"Status",
		"Property address",
		"Scheduled",
		"SLA",
		"SLA deadline",
		"SLA breached",
		"Estimated price",
		"Deposit paid",
		"Payment status",
		"Created",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, job := range jobs {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), job.ReferenceID)
		set(fmt.Sprintf("B%d", row), serviceLabel(job.ServiceType))
		set(fmt.Sprintf("C%d", row), string(job.Status))
		set(fmt.Sprintf("D%d", row), job.PropertyAddress)
		set(fmt.Sprintf("E%d", row), formatDateTime(job.ScheduledAt))
		set(fmt.Sprintf("F%d", row), string(job.SLAType))
		set(fmt.Sprintf("G%d", row), formatDateTime(job.SLADeadline()))
		set(fmt.Sprintf("H%d", row), formatBool(job.SLABreached(now)))
		set(fmt.Sprintf("I%d", row), formatAmount(job.EstimatedValue))
		set(fmt.Sprintf("J%d", row), formatAmount(job.DepositPaid))
		set(fmt.Sprintf("K%d", row), string(job.PaymentStatus))
		set(fmt.Sprintf("L%d", row), formatDateTime(job.CreatedAt))
	}

	_ = file.SetColWidth(sheet, "A", "A", 26)
	_ = file.SetColWidth(sheet, "B", "C", 20)
	_ = file.SetColWidth(sheet, "D", "D", 40)
	_ = file.SetColWidth(sheet, "E", "G", 20)
	_ = file.SetColWidth(sheet, "H", "K", 16)
	_ = file.SetColWidth(sheet, "L", "L", 20)
	return nil
}

func serviceLabel(service model.ServiceType) string {
	parts := strings.Split(string(service), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
