package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hjaltland/rota/internal/domain"
	"github.com/hjaltland/rota/internal/generation"
	"github.com/hjaltland/rota/internal/service"
)

const dateLayout = "2006-01-02"

// FormatGenerationResult renders a single-date generation run.
func FormatGenerationResult(res *service.GenerationResult) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Generation %s", res.Date.Format(dateLayout))))
	b.WriteString("\n\n")

	b.WriteString(RenderTable(
		[]string{"TASKS", "CREATED", "SKIPPED", "ERRORS"},
		[][]string{{
			strconv.Itoa(res.TotalTasks),
			StyleGreen.Render(strconv.Itoa(res.Created)),
			StyleDim.Render(strconv.Itoa(res.Skipped)),
			errorCell(res.Errors),
		}},
	))

	if len(res.Instances) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(res.Instances))
		for _, inst := range res.Instances {
			rows = append(rows, []string{
				inst.MasterTaskID,
				inst.DueDate.Format(dateLayout),
				inst.DueTime.String(),
				StatusStyle(inst.Status).Render(string(inst.Status)),
			})
		}
		b.WriteString(RenderTable([]string{"TASK", "DUE", "TIME", "STATUS"}, rows))
	}

	writeFailures(&b, res.Failures)
	return b.String()
}

// FormatStatusResult renders a status sweep.
func FormatStatusResult(res *service.StatusUpdateResult) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Status sweep %s", res.Date.Format(dateLayout))))
	b.WriteString("\n\n")
	b.WriteString(RenderTable(
		[]string{"EXAMINED", "UPDATED", "ERRORS"},
		[][]string{{
			strconv.Itoa(res.Examined),
			StyleBlue.Render(strconv.Itoa(res.Updated)),
			errorCell(res.Errors),
		}},
	))

	writeFailures(&b, res.Failures)
	return b.String()
}

// FormatBulkSummaries renders the per-date report of a bulk run.
func FormatBulkSummaries(summaries []service.DateSummary) string {
	var b strings.Builder

	b.WriteString(Header("Bulk run"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(summaries))
	var created, carries, errors int
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Date.Format(dateLayout),
			strconv.Itoa(s.TotalTasks),
			StyleGreen.Render(strconv.Itoa(s.NewInstances)),
			StyleYellow.Render(strconv.Itoa(s.CarryInstances)),
			strconv.Itoa(s.TotalInstances),
			errorCell(s.Errors),
		})
		created += s.NewInstances
		carries += s.CarryInstances
		errors += s.Errors
	}
	b.WriteString(RenderTable(
		[]string{"DATE", "TASKS", "NEW", "CARRY", "TOTAL", "ERRORS"},
		rows,
	))

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf(
		"%d dates, %d new instances, %d carries, %d errors",
		len(summaries), created, carries, errors,
	)))
	b.WriteString("\n")
	return b.String()
}

// FormatCompletion renders the outcome of a completion toggle.
func FormatCompletion(instanceID string, status domain.InstanceStatus) string {
	return fmt.Sprintf("%s %s %s\n",
		StyleDim.Render("instance"),
		instanceID,
		StatusStyle(status).Render(string(status)),
	)
}

func errorCell(n int) string {
	if n > 0 {
		return StyleRed.Render(strconv.Itoa(n))
	}
	return strconv.Itoa(n)
}

func writeFailures(b *strings.Builder, failures []generation.PairError) {
	if len(failures) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(StyleRed.Render("Failures:"))
	b.WriteString("\n")
	for _, f := range failures {
		b.WriteString("  ")
		b.WriteString(StyleDim.Render(f.Error()))
		b.WriteString("\n")
	}
}
