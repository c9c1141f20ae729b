package payments

import (
	"fmt"
	"net/http"
	"time"

	"opsdash/internal/domain/payments"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportPayments streams the project's payment schedule as an xlsx
// workbook, with statuses recomputed at export time.
func ExportPayments(c *gin.Context) {
	records, err := ctrl.Store().ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	records = payments.RefreshAll(records, time.Now())

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Payments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Title", "Due Date", "Amount", "Currency", "Status", "Recurring", "Recurring Day", "Paid At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range records {
		values := []interface{}{p.Title, p.DueDate, "", p.Currency, string(p.Status), p.IsRecurring, "", ""}
		if p.Amount != nil {
			values[2], _ = p.Amount.Float64()
		}
		if p.RecurringDay != nil {
			values[6] = *p.RecurringDay
		}
		if p.PaidAt != nil {
			values[7] = time.UnixMilli(*p.PaidAt).UTC().Format("2006-01-02 15:04")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("payments-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := f.WriteTo(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write workbook"})
	}
}
