package booking

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type CsvMonthRenderer struct {
}

func NewCsvMonthRenderer() *CsvMonthRenderer {
	return &CsvMonthRenderer{}
}

// Render writes one row per booked day of the month followed by a row of totals.
func (r *CsvMonthRenderer) Render(month MonthKey, record MonthRecord) (string, error) {
	header := []string{"Date", Morning.Label(), Afternoon.Label(), FullDay.Label(), "Total"}

	data := make([][]string, 0, len(record)+2)
	data = append(data, header)

	var total DayBookings
	for _, date := range record.Dates() {
		if !date.Month().Equal(month) {
			log.Warnf("Skipping %s outside of month %s", date, month)
			continue
		}
		day := record[date]
		data = append(data, dayRow(string(date), day))
		total.Morning += day.Morning
		total.Afternoon += day.Afternoon
		total.FullDay += day.FullDay
	}
	data = append(data, dayRow("Total", total))

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func dayRow(label string, day DayBookings) []string {
	return []string{
		label,
		strconv.Itoa(day.Morning),
		strconv.Itoa(day.Afternoon),
		strconv.Itoa(day.FullDay),
		strconv.Itoa(day.Total()),
	}
}
