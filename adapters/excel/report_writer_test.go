package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"soundwell/domain/report"
)

func TestListeningWorkbook(t *testing.T) {
	years := []report.ListeningYear{
		{Year: 2024, Items: []report.ListeningDay{
			{Date: "02/01/2024", Duration: 1200, Pause: 60, Interruptions: 1, Sessions: 2},
			{Date: "03/01/2024", Duration: 600, Pause: 0, Interruptions: 0, Sessions: 1},
		}},
		{Year: 2023, Items: []report.ListeningDay{
			{Date: "30/12/2023", Duration: 900, Pause: 30, Interruptions: 2, Sessions: 1},
		}},
	}

	buf, err := ListeningWorkbook("Alex", years)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	t.Run("one sheet per year", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"2024", "2023"}, f.GetSheetList())
	})

	t.Run("rows carry the daily sums", func(t *testing.T) {
		date, err := f.GetCellValue("2024", "A3")
		require.NoError(t, err)
		assert.Equal(t, "02/01/2024", date)

		duration, err := f.GetCellValue("2024", "B3")
		require.NoError(t, err)
		assert.Equal(t, "1200", duration)
	})

	t.Run("summary block totals the year", func(t *testing.T) {
		label, err := f.GetCellValue("2024", "A6")
		require.NoError(t, err)
		assert.Equal(t, "Total duration", label)

		total, err := f.GetCellValue("2024", "B6")
		require.NoError(t, err)
		assert.Equal(t, "1800", total)

		mean, err := f.GetCellValue("2024", "B7")
		require.NoError(t, err)
		assert.Equal(t, "900", mean)
	})
}

func TestListeningWorkbookEmpty(t *testing.T) {
	buf, err := ListeningWorkbook("Alex", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	note, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "No listening sessions recorded", note)
}
