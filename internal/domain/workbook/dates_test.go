package workbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDateCell(t *testing.T) {
	assert.IsType(t, BlankDate{}, ClassifyDateCell("   ", "Tháng 5 2022"))
	assert.IsType(t, SerialDate{}, ClassifyDateCell("44700", "x"))
	assert.IsType(t, SerialDate{}, ClassifyDateCell("44700.5", "x"))
	assert.IsType(t, TextDate{}, ClassifyDateCell("15/05/2022", "x"))
}

func TestDateFromSheetName(t *testing.T) {
	tests := []struct {
		name    string
		sheet   string
		want    time.Time
		wantErr bool
	}{
		{"vietnamese with diacritics", "Tháng 5 2022", time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"ascii", "Thang 12-2023", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), false},
		{"bare month year", "05/2022", time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"month out of range", "Thang 13 2022", time.Time{}, true},
		{"no month", "Notes", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DateFromSheetName(tt.sheet)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateFromSerial(t *testing.T) {
	// Serial 44700 is 2022-05-19 in the 1900 date system.
	got, err := DateFromSerial(44700, false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 5, 19, 0, 0, 0, 0, time.UTC), got)
}

func TestDateFromText(t *testing.T) {
	got, err := DateFromText("15/05/2022")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 5, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = DateFromText("2022-05-15")
	require.NoError(t, err)
	assert.Equal(t, 15, got.Day())

	_, err = DateFromText("not a date")
	assert.Error(t, err)
}

func TestResolveDate_FallsThrough(t *testing.T) {
	t.Run("blank uses sheet name", func(t *testing.T) {
		got, err := ResolveDate(BlankDate{SheetName: "Tháng 5 2022"}, false)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("blank with unusable sheet name fails", func(t *testing.T) {
		_, err := ResolveDate(BlankDate{SheetName: "Summary"}, false)
		assert.Error(t, err)
	})

	t.Run("text parses free form", func(t *testing.T) {
		got, err := ResolveDate(TextDate{Raw: "01.02.2022"}, false)
		require.NoError(t, err)
		assert.Equal(t, time.February, got.Month())
	})
}
