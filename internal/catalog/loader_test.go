package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffhotelName,hotelId,review,viewPoint,location,hotelRoomDetails\n" +
	`Tea Valley,H1,4.5,Hills,"{'destinationId': 'dest-munnar-01'}","[{'hotelRoomType': 'Deluxe', 'mealPlan': [{'mealPlan': 'cp', 'roomPrice': 8000}]}]"` + "\n" +
	`Broken Inn,H2,nan,,"{'destinationId': ","[]"` + "\n" +
	`Lake View,H3,,,"{'destinationId': 'dest-munnar-01'}","{'not': 'a list'}"` + "\n"

func TestParse_RowsAndParseErrors(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Tea Valley", rows[0].HotelName)
	assert.Equal(t, "H1", rows[0].HotelID)
	assert.NoError(t, rows[0].ParseErr)
	assert.Equal(t, "dest-munnar-01", rows[0].Location["destinationId"])
	require.Len(t, rows[0].RoomDetails, 1)

	assert.Equal(t, "", rows[1].Review, "nan cells are blank")
	assert.Error(t, rows[1].ParseErr)
	assert.Contains(t, rows[1].ParseErr.Error(), "line 3")

	assert.Error(t, rows[2].ParseErr)
	assert.Contains(t, rows[2].ParseErr.Error(), "hotelRoomDetails")
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("hotelName,hotelId\nA,1\n"))
	assert.Error(t, err)
}

func TestLoader_LoadsOnceAndCachesFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all_hotels.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	l := NewLoader(path)
	rows, err := l.Rows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// The file is not read again after the first load.
	require.NoError(t, os.Remove(path))
	rows, err = l.Rows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	missing := NewLoader(filepath.Join(dir, "nope.csv"))
	rows, err = missing.Rows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
