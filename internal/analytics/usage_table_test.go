package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"smartcity-ml/internal/domain/entity"
)

func TestParseUsageCSV(t *testing.T) {
	csv := "timestamp,usage\n2024-01-01T00:00,10\n2024-01-01T01:00, 12.5\n\n2024-01-01T02:00,9\n"
	table, err := ParseUsageCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, []string{"timestamp", "usage"}, table.Header)
	require.Len(t, table.Rows, 3)

	values, err := UsageValues(table)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 12.5, 9}, values)
}

func TestParseUsageCSV_SingleColumnIsSchemaError(t *testing.T) {
	_, err := ParseUsageCSV(strings.NewReader("usage\n1\n2\n3\n"))
	require.ErrorIs(t, err, entity.ErrSchema)
}

func TestParseUsageCSV_EmptyFile(t *testing.T) {
	_, err := ParseUsageCSV(strings.NewReader(""))
	require.ErrorIs(t, err, entity.ErrEmptyInput)
}

func TestUsageValues_HeaderOnly(t *testing.T) {
	table, err := ParseUsageCSV(strings.NewReader("ts,usage\n"))
	require.NoError(t, err)

	_, err = UsageValues(table)
	require.ErrorIs(t, err, entity.ErrEmptyInput)
}

func TestUsageValues_NonNumericCell(t *testing.T) {
	table, err := ParseUsageCSV(strings.NewReader("ts,usage\na,1\nb,oops\n"))
	require.NoError(t, err)

	_, err = UsageValues(table)
	require.ErrorIs(t, err, entity.ErrSchema)
	require.Contains(t, err.Error(), "row 1")
}

func TestUsageValues_ShortRow(t *testing.T) {
	table, err := ParseUsageCSV(strings.NewReader("ts,usage\na,1\nb\n"))
	require.NoError(t, err)

	_, err = UsageValues(table)
	require.ErrorIs(t, err, entity.ErrSchema)
}
