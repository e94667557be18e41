package instrdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "instruments.csv")

	instruments := GenerateInstruments(20)
	require.NoError(t, WriteInstrumentsCSV(instruments, filename))

	loaded, err := ReadInstrumentsCSV(filename)
	require.NoError(t, err)
	require.Len(t, loaded, len(instruments))

	for i, instr := range instruments {
		assert.Equal(t, instr.ISIN, loaded[i].ISIN)
		assert.Equal(t, instr.Name, loaded[i].Name)
		assert.Equal(t, instr.LongName, loaded[i].LongName)
		assert.InDelta(t, instr.Price, loaded[i].Price, 0.001)
	}
}

func TestReadDropsDuplicateISINs(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "instruments.csv")
	content := "isin,name,long_name,price\n" +
		"US0000000011,First Name,Long name one,10.50\n" +
		"US0000000011,Second Name,Long name two,20.50\n" +
		"GB0000000022,Third Name,Long name three,30.50\n"
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))

	loaded, err := ReadInstrumentsCSV(filename)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// First occurrence wins
	assert.Equal(t, "First Name", loaded[0].Name)
	assert.Equal(t, "GB0000000022", loaded[1].ISIN)
}

func TestReadDropsRowsWithMissingFields(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "instruments.csv")
	content := "isin,name,long_name,price\n" +
		"US0000000011,,Long name one,10.50\n" +
		"GB0000000022,Good Name,Long name two,not-a-price\n" +
		"DE0000000033,Kept Name,Long name three,30.50\n"
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))

	loaded, err := ReadInstrumentsCSV(filename)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "DE0000000033", loaded[0].ISIN)
}

func TestReadRejectsMissingColumn(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "instruments.csv")
	content := "isin,name,price\nUS0000000011,Name,10.50\n"
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))

	_, err := ReadInstrumentsCSV(filename)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "long_name")
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadInstrumentsCSV(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	require.Error(t, err)
}
