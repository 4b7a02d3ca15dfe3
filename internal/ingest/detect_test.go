package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectParser_KnownExtensions(t *testing.T) {
	cases := []struct {
		path string
		name string
	}{
		{"records.csv", "csv"},
		{"RECORDS.CSV", "csv"},
		{"/data/export/records.Json", "json"},
		{"records.json", "json"},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			p, err := DetectParser(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.name, p.Name())
		})
	}
}

func TestDetectParser_Unsupported(t *testing.T) {
	_, err := DetectParser("records.xlsx")
	require.Error(t, err)

	var ufe *UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, ".xlsx", ufe.Ext)
}

func TestDetectParser_NoExtension(t *testing.T) {
	_, err := DetectParser("/data/export/records")
	require.Error(t, err)

	var ufe *UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, "", ufe.Ext)
	assert.Contains(t, err.Error(), "no file extension")
}
