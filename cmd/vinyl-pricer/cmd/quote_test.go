package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadQuoteEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		file      string
		content   string
		wantLen   int
		wantFirst string
		wantErr   string
	}{
		{
			name: "yaml list",
			file: "records.yaml",
			content: `
- name: Tago Mago
  reference_price: 12
  media_condition: VG+
- name: Floor
`,
			wantLen:   2,
			wantFirst: "Tago Mago",
		},
		{
			name:      "json list",
			file:      "records.json",
			content:   `[{"name":"Ege Bamyasi","discogs_suggested":20,"media_condition":"NM"}]`,
			wantLen:   1,
			wantFirst: "Ege Bamyasi",
		},
		{
			name:      "single mapping",
			file:      "one.yaml",
			content:   "name: Future Days\ncomparable_price: 4\n",
			wantLen:   1,
			wantFirst: "Future Days",
		},
		{
			name:    "empty file",
			file:    "empty.yaml",
			content: "",
			wantErr: "quote file is empty",
		},
		{
			name:    "scalar",
			file:    "scalar.yaml",
			content: "42\n",
			wantErr: "record or a list of records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries, err := loadQuoteEntries(writeTemp(t, tt.file, tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, entries, tt.wantLen)
			assert.Equal(t, tt.wantFirst, entries[0].Name)
		})
	}
}

func TestLoadQuoteEntries_DecodesSignals(t *testing.T) {
	t.Parallel()

	entries, err := loadQuoteEntries(writeTemp(t, "r.yaml", `
- reference_price: 12
  sold:
    - price: 20
      shipping_cost: 5
`))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].ReferencePrice)
	assert.InDelta(t, 12.0, *entries[0].ReferencePrice, 0.001)
	require.Len(t, entries[0].Sold, 1)
	assert.InDelta(t, 5.0, entries[0].Sold[0].ShippingCost, 0.001)
}

func TestWriteQuotes(t *testing.T) {
	t.Parallel()

	ref := 12.0
	entries := []quoteEntry{
		{Name: "Tago Mago", Input: pricing.Input{ReferencePrice: &ref}},
		{},
	}
	eng := pricing.New(pricing.DefaultConfig())

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, writeQuotes(&buf, eng, entries, "json"))

		var rows []map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "Tago Mago", rows[0]["Name"])
		assert.Equal(t, "12.00", rows[0][pricing.ColumnPrice])
		assert.Equal(t, "REF", rows[0][pricing.ColumnStrategy])
		assert.Equal(t, "#2", rows[1]["Name"])
		assert.Equal(t, "5.00", rows[1][pricing.ColumnPrice])
		assert.Equal(t, "FLR", rows[1][pricing.ColumnStrategy])
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, writeQuotes(&buf, eng, entries, "table"))
		assert.Contains(t, buf.String(), "NAME")
		assert.Contains(t, buf.String(), "Tago Mago")
		assert.Contains(t, buf.String(), "FLR")
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		err := writeQuotes(&bytes.Buffer{}, eng, entries, "xml")
		require.Error(t, err)
	})
}

func TestQuoteEngine_MissingConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	eng, err := quoteEngine(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultConfig(), eng.Config())
}
