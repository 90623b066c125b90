package invoices

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settled-dev/settled/internal/model"
)

func TestJSONRoundTrip(t *testing.T) {
	recs := []model.InvoiceRecord{
		fullRecord(),
		{SourceID: "scan001.pdf"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, recs))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].InvoiceNumber)
	assert.Equal(t, "GGTS-0985", *got[0].InvoiceNumber)
	require.NotNil(t, got[0].InvoiceDate)
	assert.True(t, date(2024, 3, 15).Equal(*got[0].InvoiceDate))

	assert.Nil(t, got[1].InvoiceNumber)
	assert.Nil(t, got[1].InvoiceDate)
	assert.Nil(t, got[1].RecipientName)
	assert.Nil(t, got[1].TotalAmount)
}

func TestJSONAbsentFieldsAreNull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []model.InvoiceRecord{{SourceID: "scan001.pdf"}}))

	assert.Contains(t, buf.String(), `"invoice_number": null`)
	assert.Contains(t, buf.String(), `"total_amount": null`)
}

func TestReadJSON_MissingSourceID(t *testing.T) {
	in := `[{"invoice_number": "INV-1", "invoice_date": null, "recipient_name": null, "total_amount": null}]`
	_, err := ReadJSON(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing source_id")
}

func TestServiceAddGetSave(t *testing.T) {
	dir := t.TempDir()

	svc := NewService(nil)
	svc.Add(fullRecord())
	svc.Add(model.InvoiceRecord{SourceID: "scan001.pdf"})

	rec, ok := svc.Get("GGTS-0985")
	require.True(t, ok)
	assert.Equal(t, "GGTS-0985.pdf", rec.SourceID)

	_, ok = svc.Get("NOPE-0000")
	assert.False(t, ok)

	require.NoError(t, svc.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, loaded.All(), 2)
	_, ok = loaded.Get("GGTS-0985")
	assert.True(t, ok)
}

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	svc, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, svc.All())
}
