package ledger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settled-dev/settled/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRoundTrip(t *testing.T) {
	payments := []model.PaymentRecord{
		{Date: date(2024, 3, 17), Amount: dec("2500.00")},
		{Date: date(2024, 4, 2), Amount: dec("316.80")},
	}

	var buf bytes.Buffer
	err := WritePayments(&buf, payments)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "date,amount"))

	got, err := ReadPayments(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range payments {
		assert.True(t, payments[i].Date.Equal(got[i].Date))
		assert.True(t, payments[i].Amount.Equal(got[i].Amount), "amount mismatch row %d", i)
	}
}

func TestReadPayments_Empty(t *testing.T) {
	got, err := ReadPayments(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadPayments_HeaderOnly(t *testing.T) {
	got, err := ReadPayments(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadPayments_MalformedRowsFailWholeRead(t *testing.T) {
	tests := []struct {
		name    string
		rows    string
		wantErr string
	}{
		{"bad date", "17-03-2024,100.00\n", "parsing date"},
		{"bad amount", "2024-03-17,ten\n", "parsing amount"},
		{"zero amount", "2024-03-17,0.00\n", "must be positive"},
		{"negative amount", "2024-03-17,-5.00\n", "must be positive"},
		{"too many decimals", "2024-03-17,100.555\n", "more than 2 decimal places"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Header + "\n2024-03-01,50.00\n" + tt.rows
			_, err := ReadPayments(strings.NewReader(in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "row 3", "error should carry the row number")
		})
	}
}

func TestMarshalPayment_StringFixed(t *testing.T) {
	row := MarshalPayment(model.PaymentRecord{Date: date(2024, 1, 5), Amount: dec("127.5")})
	assert.Equal(t, "2024-01-05", row[colDate])
	assert.Equal(t, "127.50", row[colAmount])
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()

	payments := []model.PaymentRecord{
		{Date: date(2024, 3, 17), Amount: dec("2500.00")},
	}
	require.NoError(t, Save(dir, payments))

	got, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(dec("2500.00")))
}

func TestLoad_MissingFileIsEmptyLedger(t *testing.T) {
	got, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, got)
}
