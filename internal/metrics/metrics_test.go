package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCacheEvent(t *testing.T) {
	before := testutil.ToFloat64(cacheEventsTotal.WithLabelValues(CacheHit))
	RecordCacheEvent(CacheHit)
	RecordCacheEvent(CacheHit)
	assert.Equal(t, before+2, testutil.ToFloat64(cacheEventsTotal.WithLabelValues(CacheHit)))
}

func TestRecordTransfer_IgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(transferBytesTotal.WithLabelValues(Upload))
	RecordTransfer(Upload, 0)
	RecordTransfer(Upload, -5)
	RecordTransfer(Upload, 100)
	assert.Equal(t, before+100, testutil.ToFloat64(transferBytesTotal.WithLabelValues(Upload)))
}

func TestWriteTextfile(t *testing.T) {
	RecordRequest("GET", "/api/dir", 200, 0.01)

	path := filepath.Join(t.TempDir(), "fsb.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fsb_api_requests_total")

	assert.NoError(t, WriteTextfile(""))
}
