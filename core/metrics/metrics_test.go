package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRender(t *testing.T) {
	okBefore := testutil.ToFloat64(rendersTotal.WithLabelValues("generate", "red"))
	failBefore := testutil.ToFloat64(renderFailures.WithLabelValues("generate"))

	RecordRender("generate", "red", nil)
	RecordRender("generate", "red", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(rendersTotal.WithLabelValues("generate", "red")))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(renderFailures.WithLabelValues("generate")))
}

func TestRecordScan(t *testing.T) {
	before := testutil.ToFloat64(scansTotal.WithLabelValues("not_found"))
	RecordScan("not_found", 120*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(scansTotal.WithLabelValues("not_found")))
	assert.Positive(t, testutil.CollectAndCount(decodeDuration))
}

func TestIncReplyLabels(t *testing.T) {
	before := testutil.ToFloat64(repliesTotal.WithLabelValues("true"))
	IncReply(true)
	assert.Equal(t, before+1, testutil.ToFloat64(repliesTotal.WithLabelValues("true")))
}
