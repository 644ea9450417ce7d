package vm_test

import (
	"net/http/httptest"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"

	"github.com/shiyingzhe/mysql-router/contrib/metrics/vm"
	"github.com/shiyingzhe/mysql-router/types"
)

func TestCollectorExposesMetrics(t *testing.T) {
	set := metrics.NewSet()
	c := vm.New(vm.WithPrefix("test"), vm.WithMetricsSet(set))

	c.IncFetchTotal("rs-1")
	c.IncFetchError("rs-1")
	c.ObserveFetchDuration("rs-1", 0.25)
	c.IncNodeUnreachable("rs-1", "127.0.0.1:3310")
	c.SetReplicaSetStatus("rs-1", types.StatusAvailableWritable)
	c.SetInstanceCount("rs-1", types.ReadWrite, 1)

	rec := httptest.NewRecorder()
	c.Handler(rec, nil)
	body := rec.Body.String()

	assert.Contains(t, body, `test_fetch_total{cluster="rs-1"}`)
	assert.Contains(t, body, `test_fetch_errors_total{cluster="rs-1"}`)
	assert.Contains(t, body, `test_node_unreachable_total{replicaset="rs-1",host="127.0.0.1:3310"}`)
	assert.Contains(t, body, `test_replicaset_status{replicaset="rs-1"} 2`)
	assert.Contains(t, body, `test_instance_count{replicaset="rs-1",mode="read-write"} 1`)
}
