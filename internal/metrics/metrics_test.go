package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := prometheus.NewRegistry()
	require.NoError(t, Register(r))
	assert.Error(t, Register(r))

	before := testutil.ToFloat64(ActionsClaimed.WithLabelValues("test"))
	ActionsClaimed.WithLabelValues("test").Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(ActionsClaimed.WithLabelValues("test")))
}
