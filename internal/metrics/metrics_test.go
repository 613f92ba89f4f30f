// Copyright Project Contour Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishTotalIncrementsPerTopic(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.PublishTotal.WithLabelValues("/chatter").Inc()
	m.PublishTotal.WithLabelValues("/chatter").Inc()
	m.PublishTotal.WithLabelValues("/other").Inc()

	var out dto.Metric
	require.NoError(t, m.PublishTotal.WithLabelValues("/chatter").Write(&out))
	assert.Equal(t, float64(2), out.GetCounter().GetValue())
}

func TestNewMetricsWithNilRegistererDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(nil)
	})
}
