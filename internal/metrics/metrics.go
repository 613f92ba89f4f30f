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

// Package metrics provides Prometheus metrics for the SDK's endpoints.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors shared by every endpoint a
// session creates.
type Metrics struct {
	PublishTotal       *prometheus.CounterVec
	PublishErrorsTotal *prometheus.CounterVec

	SubscribeTotal        *prometheus.CounterVec
	SubscribeDecodeErrors *prometheus.CounterVec

	ServiceRequestsTotal *prometheus.CounterVec
	ServiceErrorsTotal   *prometheus.CounterVec

	ServiceCallsTotal   *prometheus.CounterVec
	ServiceCallTimeouts *prometheus.CounterVec

	LivelinessTokensActive *prometheus.GaugeVec
}

// NewMetrics creates and registers the SDK's metrics with the given
// registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		PublishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenoh_ros2_publish_total",
			Help: "Total number of messages published, by topic.",
		}, []string{"topic"}),
		PublishErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenoh_ros2_publish_errors_total",
			Help: "Total number of publish failures, by topic.",
		}, []string{"topic"}),
		SubscribeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenoh_ros2_subscribe_total",
			Help: "Total number of messages delivered to subscriber callbacks, by topic.",
		}, []string{"topic"}),
		SubscribeDecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenoh_ros2_subscribe_decode_errors_total",
			Help: "Total number of samples dropped due to CDR decode failure, by topic.",
		}, []string{"topic"}),
		ServiceRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenoh_ros2_service_requests_total",
			Help: "Total number of service requests handled, by service.",
		}, []string{"service"}),
		ServiceErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenoh_ros2_service_errors_total",
			Help: "Total number of service requests that ended in reply_err, by service.",
		}, []string{"service"}),
		ServiceCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenoh_ros2_service_calls_total",
			Help: "Total number of client calls issued, by service.",
		}, []string{"service"}),
		ServiceCallTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenoh_ros2_service_call_timeouts_total",
			Help: "Total number of client calls that timed out, by service.",
		}, []string{"service"}),
		LivelinessTokensActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zenoh_ros2_liveliness_tokens_active",
			Help: "Number of currently-declared liveliness tokens, by entity kind (NN/MP/MS/SS/SC).",
		}, []string{"kind"}),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.PublishTotal,
			m.PublishErrorsTotal,
			m.SubscribeTotal,
			m.SubscribeDecodeErrors,
			m.ServiceRequestsTotal,
			m.ServiceErrorsTotal,
			m.ServiceCallsTotal,
			m.ServiceCallTimeouts,
			m.LivelinessTokensActive,
		)
	}

	return m
}
