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

package pubsub

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/mangle"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/qos"
	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/session"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/typehash"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/ztransport"
)

// DiscoveryTimeout bounds both the liveliness discovery query and each
// per-publisher history query issued for a transient-local subscriber.
const DiscoveryTimeout = 2 * time.Second

// SubscriberOptions configures a Subscriber's construction.
type SubscriberOptions struct {
	Topic     string
	TypeName  string
	NodeName  string
	Namespace string
	DomainID  int
	QoS       qos.Profile
	// Callback is invoked with each decoded message, on the transport's
	// delivery goroutine.
	Callback func(schema.Value)
}

// Subscriber is a live ROS2 subscriber endpoint.
type Subscriber struct {
	sess *session.Session
	opts SubscriberOptions
	msg  schema.MessageSchema

	sub     ztransport.Subscriber
	keyExpr string
	ddsType string
	hash    string

	mu     sync.Mutex
	closed bool
}

// NewSubscriber resolves opts.TypeName, declares the data subscriber,
// and replays transient-local history if opts.QoS requests it. It
// declares no node or subscriber liveliness token.
func NewSubscriber(ctx context.Context, sess *session.Session, opts SubscriberOptions) (*Subscriber, error) {
	msg, err := sess.Types.Message(opts.TypeName)
	if err != nil {
		return nil, err
	}
	hash, err := typehash.Hash(sess.Types, opts.TypeName)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TypeHashMismatch, err, "computing type hash for %s", opts.TypeName)
	}

	ddsType := mangle.ToDDSType(opts.TypeName)
	keyExpr := mangle.DataKeyExpr(opts.DomainID, opts.Topic, ddsType, hash)

	s := &Subscriber{sess: sess, opts: opts, msg: msg, keyExpr: keyExpr, ddsType: ddsType, hash: hash}

	sub, err := sess.Transport.DeclareSubscriber(keyExpr, s.onSample)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "declaring subscriber on %s", keyExpr)
	}
	s.sub = sub

	if opts.QoS.Durability == qos.DurabilityTransientLocal {
		s.replayHistory(ctx)
	}

	return s, nil
}

// KeyExpr returns the data key expression this subscriber is
// listening on.
func (s *Subscriber) KeyExpr() string {
	return s.keyExpr
}

func (s *Subscriber) onSample(sample ztransport.Sample) {
	v, err := schema.Decode(s.sess.Types, s.msg, sample.Payload)
	if err != nil {
		if s.sess.Metrics != nil {
			s.sess.Metrics.SubscribeDecodeErrors.WithLabelValues(s.opts.Topic).Inc()
		}
		s.sess.Log.Errorf("decoding message on %s: %v", s.opts.Topic, err)
		return
	}
	if s.sess.Metrics != nil {
		s.sess.Metrics.SubscribeTotal.WithLabelValues(s.opts.Topic).Inc()
	}
	s.opts.Callback(v)
}

// replayHistory discovers live AdvancedPublisher caches for this
// topic and queries each for its buffered history, feeding replies
// through the same decode pipeline as live samples.
func (s *Subscriber) replayHistory(ctx context.Context) {
	selector := mangle.LivelinessDiscoverySelector(s.opts.DomainID, s.opts.Topic, s.ddsType, s.hash)

	var zenohIDs []string
	err := s.sess.Transport.Liveliness().Get(ctx, selector, DiscoveryTimeout, func(keyExpr string) {
		if id, ok := zenohIDFromLivelinessKey(keyExpr); ok {
			zenohIDs = append(zenohIDs, id)
		}
	})
	if err != nil {
		s.sess.Log.Errorf("discovering transient-local publishers on %s: %v", s.opts.Topic, err)
		return
	}

	for _, zid := range zenohIDs {
		histSelector := mangle.AdvancedPublisherSelector(s.keyExpr, zid, s.historyDepth())
		err := s.sess.Transport.Get(ctx, histSelector, DiscoveryTimeout, func(reply ztransport.QueryReply) {
			s.onSample(ztransport.Sample{KeyExpr: reply.KeyExpr, Payload: reply.Payload, Attachment: reply.Attachment})
		})
		if err != nil {
			s.sess.Log.Errorf("querying history from %s on %s: %v", zid, s.opts.Topic, err)
		}
	}
}

func (s *Subscriber) historyDepth() int {
	if s.opts.QoS.Depth > 0 {
		return s.opts.QoS.Depth
	}
	return qos.Default.Depth
}

// zenohIDFromLivelinessKey extracts the zenoh_id component (index 2,
// the session ID position) from a matched liveliness key expression.
func zenohIDFromLivelinessKey(keyExpr string) (string, bool) {
	parts := strings.Split(keyExpr, "/")
	if len(parts) < 3 {
		return "", false
	}
	return parts[2], true
}

// Close undeclares the subscriber. It is idempotent.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.sub.Undeclare()
}
