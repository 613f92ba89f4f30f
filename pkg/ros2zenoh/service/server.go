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

// Package service implements the service server and client endpoint
// state machines: queryable declaration, callback and queue-mode
// request correlation, and the synchronous/asynchronous client call.
package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/entity"
	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/mangle"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/pubsub"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/qos"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/session"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/typehash"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/ztransport"
)

// DefaultQueueDepth bounds a queue-mode server's pending-request
// queue. Once full, the oldest pending request is dropped to make
// room for the new one.
const DefaultQueueDepth = 16

// Mode selects how a Server hands requests to user code.
type Mode int

const (
	// ModeCallback invokes Callback inline on the query-handling
	// goroutine and replies with its return value.
	ModeCallback Mode = iota
	// ModeQueue enqueues requests for retrieval via TakeRequest and
	// reply via SendResponse.
	ModeQueue
)

// CorrelationKey identifies one in-flight request in queue mode.
type CorrelationKey struct {
	Seq uint64
	GID entity.GID
}

// ServerOptions configures a Server's construction.
type ServerOptions struct {
	ServiceName string
	TypeName    string // e.g. "example_interfaces/srv/AddTwoInts"
	NodeName    string
	Namespace   string
	DomainID    int
	QoS         qos.Profile

	Mode Mode

	// Callback is required in ModeCallback; it receives the decoded
	// request and returns the response to serialize and reply with.
	Callback func(schema.Value) (schema.Value, error)

	// QueueDepth overrides DefaultQueueDepth in ModeQueue. Zero means
	// use the default.
	QueueDepth int
}

// Server is a live ROS2 service server endpoint.
type Server struct {
	sess *session.Session
	opts ServerOptions
	req  schema.MessageSchema
	resp schema.MessageSchema
	gid  entity.GID

	queryable ztransport.Queryable
	nodeToken ztransport.Token
	svcToken  ztransport.Token
	keyExpr   string

	mu     sync.Mutex
	closed bool

	queueMu sync.Mutex
	queue   []pendingRequest
	pending chan struct{}
	replies map[CorrelationKey]func([]byte, []byte) error
}

type pendingRequest struct {
	key     CorrelationKey
	request schema.Value
}

// NewServer resolves opts.TypeName's request/response schemas,
// computes the service type hash, allocates identity, declares the
// node and service liveliness tokens, and declares the queryable.
func NewServer(sess *session.Session, opts ServerOptions) (*Server, error) {
	if opts.Mode == ModeCallback && opts.Callback == nil {
		return nil, ierrors.New(ierrors.ProtocolError, "ModeCallback requires a Callback")
	}

	svc, err := sess.Types.Service(opts.TypeName)
	if err != nil {
		return nil, err
	}
	req, err := sess.Types.Message(svc.RequestTypeName())
	if err != nil {
		return nil, err
	}
	resp, err := sess.Types.Message(svc.ResponseTypeName())
	if err != nil {
		return nil, err
	}

	hash, err := typehash.ServiceHash(sess.Types, svc)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TypeHashMismatch, err, "computing service type hash for %s", opts.TypeName)
	}

	ddsType := mangle.ToDDSType(opts.TypeName)
	keyExpr := mangle.ServiceKeyExpr(opts.DomainID, opts.ServiceName, ddsType, hash)

	nodeID := sess.NextNodeID()
	entityID := sess.NextEntityID()
	gid := session.NewGID()

	nodeKey := mangle.NodeLivelinessKeyExpr(opts.DomainID, string(sess.ID()), uint64(nodeID), opts.Namespace, opts.NodeName)
	svcKey := mangle.EndpointLivelinessKeyExpr(opts.DomainID, string(sess.ID()), uint64(nodeID), uint64(entityID),
		mangle.KindServiceServer, opts.Namespace, opts.NodeName, opts.ServiceName, ddsType, hash, opts.QoS.Encode())

	nodeToken, err := sess.Transport.Liveliness().DeclareToken(nodeKey)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "declaring node liveliness token")
	}
	svcToken, err := sess.Transport.Liveliness().DeclareToken(svcKey)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "declaring service liveliness token")
	}

	depth := opts.QueueDepth
	if depth <= 0 {
		depth = DefaultQueueDepth
	}

	s := &Server{
		sess:      sess,
		opts:      opts,
		req:       req,
		resp:      resp,
		gid:       gid,
		nodeToken: nodeToken,
		svcToken:  svcToken,
		keyExpr:   keyExpr,
		pending:   make(chan struct{}, depth),
		replies:   make(map[CorrelationKey]func([]byte, []byte) error),
	}

	queryable, err := sess.Transport.DeclareQueryable(keyExpr, s.onQuery)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "declaring queryable on %s", keyExpr)
	}
	s.queryable = queryable

	return s, nil
}

// KeyExpr returns the service key expression this server was declared
// on.
func (s *Server) KeyExpr() string {
	return s.keyExpr
}

func (s *Server) onQuery(q ztransport.Query) {
	if s.sess.Metrics != nil {
		s.sess.Metrics.ServiceRequestsTotal.WithLabelValues(s.opts.ServiceName).Inc()
	}

	if len(q.Payload) == 0 || q.Attachment == nil {
		s.replyError(q, "service request has no payload or attachment")
		return
	}

	seq, _, gid, err := pubsub.ParseAttachment(q.Attachment)
	if err != nil {
		s.replyError(q, fmt.Sprintf("service request attachment malformed: %v", err))
		return
	}

	reqVal, err := schema.Decode(s.sess.Types, s.req, q.Payload)
	if err != nil {
		s.replyError(q, fmt.Sprintf("service request payload undecodable: %v", err))
		return
	}

	key := CorrelationKey{Seq: seq, GID: gid}

	switch s.opts.Mode {
	case ModeCallback:
		respVal, err := func() (v schema.Value, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = ierrors.New(ierrors.CallbackError, "service callback panicked: %v", r)
				}
			}()
			return s.opts.Callback(reqVal)
		}()
		if err != nil {
			if s.sess.Metrics != nil {
				s.sess.Metrics.ServiceErrorsTotal.WithLabelValues(s.opts.ServiceName).Inc()
			}
			s.replyError(q, fmt.Sprintf("service callback error: %v", err))
			return
		}
		s.reply(q, key, respVal)
	case ModeQueue:
		s.enqueue(key, reqVal, q.Reply)
	}
}

func (s *Server) reply(q ztransport.Query, key CorrelationKey, respVal schema.Value) {
	payload, err := schema.Encode(s.sess.Types, s.resp, respVal)
	if err != nil {
		s.replyError(q, fmt.Sprintf("service response undencodable: %v", err))
		return
	}
	attachment := pubsub.BuildAttachment(key.Seq, uint64(time.Now().UnixNano()), key.GID)
	if err := q.Reply(payload, attachment); err != nil {
		s.sess.Log.Errorf("service %s: reply failed: %v", s.opts.ServiceName, err)
	}
}

func (s *Server) replyError(q ztransport.Query, message string) {
	if s.sess.Metrics != nil {
		s.sess.Metrics.ServiceErrorsTotal.WithLabelValues(s.opts.ServiceName).Inc()
	}
	s.sess.Log.Errorf("service %s: %s", s.opts.ServiceName, message)
	if q.Reply != nil {
		_ = q.Reply([]byte(message), nil)
	}
}

func (s *Server) enqueue(key CorrelationKey, req schema.Value, replyFn func([]byte, []byte) error) {
	s.queueMu.Lock()
	s.replies[key] = replyFn
	s.queue = append(s.queue, pendingRequest{key: key, request: req})
	for len(s.queue) > cap(s.pending) {
		dropped := s.queue[0]
		s.queue = s.queue[1:]
		delete(s.replies, dropped.key)
		s.sess.Log.Infof("service %s: queue full, dropping oldest pending request", s.opts.ServiceName)
	}
	s.queueMu.Unlock()

	select {
	case s.pending <- struct{}{}:
	default:
	}
}

// TakeRequest dequeues the next pending request in ModeQueue, or
// returns a Timeout error if none arrives within timeout.
func (s *Server) TakeRequest(timeout time.Duration) (CorrelationKey, schema.Value, error) {
	deadline := time.After(timeout)
	for {
		s.queueMu.Lock()
		if len(s.queue) > 0 {
			next := s.queue[0]
			s.queue = s.queue[1:]
			s.queueMu.Unlock()
			return next.key, next.request, nil
		}
		s.queueMu.Unlock()

		select {
		case <-s.pending:
			continue
		case <-deadline:
			return CorrelationKey{}, schema.Value{}, ierrors.New(ierrors.Timeout, "no request within %s", timeout)
		}
	}
}

// SendResponse serializes v and replies to the request identified by
// key, matching the response attachment contract.
func (s *Server) SendResponse(key CorrelationKey, v schema.Value) error {
	s.queueMu.Lock()
	replyFn, ok := s.replies[key]
	if ok {
		delete(s.replies, key)
	}
	s.queueMu.Unlock()
	if !ok {
		return ierrors.New(ierrors.ProtocolError, "no pending request for correlation key %+v", key)
	}

	payload, err := schema.Encode(s.sess.Types, s.resp, v)
	if err != nil {
		return err
	}
	attachment := pubsub.BuildAttachment(key.Seq, uint64(time.Now().UnixNano()), key.GID)
	return replyFn(payload, attachment)
}

// Close undeclares the queryable and its liveliness tokens. It is
// idempotent.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	if err := s.svcToken.Undeclare(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.nodeToken.Undeclare(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.queryable.Undeclare(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
