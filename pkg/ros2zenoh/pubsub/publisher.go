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

// Package pubsub implements the publisher and subscriber endpoint
// state machines: data key declaration, liveliness token lifecycle,
// CDR encode/decode, the rmw_zenoh attachment, and transient-local
// history replay.
package pubsub

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/entity"
	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/mangle"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/qos"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/session"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/typehash"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/ztransport"
)

// PublisherOptions configures a Publisher's construction.
type PublisherOptions struct {
	Topic     string
	TypeName  string // e.g. "std_msgs/msg/String"
	NodeName  string
	Namespace string
	DomainID  int
	QoS       qos.Profile
}

// Publisher is a live ROS2 publisher endpoint: a declared data
// publisher plus its node and publisher liveliness tokens.
type Publisher struct {
	sess *session.Session
	opts PublisherOptions
	msg  schema.MessageSchema
	gid  entity.GID

	pub       ztransport.Publisher
	nodeToken ztransport.Token
	pubToken  ztransport.Token
	keyExpr   string

	mu       sync.Mutex
	sequence uint64
	closed   bool
}

// NewPublisher resolves opts.TypeName against sess.Types, computes its
// type hash, allocates identity, declares the node and publisher
// liveliness tokens, and declares the data publisher.
func NewPublisher(sess *session.Session, opts PublisherOptions) (*Publisher, error) {
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

	nodeID := sess.NextNodeID()
	entityID := sess.NextEntityID()
	gid := session.NewGID()

	nodeKey := mangle.NodeLivelinessKeyExpr(opts.DomainID, string(sess.ID()), uint64(nodeID), opts.Namespace, opts.NodeName)
	pubKey := mangle.EndpointLivelinessKeyExpr(opts.DomainID, string(sess.ID()), uint64(nodeID), uint64(entityID),
		mangle.KindPublisher, opts.Namespace, opts.NodeName, opts.Topic, ddsType, hash, opts.QoS.Encode())

	nodeToken, err := sess.Transport.Liveliness().DeclareToken(nodeKey)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "declaring node liveliness token")
	}
	pubToken, err := sess.Transport.Liveliness().DeclareToken(pubKey)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "declaring publisher liveliness token")
	}

	pub, err := sess.Transport.DeclarePublisher(keyExpr)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "declaring publisher on %s", keyExpr)
	}

	return &Publisher{
		sess:      sess,
		opts:      opts,
		msg:       msg,
		gid:       gid,
		pub:       pub,
		nodeToken: nodeToken,
		pubToken:  pubToken,
		keyExpr:   keyExpr,
	}, nil
}

// KeyExpr returns the data key expression this publisher was declared
// on.
func (p *Publisher) KeyExpr() string {
	return p.keyExpr
}

// Publish serializes v to CDR, builds the rmw_zenoh attachment, and
// puts it on the data key expression.
func (p *Publisher) Publish(v schema.Value) error {
	p.mu.Lock()
	seq := p.sequence
	p.sequence++
	p.mu.Unlock()

	payload, err := schema.Encode(p.sess.Types, p.msg, v)
	if err != nil {
		return err
	}

	attachment := BuildAttachment(seq, uint64(time.Now().UnixNano()), p.gid)

	if err := p.pub.Put(payload, attachment); err != nil {
		if p.sess.Metrics != nil {
			p.sess.Metrics.PublishErrorsTotal.WithLabelValues(p.opts.Topic).Inc()
		}
		return ierrors.Wrap(ierrors.TransportError, err, "publishing on %s", p.keyExpr)
	}
	if p.sess.Metrics != nil {
		p.sess.Metrics.PublishTotal.WithLabelValues(p.opts.Topic).Inc()
	}
	return nil
}

// Close undeclares the publisher and its liveliness tokens. It is
// idempotent: a second call performs no work.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var firstErr error
	if err := p.pubToken.Undeclare(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := p.nodeToken.Undeclare(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := p.pub.Undeclare(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// AttachmentSize is the fixed portion of the rmw_zenoh attachment:
// an 8-byte sequence number, an 8-byte timestamp, and a 1-byte GID
// length, followed by the GID bytes themselves.
const AttachmentSize = 8 + 8 + 1 + entity.GIDSize

// BuildAttachment lays out the fixed-shape rmw_zenoh attachment
// carried alongside every publish, request, and response.
func BuildAttachment(seq, timestampNs uint64, gid entity.GID) []byte {
	b := make([]byte, AttachmentSize)
	binary.LittleEndian.PutUint64(b[0:8], seq)
	binary.LittleEndian.PutUint64(b[8:16], timestampNs)
	b[16] = entity.GIDSize
	copy(b[17:], gid[:])
	return b
}

// ParseAttachment splits an rmw_zenoh attachment back into its
// sequence number, timestamp, and GID.
func ParseAttachment(b []byte) (seq, timestampNs uint64, gid entity.GID, err error) {
	if len(b) < 17 {
		return 0, 0, entity.GID{}, ierrors.New(ierrors.ProtocolError, "attachment shorter than header: %d bytes", len(b))
	}
	seq = binary.LittleEndian.Uint64(b[0:8])
	timestampNs = binary.LittleEndian.Uint64(b[8:16])
	gidLen := int(b[16])
	if len(b) < 17+gidLen {
		return 0, 0, entity.GID{}, ierrors.New(ierrors.ProtocolError, "attachment truncated: gid_len=%d, have %d bytes", gidLen, len(b)-17)
	}
	copy(gid[:], b[17:17+gidLen])
	return seq, timestampNs, gid, nil
}
