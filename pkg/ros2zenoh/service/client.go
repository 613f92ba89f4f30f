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

package service

import (
	"context"
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

// ClientOptions configures a Client's construction.
type ClientOptions struct {
	ServiceName string
	TypeName    string // e.g. "example_interfaces/srv/AddTwoInts"
	NodeName    string
	Namespace   string
	DomainID    int
	QoS         qos.Profile
}

// Client is a live ROS2 service client endpoint.
type Client struct {
	sess *session.Session
	opts ClientOptions
	req  schema.MessageSchema
	resp schema.MessageSchema
	gid  entity.GID

	nodeToken ztransport.Token
	cliToken  ztransport.Token
	keyExpr   string

	mu       sync.Mutex
	sequence uint64
	closed   bool
}

// NewClient resolves opts.TypeName's request/response schemas,
// computes the service type hash, allocates identity, and declares
// the node and client liveliness tokens.
func NewClient(sess *session.Session, opts ClientOptions) (*Client, error) {
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
	cliKey := mangle.EndpointLivelinessKeyExpr(opts.DomainID, string(sess.ID()), uint64(nodeID), uint64(entityID),
		mangle.KindServiceClient, opts.Namespace, opts.NodeName, opts.ServiceName, ddsType, hash, opts.QoS.Encode())

	nodeToken, err := sess.Transport.Liveliness().DeclareToken(nodeKey)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "declaring node liveliness token")
	}
	cliToken, err := sess.Transport.Liveliness().DeclareToken(cliKey)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "declaring client liveliness token")
	}

	return &Client{
		sess:      sess,
		opts:      opts,
		req:       req,
		resp:      resp,
		gid:       gid,
		nodeToken: nodeToken,
		cliToken:  cliToken,
		keyExpr:   keyExpr,
	}, nil
}

// KeyExpr returns the service key expression this client was declared
// on.
func (c *Client) KeyExpr() string {
	return c.keyExpr
}

func (c *Client) nextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := c.sequence
	c.sequence++
	return seq
}

// Call blocks until the first successful reply or timeout, returning
// the decoded response. A Timeout error is returned if no reply
// arrives in time.
func (c *Client) Call(ctx context.Context, req schema.Value, timeout time.Duration) (schema.Value, error) {
	if c.sess.Metrics != nil {
		c.sess.Metrics.ServiceCallsTotal.WithLabelValues(c.opts.ServiceName).Inc()
	}

	payload, err := schema.Encode(c.sess.Types, c.req, req)
	if err != nil {
		return schema.Value{}, err
	}
	attachment := pubsub.BuildAttachment(c.nextSeq(), uint64(time.Now().UnixNano()), c.gid)

	var (
		once   sync.Once
		result schema.Value
		got    bool
	)

	err = c.sess.Transport.Query(ctx, c.keyExpr, payload, attachment, timeout, func(reply ztransport.QueryReply) {
		once.Do(func() {
			v, decErr := schema.Decode(c.sess.Types, c.resp, reply.Payload)
			if decErr != nil {
				c.sess.Log.Errorf("service client %s: undecodable reply: %v", c.opts.ServiceName, decErr)
				return
			}
			result = v
			got = true
		})
	})
	if err != nil {
		return schema.Value{}, ierrors.Wrap(ierrors.TransportError, err, "calling %s", c.keyExpr)
	}
	if !got {
		if c.sess.Metrics != nil {
			c.sess.Metrics.ServiceCallTimeouts.WithLabelValues(c.opts.ServiceName).Inc()
		}
		return schema.Value{}, ierrors.New(ierrors.Timeout, "no response from %s within %s", c.opts.ServiceName, timeout)
	}
	return result, nil
}

// CallAsync spawns a goroutine that issues Call and invokes callback
// with the decoded response and ok=true, or a zero Value and ok=false
// on timeout or error.
func (c *Client) CallAsync(ctx context.Context, req schema.Value, timeout time.Duration, callback func(resp schema.Value, ok bool)) {
	go func() {
		resp, err := c.Call(ctx, req, timeout)
		callback(resp, err == nil)
	}()
}

// Close undeclares the client's liveliness tokens. It is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	var firstErr error
	if err := c.cliToken.Undeclare(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.nodeToken.Undeclare(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
