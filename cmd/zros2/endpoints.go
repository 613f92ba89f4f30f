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

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	internallog "github.com/zenoh-ros2/sdk/internal/log"
	"github.com/zenoh-ros2/sdk/internal/metrics"
	"github.com/zenoh-ros2/sdk/pkg/config"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/pubsub"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/qos"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/reposource"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/service"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/session"

	"github.com/prometheus/client_golang/prometheus"
)

// endpointContext holds the flags shared by the endpoint sub-commands
// (publish, subscribe, call, serve).
type endpointContext struct {
	Conf        *config.Parameters
	NodeName    string
	Namespace   string
	TopicOrSvc  string
	TypeName    string
	MessagesDir string
}

func openSession(log internallog.Logger, conf *config.Parameters) (*session.Session, error) {
	reg := metrics.NewMetrics(prometheus.DefaultRegisterer)
	return session.Open(dialTransport, log, reg, conf.Router.IP, conf.Router.Port)
}

// loadType fetches and registers ec.TypeName, and everything it
// depends on, into sess.Types, unless it is already registered. A
// name containing "/srv/" is loaded as a service; everything else as
// a message.
func loadType(log internallog.Logger, sess *session.Session, ec *endpointContext) error {
	cacheDir, err := ec.Conf.CacheDirOr()
	if err != nil {
		return err
	}
	fetcher, err := reposource.NewFetcher(log, ec.MessagesDir, cacheDir)
	if err != nil {
		return err
	}
	if strings.Contains(ec.TypeName, "/srv/") {
		_, err := fetcher.LoadServiceRecursive(sess.Types, ec.TypeName)
		return err
	}
	return fetcher.LoadRecursive(sess.Types, ec.TypeName)
}

// doPublish reads one JSON-encoded object per line from stdin, decodes
// it into the schema.Value shape the message type expects, and
// publishes each as a separate message until stdin is exhausted.
func doPublish(log internallog.Logger, ec *endpointContext) error {
	sess, err := openSession(log, ec.Conf)
	if err != nil {
		return err
	}
	if err := loadType(log, sess, ec); err != nil {
		return err
	}

	pub, err := pubsub.NewPublisher(sess, pubsub.PublisherOptions{
		Topic:     ec.TopicOrSvc,
		TypeName:  ec.TypeName,
		NodeName:  ec.NodeName,
		Namespace: ec.Namespace,
		DomainID:  ec.Conf.DomainID,
		QoS:       qos.Default,
	})
	if err != nil {
		return err
	}
	defer pub.Close()

	msg, err := sess.Types.Message(ec.TypeName)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return err
		}
		val, err := jsonToValue(sess.Types, msg, raw)
		if err != nil {
			return err
		}
		if err := pub.Publish(val); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// doSubscribe prints each received message as one line of JSON to
// stdout until ctx is cancelled.
func doSubscribe(ctx context.Context, log internallog.Logger, ec *endpointContext) error {
	sess, err := openSession(log, ec.Conf)
	if err != nil {
		return err
	}
	if err := loadType(log, sess, ec); err != nil {
		return err
	}

	sub, err := pubsub.NewSubscriber(ctx, sess, pubsub.SubscriberOptions{
		Topic:     ec.TopicOrSvc,
		TypeName:  ec.TypeName,
		NodeName:  ec.NodeName,
		Namespace: ec.Namespace,
		DomainID:  ec.Conf.DomainID,
		QoS:       qos.Default,
		Callback: func(v schema.Value) {
			b, err := json.Marshal(valueToJSON(v))
			if err != nil {
				log.Errorf("encoding received message: %v", err)
				return
			}
			fmt.Println(string(b))
		},
	})
	if err != nil {
		return err
	}
	defer sub.Close()

	<-ctx.Done()
	return nil
}

// doCall decodes the JSON-encoded request object given as reqJSON,
// issues a synchronous service call, and prints the JSON-encoded
// response.
func doCall(log internallog.Logger, ec *endpointContext, timeout time.Duration, reqJSON string) error {
	sess, err := openSession(log, ec.Conf)
	if err != nil {
		return err
	}
	if err := loadType(log, sess, ec); err != nil {
		return err
	}

	cli, err := service.NewClient(sess, service.ClientOptions{
		ServiceName: ec.TopicOrSvc,
		TypeName:    ec.TypeName,
		NodeName:    ec.NodeName,
		Namespace:   ec.Namespace,
		DomainID:    ec.Conf.DomainID,
		QoS:         qos.Default,
	})
	if err != nil {
		return err
	}
	defer cli.Close()

	svc, err := sess.Types.Service(ec.TypeName)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(reqJSON), &raw); err != nil {
		return err
	}
	reqVal, err := jsonToValue(sess.Types, svc.Request, raw)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	resp, err := cli.Call(ctx, reqVal, timeout)
	if err != nil {
		return err
	}

	b, err := json.Marshal(valueToJSON(resp))
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// doServe runs a queue-mode service server, printing each request as
// JSON on stdout and reading the matching JSON response from stdin,
// one line per request, until ctx is cancelled.
func doServe(ctx context.Context, log internallog.Logger, ec *endpointContext, queueDepth int) error {
	sess, err := openSession(log, ec.Conf)
	if err != nil {
		return err
	}
	if err := loadType(log, sess, ec); err != nil {
		return err
	}

	srv, err := service.NewServer(sess, service.ServerOptions{
		ServiceName: ec.TopicOrSvc,
		TypeName:    ec.TypeName,
		NodeName:    ec.NodeName,
		Namespace:   ec.Namespace,
		DomainID:    ec.Conf.DomainID,
		QoS:         qos.Default,
		Mode:        service.ModeQueue,
		QueueDepth:  queueDepth,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	svc, err := sess.Types.Service(ec.TypeName)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		key, req, err := srv.TakeRequest(time.Second)
		if err != nil {
			continue
		}

		b, err := json.Marshal(valueToJSON(req))
		if err != nil {
			log.Errorf("encoding request: %v", err)
			continue
		}
		fmt.Println(string(b))

		if !scanner.Scan() {
			return scanner.Err()
		}
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			log.Errorf("decoding response line: %v", err)
			continue
		}
		respVal, err := jsonToValue(sess.Types, svc.Response, raw)
		if err != nil {
			log.Errorf("converting response: %v", err)
			continue
		}
		if err := srv.SendResponse(key, respVal); err != nil {
			log.Errorf("sending response: %v", err)
		}
	}
}
