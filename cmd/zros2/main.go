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

// Command zros2 is a CLI front-end for the SDK: it publishes,
// subscribes, calls, and serves ROS2 topics and services over a
// Zenoh router from the command line, and resolves or hashes message
// and service type definitions without dialing a router at all.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/sirupsen/logrus"

	"github.com/zenoh-ros2/sdk/internal/build"
	internallog "github.com/zenoh-ros2/sdk/internal/log"
	"github.com/zenoh-ros2/sdk/internal/workgroup"
	"github.com/zenoh-ros2/sdk/pkg/config"
)

func main() {
	logger := logrus.StandardLogger()
	log := internallog.NewLogrus(logger)

	app := kingpin.New("zros2", "ROS2-over-Zenoh SDK command line client.")
	app.HelpFlag.Short('h')

	confFlag := app.Flag("config", "Path to a YAML configuration file.").String()
	messagesDirFlag := app.Flag("messages-dir", "Directory of local .msg/.srv definitions, checked before any repository fetch.").Default(".").String()
	domainFlag := app.Flag("domain-id", "ROS domain ID. Overrides the config file and ROS_DOMAIN_ID.").Int()
	routerFlag := app.Flag("router", "Zenoh router host:port.").String()

	cacheResolve := app.Command("cache-resolve", "Print the on-disk path of a message or service definition, fetching it if necessary.")
	crType := cacheResolve.Arg("type", "Fully-qualified type name, e.g. geometry_msgs/msg/Twist.").Required().String()

	cacheHash := app.Command("cache-hash", "Print the RIHS01 type hash of a message or service definition.")
	chType := cacheHash.Arg("type", "Fully-qualified type name, e.g. example_interfaces/srv/AddTwoInts.").Required().String()

	publish := app.Command("publish", "Publish newline-delimited JSON messages read from stdin.")
	pubTopic := publish.Arg("topic", "Topic name.").Required().String()
	pubType := publish.Arg("type", "Message type name.").Required().String()
	pubNode := publish.Flag("node", "Node name.").Default("zros2_publish").String()
	pubNamespace := publish.Flag("namespace", "Node namespace.").Default("").String()

	subscribe := app.Command("subscribe", "Print received messages as newline-delimited JSON until interrupted.")
	subTopic := subscribe.Arg("topic", "Topic name.").Required().String()
	subType := subscribe.Arg("type", "Message type name.").Required().String()
	subNode := subscribe.Flag("node", "Node name.").Default("zros2_subscribe").String()
	subNamespace := subscribe.Flag("namespace", "Node namespace.").Default("").String()

	call := app.Command("call", "Issue one service call and print the JSON response.")
	callService := call.Arg("service", "Service name.").Required().String()
	callType := call.Arg("type", "Service type name.").Required().String()
	callRequest := call.Arg("request", "Request, as a JSON object.").Required().String()
	callNode := call.Flag("node", "Node name.").Default("zros2_call").String()
	callNamespace := call.Flag("namespace", "Node namespace.").Default("").String()
	callTimeout := call.Flag("timeout", "Call timeout.").Default("5s").Duration()

	serve := app.Command("serve", "Run a queue-mode service server: print each request as JSON, read its response from stdin, until interrupted.")
	serveService := serve.Arg("service", "Service name.").Required().String()
	serveType := serve.Arg("type", "Service type name.").Required().String()
	serveNode := serve.Flag("node", "Node name.").Default("zros2_serve").String()
	serveNamespace := serve.Flag("namespace", "Node namespace.").Default("").String()
	serveQueueDepth := serve.Flag("queue-depth", "Bounded request queue depth.").Default("16").Int()

	version := app.Command("version", "Build information for zros2.")

	args := os.Args[1:]
	cmd := kingpin.MustParse(app.Parse(args))

	conf, err := loadConfig(*confFlag)
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}
	if *domainFlag != 0 {
		conf.DomainID = *domainFlag
	} else {
		conf.DomainID = config.DomainIDFromEnv(conf.DomainID)
	}
	if *routerFlag != "" {
		ip, port, err := splitHostPort(*routerFlag)
		if err != nil {
			logger.WithError(err).Fatal("failed to parse --router")
		}
		conf.Router.IP = ip
		conf.Router.Port = port
	}
	if err := conf.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ec := &endpointContext{
		Conf:        conf,
		MessagesDir: *messagesDirFlag,
	}

	switch cmd {
	case cacheResolve.FullCommand():
		cc := &cacheContext{MessagesDir: *messagesDirFlag, CacheDir: conf.Cache.Dir, TypeName: *crType}
		if err := doCacheResolve(log, cc); err != nil {
			logger.WithError(err).Fatal("cache-resolve failed")
		}
	case cacheHash.FullCommand():
		cc := &cacheContext{MessagesDir: *messagesDirFlag, CacheDir: conf.Cache.Dir, TypeName: *chType}
		if err := doCacheHash(log, cc); err != nil {
			logger.WithError(err).Fatal("cache-hash failed")
		}
	case publish.FullCommand():
		ec.TopicOrSvc, ec.TypeName, ec.NodeName, ec.Namespace = *pubTopic, *pubType, *pubNode, *pubNamespace
		if err := doPublish(log, ec); err != nil {
			logger.WithError(err).Fatal("publish failed")
		}
	case subscribe.FullCommand():
		ec.TopicOrSvc, ec.TypeName, ec.NodeName, ec.Namespace = *subTopic, *subType, *subNode, *subNamespace
		var g workgroup.Group
		g.AddContext(func(ctx context.Context) error { return doSubscribe(ctx, log, ec) })
		addSignalHandler(&g, logger)
		if err := g.Run(context.Background()); err != nil {
			logger.WithError(err).Fatal("subscribe failed")
		}
	case call.FullCommand():
		ec.TopicOrSvc, ec.TypeName, ec.NodeName, ec.Namespace = *callService, *callType, *callNode, *callNamespace
		if err := doCall(log, ec, *callTimeout, *callRequest); err != nil {
			logger.WithError(err).Fatal("call failed")
		}
	case serve.FullCommand():
		ec.TopicOrSvc, ec.TypeName, ec.NodeName, ec.Namespace = *serveService, *serveType, *serveNode, *serveNamespace
		var g workgroup.Group
		g.AddContext(func(ctx context.Context) error { return doServe(ctx, log, ec, *serveQueueDepth) })
		addSignalHandler(&g, logger)
		if err := g.Run(context.Background()); err != nil {
			logger.WithError(err).Fatal("serve failed")
		}
	case version.FullCommand():
		fmt.Print(build.PrintBuildInfo())
	}
}

func loadConfig(path string) (*config.Parameters, error) {
	if path == "" {
		defaults := config.Defaults()
		return &defaults, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return config.Parse(f)
}

func splitHostPort(hostport string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", hostport, err)
	}
	return host, port, nil
}

// addSignalHandler registers a group member that waits for SIGINT or
// SIGTERM, so the group's other long-running member is stopped the
// same way it would be stopped by any other member returning first.
func addSignalHandler(g *workgroup.Group, logger *logrus.Logger) {
	g.Add(func(stop <-chan struct{}) error {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case sig := <-c:
			logger.WithField("signal", sig).Info("shutting down")
		case <-stop:
		}
		return nil
	})
}
