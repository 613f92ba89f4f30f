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

// Package mangle implements the rmw_zenoh name-mangling and
// key-expression rules: translating ROS names and types into the
// Zenoh key-expression fragments that peers running stock
// ROS2-on-Zenoh expect.
package mangle

import (
	"strconv"
	"strings"
)

// Enclave is the security-enclave placeholder used in position 4 of
// every liveliness key expression. This SDK only supports the default
// enclave.
const Enclave = "%"

// Mangle replaces "/" with "%" in a ROS name. An empty name or the
// root name "/" mangles to "%".
func Mangle(name string) string {
	if name == "" || name == "/" {
		return "%"
	}
	return strings.ReplaceAll(name, "/", "%")
}

// Unmangle is the inverse of Mangle for any non-root name: replace "%"
// with "/".
func Unmangle(mangled string) string {
	return strings.ReplaceAll(mangled, "%", "/")
}

// ToDDSType converts a fully-qualified ROS2 type name
// "<pkg>/<kind>/<Name>" to the DDS type name
// "<pkg>::<kind>::dds_::<Capitalized-Name>_" that rmw_zenoh puts on
// the wire. Types that don't parse into exactly three slash-separated
// parts fall back to a plain "/" -> "::" substitution.
func ToDDSType(ros2Type string) string {
	parts := strings.Split(ros2Type, "/")
	if len(parts) != 3 {
		return strings.ReplaceAll(ros2Type, "/", "::")
	}

	pkg, kind, name := parts[0], parts[1], parts[2]
	return pkg + "::" + kind + "::dds_::" + capitalize(name) + "_"
}

func capitalize(name string) string {
	if name == "" {
		return ""
	}
	if name[0] >= 'A' && name[0] <= 'Z' {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// DataKeyExpr builds the data key expression for a topic:
// "<domain>/<topic-without-leading-slash>/<dds_type>/<type_hash>".
func DataKeyExpr(domainID int, topic, ddsType, typeHash string) string {
	return joinDomain(domainID, strings.TrimPrefix(topic, "/"), ddsType, typeHash)
}

// ServiceKeyExpr builds the data key expression for a service. It
// shares DataKeyExpr's shape; the caller is expected to have already
// stripped any "_Request_"/"_Response_" suffix from ddsType so both
// halves of the service share one key (see StripReqResp).
func ServiceKeyExpr(domainID int, service, ddsType, typeHash string) string {
	return joinDomain(domainID, strings.TrimPrefix(service, "/"), ddsType, typeHash)
}

func joinDomain(domainID int, parts ...string) string {
	out := strconv.Itoa(domainID)
	for _, p := range parts {
		out += "/" + p
	}
	return out
}

// StripReqResp replaces a trailing "_Request_" or "_Response_" in a
// service DDS type name with "_", producing the service's own DDS type
// name (the shared key-expression fragment for both halves of a
// service, as ToDDSType gives it for the service type).
func StripReqResp(ddsType string) string {
	switch {
	case strings.HasSuffix(ddsType, "_Request_"):
		return strings.TrimSuffix(ddsType, "Request_")
	case strings.HasSuffix(ddsType, "_Response_"):
		return strings.TrimSuffix(ddsType, "Response_")
	default:
		return ddsType
	}
}

// EntityKind identifies the role encoded in position 5 of a
// liveliness key expression.
type EntityKind string

const (
	KindNode          EntityKind = "NN"
	KindPublisher     EntityKind = "MP"
	KindSubscriber    EntityKind = "MS"
	KindServiceServer EntityKind = "SS"
	KindServiceClient EntityKind = "SC"
)

// NodeLivelinessKeyExpr builds a node's liveliness key expression:
// "@ros2_lv/<domain>/<session_id>/<node_id>/<node_id>/NN/%/<ns>/<name>".
func NodeLivelinessKeyExpr(domainID int, sessionID string, nodeID uint64, namespace, nodeName string) string {
	return livelinessPrefix(domainID, sessionID, nodeID, nodeID, KindNode) +
		"/" + Enclave + "/" + Mangle(namespace) + "/" + nodeName
}

// EndpointLivelinessKeyExpr builds the liveliness key expression for a
// publisher, subscriber, service server, or service client:
//
//	@ros2_lv/<domain>/<session_id>/<node_id>/<entity_id>/<kind>/%/
//	<ns>/<node_name>/<mangled_name>/<dds_type>/<type_hash>/<qos>
func EndpointLivelinessKeyExpr(
	domainID int,
	sessionID string,
	nodeID, entityID uint64,
	kind EntityKind,
	namespace, nodeName, endpointName, ddsType, typeHash, qos string,
) string {
	return livelinessPrefix(domainID, sessionID, nodeID, entityID, kind) +
		"/" + Enclave +
		"/" + Mangle(namespace) +
		"/" + nodeName +
		"/" + Mangle(endpointName) +
		"/" + ddsType +
		"/" + typeHash +
		"/" + qos
}

func livelinessPrefix(domainID int, sessionID string, nodeID, entityID uint64, kind EntityKind) string {
	return "@ros2_lv/" + strconv.Itoa(domainID) + "/" + sessionID +
		"/" + strconv.FormatUint(nodeID, 10) + "/" + strconv.FormatUint(entityID, 10) + "/" + string(kind)
}

// LivelinessDiscoverySelector builds the selector used to discover
// AdvancedPublisher caches for a transient-local subscription:
//
//	@ros2_lv/<domain>/*/*/*/MP/*/*/*/%<topic>/<dds_type>/<type_hash>/*
func LivelinessDiscoverySelector(domainID int, topic, ddsType, typeHash string) string {
	return "@ros2_lv/" + strconv.Itoa(domainID) + "/*/*/*/" + string(KindPublisher) +
		"/*/*/*/%" + strings.TrimPrefix(topic, "/") + "/" + ddsType + "/" + typeHash + "/*"
}

// AdvancedPublisherSelector builds the selector used to query a
// discovered publisher's cached history:
// "<data_keyexpr>/@adv/pub/<zenoh_id>/**?_anyke;_max=<n>".
func AdvancedPublisherSelector(dataKeyExpr, zenohID string, maxSamples int) string {
	return dataKeyExpr + "/@adv/pub/" + zenohID + "/**?_anyke;_max=" + strconv.Itoa(maxSamples)
}
