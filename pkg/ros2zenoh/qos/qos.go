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

// Package qos encodes a QosProfile into the compact string carried in
// the tail of every liveliness token.
package qos

import (
	"strconv"
	"time"
)

// Reliability mirrors DDS/ROS2 reliability policies.
type Reliability int

const (
	ReliabilityReliable Reliability = iota
	ReliabilityBestEffort
)

// Durability mirrors DDS/ROS2 durability policies. TransientLocal is
// the only value that changes runtime subscriber behavior (see
// package pubsub); the rest are observable only to peers that read
// the token.
type Durability int

const (
	DurabilityVolatile Durability = iota
	DurabilityTransientLocal
)

// HistoryKind selects between a bounded or unbounded sample history.
type HistoryKind int

const (
	HistoryKeepLast HistoryKind = iota
	HistoryKeepAll
)

// LivelinessKind mirrors DDS/ROS2 liveliness policies.
type LivelinessKind int

const (
	LivelinessAutomatic LivelinessKind = iota
	LivelinessManualByTopic
)

// Profile is a QoS profile as carried in a liveliness token.
type Profile struct {
	Reliability     Reliability
	Durability      Durability
	History         HistoryKind
	Depth           int
	Deadline        time.Duration
	Lifespan        time.Duration
	Liveliness      LivelinessKind
	LivelinessLease time.Duration
}

// Default is the QoS profile used throughout the examples and test
// vectors in spec §6: reliable, volatile, keep_last(7), no deadline,
// no lifespan, automatic liveliness, no lease.
var Default = Profile{
	Reliability: ReliabilityReliable,
	Durability:  DurabilityVolatile,
	History:     HistoryKeepLast,
	Depth:       7,
}

// Encode produces the comma-separated, colon-separated compact
// representation carried in the liveliness token tail. Each field has
// a fixed position; an unsupported or default value encodes as empty.
// The default profile's encoding is the literal string "::,7:,:,:,,"
// pinned by spec §6:
//
//	pos1 "reliability:durability:history" (empty unless non-default)
//	pos2 "depth:"                         (depth omitted for keep_all)
//	pos3 "deadlineSec:deadlineNsec"
//	pos4 "lifespanSec:lifespanNsec"
//	pos5 "livelinessKind"
//	pos6 "livelinessLease"
func (p Profile) Encode() string {
	reliabilitySub := ""
	if p.Reliability == ReliabilityBestEffort {
		reliabilitySub = "1"
	}
	durabilitySub := ""
	if p.Durability == DurabilityTransientLocal {
		durabilitySub = "1"
	}
	historySub := ""
	depth := ""
	if p.History == HistoryKeepAll {
		historySub = "1"
	} else {
		depth = strconv.Itoa(p.Depth)
	}

	pos1 := reliabilitySub + ":" + durabilitySub + ":" + historySub
	pos2 := depth + ":"
	pos3 := durationPair(p.Deadline)
	pos4 := durationPair(p.Lifespan)
	pos5 := ""
	if p.Liveliness == LivelinessManualByTopic {
		pos5 = "1"
	}
	pos6 := durationField(p.LivelinessLease)

	return pos1 + "," + pos2 + "," + pos3 + "," + pos4 + "," + pos5 + "," + pos6
}

func durationField(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return strconv.FormatInt(d.Nanoseconds(), 10)
}

func durationPair(d time.Duration) string {
	if d == 0 {
		return ":"
	}
	sec := d / time.Second
	nsec := d % time.Second
	return strconv.FormatInt(int64(sec), 10) + ":" + strconv.FormatInt(int64(nsec), 10)
}
