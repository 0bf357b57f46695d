// Copyright (c) 2025, The cirg Authors.  All rights reserved.
//
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

package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cirg-dev/cirg/pkg/parser"
	"github.com/cirg-dev/cirg/pkg/source/command"
)

// EventEntry is one event-log record.
type EventEntry = parser.EventEntry

// EventLogInfo holds recent critical, error and warning events.
type EventLogInfo struct {
	SystemEvents      []EventEntry `json:"systemEvents" yaml:"systemEvents"`
	ApplicationEvents []EventEntry `json:"applicationEvents" yaml:"applicationEvents"`
}

func (*EventLogInfo) Category() Category { return CategoryEventLog }

// EventLogProbe queries the System and Application logs with wevtutil for
// events of level 1 to 3 created within Window, newest first, at most
// MaxEvents per log. It fails only when neither log can be read.
type EventLogProbe struct {
	Command   command.Runner
	Window    time.Duration
	MaxEvents int
	Now       func() time.Time
}

func (p *EventLogProbe) Category() Category { return CategoryEventLog }

func (p *EventLogProbe) Fetch(ctx context.Context) (Record, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	since := now().Add(-p.Window).UTC().Format("2006-01-02T15:04:05")

	sys, sysErr := p.query(ctx, "System", since)
	app, appErr := p.query(ctx, "Application", since)
	if sysErr != nil && appErr != nil {
		return nil, unavailable(CategoryEventLog, "wevtutil failed", errors.Join(sysErr, appErr))
	}
	return &EventLogInfo{SystemEvents: sys, ApplicationEvents: app}, nil
}

// EventQueryArgs returns the wevtutil arguments for one log.
func EventQueryArgs(log, since string, maxEvents int) []string {
	query := fmt.Sprintf("*[System[(Level>=1 and Level<=3) and TimeCreated[@SystemTime>='%s']]]", since)
	return []string{
		"qe", log,
		"/q:" + query,
		fmt.Sprintf("/c:%d", maxEvents),
		"/rd:true",
		"/f:xml",
	}
}

func (p *EventLogProbe) query(ctx context.Context, log, since string) ([]EventEntry, error) {
	out, err := p.Command.Run(ctx, "wevtutil", EventQueryArgs(log, since, p.MaxEvents)...)
	if err != nil {
		slog.Debug("event log query failed", "log", log, "error", err)
		return []EventEntry{}, err
	}
	return parser.ParseEvents(out), nil
}
