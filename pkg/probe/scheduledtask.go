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
	"strings"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/parser"
	"github.com/cirg-dev/cirg/pkg/source/command"
)

// ScheduledTaskInfo lists scheduled tasks outside the \Microsoft\ folder.
type ScheduledTaskInfo struct {
	Tasks []ScheduledTask `json:"tasks" yaml:"tasks"`
}

// ScheduledTask is one task row from schtasks.
type ScheduledTask struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	State   string `json:"state" yaml:"state"`
	LastRun string `json:"lastRun" yaml:"lastRun"`
	NextRun string `json:"nextRun" yaml:"nextRun"`
	Result  string `json:"result" yaml:"result"`
	Author  string `json:"author" yaml:"author"`
}

func (*ScheduledTaskInfo) Category() Category { return CategoryScheduledTask }

// ScheduledTaskProbe runs schtasks in verbose CSV mode.
type ScheduledTaskProbe struct {
	Command command.Runner
}

func (p *ScheduledTaskProbe) Category() Category { return CategoryScheduledTask }

func (p *ScheduledTaskProbe) Fetch(ctx context.Context) (Record, error) {
	out, err := p.Command.Run(ctx, "schtasks", "/Query", "/FO", "CSV", "/V")
	if err != nil {
		return nil, unavailable(CategoryScheduledTask, "schtasks failed", err)
	}
	tasks, err := ParseScheduledTasks(out)
	if err != nil {
		return nil, err
	}
	return &ScheduledTaskInfo{Tasks: tasks}, nil
}

// ParseScheduledTasks parses verbose schtasks CSV output. The first line is
// the header; repeated header rows and rows too short to hold a task name
// are skipped. Rows are streamed so hosts with many tasks are not bounded
// by the total output size.
func ParseScheduledTasks(out string) ([]ScheduledTask, error) {
	tasks := []ScheduledTask{}
	var h *parser.Header
	nameIdx := 0

	err := parser.NewParser().Each(strings.NewReader(out), func(line string) bool {
		row := parser.ParseCSVLine(line)
		if h == nil {
			h = parser.NewHeader(row)
			nameIdx = max(h.Index("TaskName"), 0)
			return true
		}
		if len(row) <= nameIdx || h.IsRepeat(row) {
			return true
		}
		path := row[nameIdx]
		if strings.HasPrefix(path, `\Microsoft\`) {
			return true
		}
		name := path
		if i := strings.LastIndex(path, `\`); i >= 0 {
			name = path[i+1:]
		}
		tasks = append(tasks, ScheduledTask{
			Name:    name,
			Path:    path,
			State:   h.Get(row, "Status"),
			LastRun: h.Get(row, "Last Run Time"),
			NextRun: h.Get(row, "Next Run Time"),
			Result:  h.Get(row, "Last Result"),
			Author:  h.Get(row, "Author"),
		})
		return true
	})
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeParseFailure, "unreadable schtasks output", err)
	}
	return tasks, nil
}
