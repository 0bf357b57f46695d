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

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cirg-dev/cirg/pkg/probe"
)

func categoriesCmd() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List the inventory categories in snapshot order",
		Description: `Print the names accepted by "snapshot --disable" and the "disabled"
config key, one per line, in the order they appear in a snapshot.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			out := cmd.Root().Writer
			for _, c := range probe.Categories {
				if _, err := fmt.Fprintln(out, c); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
