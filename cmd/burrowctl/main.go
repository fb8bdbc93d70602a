// Copyright 2026 The Burrow Authors
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

package main

import (
	"os"

	"github.com/burrowkit/burrow/lib/log"
	scaffoldcmd "github.com/burrowkit/burrow/tools/scaffold"
	versioncmd "github.com/burrowkit/burrow/tools/version"
	"github.com/spf13/cobra"
)

func main() {
	logger := log.NewProdLogger(os.Stdout)

	rootCmd := &cobra.Command{
		Use:   "burrowctl",
		Short: "burrowctl is a command line helper for Burrow",
	}

	rootCmd.AddCommand(
		scaffoldcmd.CreateScaffoldCMD(logger),
		versioncmd.CreateVersionCMD(logger),
	)

	rootCmd.Execute()
}
