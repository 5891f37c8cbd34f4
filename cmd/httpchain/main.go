// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Command httpchain sends a single request through a pipeline assembled
// from configuration.
package main

import (
	"os"

	"github.com/spf13/afero"

	"github.com/xmidt-org/httpchain/config"
)

func main() {
	root := newRootCommand(&cli{
		loader: config.NewLoader(afero.NewOsFs()),
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
