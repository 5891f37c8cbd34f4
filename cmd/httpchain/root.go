// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/xmidt-org/httpchain/config"
)

// cli holds the state shared by all commands.
type cli struct {
	loader *config.Loader
	deps   config.Dependencies

	configPath string
	envPrefix  string
}

func (c *cli) load() (config.Config, error) {
	return c.loader.Load(c.configPath, c.envPrefix)
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "httpchain",
		Short:         "httpchain sends HTTP requests through a configurable interceptor chain.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&c.envPrefix, "env-prefix", config.DefaultEnvPrefix, "prefix of configuration environment variables")

	root.AddCommand(
		newSendCommand(c),
		newConfigCommand(c),
	)

	return root
}
