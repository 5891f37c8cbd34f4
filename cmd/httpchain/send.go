// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xmidt-org/httpchain"
	"github.com/xmidt-org/httpchain/config"
)

var errInvalidHeader = errors.New("header must be in the form name:value")

type sendOptions struct {
	headers []string
	data    string
	include bool
}

// bodyCreator creates requests carrying a fixed body.
func bodyCreator(data string) httpchain.Creator {
	if len(data) == 0 {
		return httpchain.DefaultCreator
	}

	return httpchain.CreatorFunc(func(ctx context.Context, method string, u *url.URL) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(data))
	})
}

func parseHeaders(values []string) (http.Header, error) {
	h := make(http.Header, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || len(name) == 0 {
			return nil, fmt.Errorf("%w: %q", errInvalidHeader, v)
		}

		h.Add(name, strings.TrimSpace(value))
	}

	return h, nil
}

func writeResponse(w io.Writer, response *http.Response, include bool) error {
	if include {
		fmt.Fprintf(w, "%s %s\n", response.Proto, response.Status)

		names := make([]string, 0, len(response.Header))
		for name := range response.Header {
			names = append(names, name)
		}

		sort.Strings(names)
		for _, name := range names {
			for _, value := range response.Header[name] {
				fmt.Fprintf(w, "%s: %s\n", name, value)
			}
		}

		fmt.Fprintln(w)
	}

	if response.Body == nil {
		return nil
	}

	_, err := io.Copy(w, response.Body)
	return err
}

func newSendCommand(c *cli) *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send METHOD URL",
		Short: "Send one request through the configured pipeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := parseHeaders(opts.headers)
			if err != nil {
				return err
			}

			cfg, err := c.load()
			if err != nil {
				return err
			}

			b, err := config.Build(cfg, c.deps)
			if err != nil {
				return err
			}

			defer b.Close() //nolint:errcheck

			p := b.Chain.Then(bodyCreator(opts.data), b.Client)
			request, err := p.Create(cmd.Context(), strings.ToUpper(args[0]), args[1])
			if err != nil {
				return err
			}

			for name, values := range extra {
				request.Header[name] = values
			}

			response, err := p.Do(request)
			if err != nil {
				return err
			}

			defer httpchain.Cleanup(response)
			return writeResponse(cmd.OutOrStdout(), response, opts.include)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, "extra request header, name:value (repeatable)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "request body")
	cmd.Flags().BoolVarP(&opts.include, "include", "i", false, "print the response status and headers")
	return cmd
}
