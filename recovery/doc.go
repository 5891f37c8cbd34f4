// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package recovery implements an interceptor that recovers from panics raised
anywhere further down a chain, including the base creator and client.  By
default a panic is converted into a *PanicError.  A status code can be
configured instead, in which case execution panics produce a synthetic response.

The recovery interceptor should normally be registered first, so that it
encloses every other link.
*/
package recovery
