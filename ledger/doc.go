// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - client for the anchoring node
//
// The anchoring protocol consumes the public ledger as a black box
// through the Client interface: current holdings of an address,
// submission of a signed transaction, confirmation status, and a
// paged scan of auxiliary data entries filed under a namespace tag.
//
// The production implementation speaks JSON-RPC over HTTP(S) to a
// single node endpoint; consensus and finality stay node-side.
package ledger
