// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptaddress

import (
	"encoding/hex"

	gocache "github.com/patrickmn/go-cache"
)

// Cache - memoized derivation front
//
// derivation is stable for fixed inputs so callers keep one of these
// instead of re-deriving on every anchoring operation
type Cache struct {
	store *gocache.Cache
}

// NewCache - create an empty derivation cache
func NewCache() *Cache {
	return &Cache{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Derive - as Derive above, but memoized per (script, chain)
func (c *Cache) Derive(script []byte, chainName string) (string, error) {
	key := chainName + ":" + hex.EncodeToString(script)

	if address, ok := c.store.Get(key); ok {
		return address.(string), nil
	}

	address, err := Derive(script, chainName)
	if nil != err {
		return "", err
	}
	c.store.Set(key, address, gocache.NoExpiration)
	return address, nil
}

// process wide cache for the common one-script deployment
var defaultCache = NewCache()

// CachedDerive - Derive through the shared cache
func CachedDerive(script []byte, chainName string) (string, error) {
	return defaultCache.Derive(script, chainName)
}
