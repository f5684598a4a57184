// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/bitmark-inc/anchord/util"
)

func TestToBaseUnits(t *testing.T) {
	testData := []struct {
		in  string
		out uint64
	}{
		{"0", 0},
		{"0.00000001", 1},
		{"1", 100000000},
		{"0.001", 100000},
		{"21.00000001", 2100000001},
		{"0.000000019", 1}, // truncated after 8 places
		{"1,000.5", 100050000000},
	}

	for i, item := range testData {
		actual := util.ToBaseUnits([]byte(item.in))
		if actual != item.out {
			t.Errorf("%d: %q → %d  expected: %d", i, item.in, actual, item.out)
		}
	}
}
