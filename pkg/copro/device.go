// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package copro

import "fmt"

// Properties describe the coprocessor's memory region as the driver reports
// it. CPRAMStart is where that region starts in the coprocessor's own address
// space; section addresses are relative to it on drivers that need a base
// offset.
type Properties struct {
	Name       string
	Flags      uint32
	RAMStart   uint64 //host address
	RAMSize    uint32
	CPRAMStart uint64 //coprocessor address
}

func (p Properties) String() string {
	return fmt.Sprintf("%s: ram 0x%08x+0x%x, base 0x%08x, flags 0x%x", p.Name, p.RAMStart, p.RAMSize, p.CPRAMStart, p.Flags)
}
