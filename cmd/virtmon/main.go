// SPDX-FileCopyrightText: 2026 The virtmon authors
//
// SPDX-License-Identifier: MIT

package main

import "github.com/virtmon/virtmon/cmd/virtmon/cmd"

func main() {
	cmd.Execute()
}
