// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config_test

import "github.com/aibor/datvfs/content"

func bytesSource(data string) *content.Memory {
	return content.NewMemory(data, []byte(data))
}
