// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for datvfs. It handles flag
// parsing, tree construction from mount flags and configuration files,
// command execution, and error handling.
package cmd
