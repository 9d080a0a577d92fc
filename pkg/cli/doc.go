// Copyright (c) 2025, The EESSI Project.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli implements the command-line interface for the stackinit tool.
//
// # Overview
//
// The stackinit CLI resolves the host hardware to software stack targets and
// initializes the stack environment. It is the entry point scientific
// software stacks distributed over CVMFS use from their init scripts, and it
// doubles as a diagnostics tool for site administrators.
//
// # Commands
//
// cpupath - Resolve the processor target:
//
//	stackinit cpupath
//	stackinit cpupath --all
//	stackinit cpupath --cpuinfo ./cpuinfo --machine x86_64
//
// Prints the most specific software subdirectory compatible with the host
// processor, such as x86_64/amd/zen3, or with --all the full compatibility
// list, colon separated. Exits non-zero when no target matches.
//
// accelpath - Resolve the accelerator target:
//
//	stackinit accelpath
//	stackinit accelpath --install-base /cvmfs/software.eessi.io/versions/2025.06/software/linux
//
// Prints the accelerator target subdirectory, such as accel/nvidia/cc80.
// Hosts without accelerators print nothing and exit zero. With an install
// base the target is checked against the installed tree and may fall back
// one tier.
//
// detect - Full hardware detection report:
//
//	stackinit detect [--format json|yaml|table] [--output FILE]
//
// Probes processor and accelerators concurrently and writes a report with
// the hardware snapshots, the resolved targets, and any warnings.
//
// env - Compose the stack environment:
//
//	eval "$(stackinit env)"
//	stackinit env --shell csh
//	stackinit env --eessi-version 2023.06 --install-user ~/eessi
//
// Prints the EESSI_* environment variables as source-able shell script.
//
// targets - List supported targets:
//
//	stackinit targets [--machine x86_64] [--filter 'x86_64/amd/*']
//
// check - Verify the stack tree:
//
//	stackinit check [--report report.json]
//
// Verifies that the directories the composed environment points at exist.
// Exits non-zero when a required directory is missing.
//
// # Override Variables
//
//	EESSI_SOFTWARE_SUBDIR_OVERRIDE        Force the CPU target, skip probing
//	EESSI_ACCELERATOR_TARGET_OVERRIDE     Force the accelerator target, skip probing
//	EESSI_ACCEL_SOFTWARE_SUBDIR_OVERRIDE  CPU subdirectory for the accelerator install check
//	EESSI_ARCHDETECT_OPTIONS              Colon separated allowlist of target patterns
//
// # Global Flags
//
//	--log-level    Log verbosity: debug, info, warn, error (default: info)
//	--log-format   Log output format: text or json (default: text)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// Logs go to stderr; resolution output and serialized resources go to
// stdout, so command substitution and eval stay clean.
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/probe/cpu, pkg/probe/gpu - Host hardware probing
//   - pkg/target - Target tables and resolution
//   - pkg/detect - Concurrent detection and report assembly
//   - pkg/environment - Environment composition and shell rendering
//   - pkg/check - Stack tree verification
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/EESSI/stackinit/pkg/version.version=1.0.0'"
package cli
