/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package version reports the build-info string the CLI prints for
// --version: module path, version tag,
// commit, and the toolchain that produced the binary, sourced from the
// binary's embedded build info rather than -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version describes one build of this module.
type Version struct {
	Release   string
	Commit    string
	Modified  bool
	BuildDate string
	GoVersion string
	OS        string
	Arch      string
	License   License
}

// New reads the binary's embedded build info (module version, VCS
// revision, dirty flag) via debug.ReadBuildInfo and assembles a Version.
// Binaries built with `go run` or without module mode carry no VCS
// settings; those fields are left empty rather than guessed.
func New() Version {
	v := Version{
		Release:   "(devel)",
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		License:   LicenseMIT,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}

	if info.Main.Version != "" {
		v.Release = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			v.Commit = s.Value
		case "vcs.time":
			v.BuildDate = s.Value
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}

	return v
}

// String renders the one-line form the CLI prints for --version.
func (v Version) String() string {
	rev := v.Commit
	if rev == "" {
		rev = "unknown"
	} else if v.Modified {
		rev += "-dirty"
	}

	return fmt.Sprintf("fus %s (%s, %s/%s, %s)", v.Release, rev, v.OS, v.Arch, v.GoVersion)
}
