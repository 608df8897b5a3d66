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

package version_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hoikas/fus/version"
)

var _ = Describe("Version", func() {
	It("falls back to devel metadata when no VCS info is embedded", func() {
		v := version.New()
		Expect(v.Release).ToNot(BeEmpty())
		Expect(v.GoVersion).To(HavePrefix("go"))
	})

	It("renders a one-line banner carrying the module name", func() {
		v := version.New()
		s := v.String()
		Expect(s).To(HavePrefix("fus "))
		Expect(strings.Contains(s, v.GoVersion)).To(BeTrue())
	})

	It("marks a dirty build in the banner", func() {
		v := version.Version{Release: "v1.0.0", Commit: "abc123", Modified: true, GoVersion: "go1.22", OS: "linux", Arch: "amd64"}
		Expect(v.String()).To(ContainSubstring("abc123-dirty"))
	})
})

var _ = Describe("License", func() {
	It("falls back to unknown for the zero value", func() {
		var l version.License
		Expect(l.String()).To(Equal("unknown"))
	})

	It("round-trips its string form", func() {
		Expect(version.LicenseMIT.String()).To(Equal("MIT"))
		Expect(version.LicenseGNUAGPLv3.String()).To(Equal("AGPL-3.0"))
	})
})
