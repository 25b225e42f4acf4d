// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package doc

import (
	"embed"
	"sort"

	"gopkg.in/yaml.v3"
)

// FS embeds the capacity Open API document.
//
//go:embed capacity.yaml
var FS embed.FS

var (
	version string
	paths   map[string]struct{}
)

// Version returns the api version declared by the document, sent back as x-capacity-ver.
func Version() string {
	return version
}

// Documented reports whether the route template, eg. /capacity/targets/{id}, is described.
func Documented(path string) bool {
	_, ok := paths[path]
	return ok
}

// Paths returns the described route templates, sorted.
func Paths() []string {
	list := make([]string, 0, len(paths))
	for p := range paths {
		list = append(list, p)
	}
	sort.Strings(list)
	return list
}

type openAPIDoc struct {
	Info struct {
		Version string
	}
	Paths map[string]yaml.Node
}

func init() {
	content, err := FS.ReadFile("capacity.yaml")
	if err != nil {
		panic(err)
	}

	var oai openAPIDoc
	if err := yaml.Unmarshal(content, &oai); err != nil {
		panic(err)
	}
	version = oai.Info.Version
	paths = make(map[string]struct{}, len(oai.Paths))
	for p := range oai.Paths {
		paths[p] = struct{}{}
	}
}
