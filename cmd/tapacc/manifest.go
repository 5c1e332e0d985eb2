package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// manifest is the optional tapa.toml project file. Command-line flags
// override whatever it sets.
type manifest struct {
	Top     string   `toml:"top"`
	Work    string   `toml:"work"`
	Sources []string `toml:"sources"`
	Tags    []string `toml:"tags"`
}

const defaultManifest = "tapa.toml"

// loadManifest reads the manifest at path, or the default one if it exists.
// An explicitly named manifest must exist; the default one is optional.
func loadManifest(path string) (manifest, error) {
	explicit := path != ""
	if !explicit {
		path = defaultManifest
	}

	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return manifest{}, nil
		}
		return manifest{}, fmt.Errorf("load manifest %s: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return manifest{}, fmt.Errorf("manifest %s: unknown key %s", path, undec[0])
	}
	return m, nil
}
