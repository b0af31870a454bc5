package loader

import (
	"gopkg.in/ini.v1"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// Section holds the rules of an INI rule file.
const Section = "General"

var iniOptions = ini.LoadOptions{
	AllowShadows:            true,
	KeyValueDelimiters:      "=",
	SkipUnrecognizableLines: true,
}

// loadINI reads the [General] section of path. Every key names a target
// container and may repeat; each occurrence is one rule, kept in file order.
func loadINI(path string) (types.File, error) {
	cfg, err := ini.LoadSources(iniOptions, path)
	if err != nil {
		return types.File{}, err
	}

	var f types.File
	sec, err := cfg.GetSection(Section)
	if err != nil {
		return f, nil
	}
	for _, key := range sec.Keys() {
		for _, v := range key.ValueWithShadows() {
			f.Rules = append(f.Rules, types.Rule{Target: key.Name(), Value: v})
		}
	}
	return f, nil
}
