package marketplace

import (
	"bytes"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadApplication reads an application from a YAML or JSON file.
func LoadApplication(path string) (Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Application{}, eris.Wrapf(err, "read application %s", path)
	}
	return ParseApplication(data)
}

// ParseApplication decodes an application, rejecting unknown fields so that
// a misspelled key is not silently read as zero.
func ParseApplication(data []byte) (Application, error) {
	var app Application
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&app); err != nil {
		return Application{}, eris.Wrap(err, "decode application")
	}
	return app, nil
}
