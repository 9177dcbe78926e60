package omr

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/omr-service/internal/detection"
)

// ReadProfile decodes a calibration profile from YAML.
//
// Keys missing from the document keep their default values, so a profile
// only needs to name what it changes. Unknown keys are rejected to catch
// typos, and the result must pass detection.Params.Validate.
func ReadProfile(r io.Reader) (detection.Params, error) {
	params := detection.DefaultParams()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		return detection.Params{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	if err := params.Validate(); err != nil {
		return detection.Params{}, err
	}
	return params, nil
}

// LoadProfile reads a calibration profile from a YAML file.
func LoadProfile(path string) (detection.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return detection.Params{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return ReadProfile(bytes.NewReader(data))
}

// WriteProfile encodes params as a YAML document.
func WriteProfile(w io.Writer, params detection.Params) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(params); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return encoder.Close()
}

// SaveProfile writes params to a YAML file.
func SaveProfile(path string, params detection.Params) error {
	var buf bytes.Buffer
	if err := WriteProfile(&buf, params); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
