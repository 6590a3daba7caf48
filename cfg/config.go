package cfg

import (
	"fmt"
	"strings"

	"github.com/imdario/mergo"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

const (
	// ProfileFull records ownership, permission bits and timestamps.
	ProfileFull = "full"

	// ProfileTimestamps records only timestamps.
	ProfileTimestamps = "timestamps"

	// DefaultSnapshotFile is the hidden file in the working directory that holds the snapshot.
	DefaultSnapshotFile = ".saved-file-attrs"
)

// Configuration holds a strongly-typed tree of the configuration
type Configuration struct {
	Root            string `koanf:"root"`
	SnapshotFile    string `koanf:"snapshot-file"`
	Profile         string `koanf:"profile"`
	MetricsTextfile string `koanf:"metrics-textfile"`
}

var (
	// Config contains the values of the user-provided configuration,
	// combined with the default values as defined in NewDefaultConfig.
	Config = NewDefaultConfig()
)

// profileDefaults holds the values a profile implies for settings the user left empty.
var profileDefaults = map[string]Configuration{
	ProfileFull:       {Root: "."},
	ProfileTimestamps: {Root: "content"},
}

// NewDefaultConfig retrieves the config with sane defaults
func NewDefaultConfig() *Configuration {
	return &Configuration{
		SnapshotFile: DefaultSnapshotFile,
		Profile:      ProfileFull,
	}
}

// Validate ensures a consistent configuration and returns an error should that not be the case
func (c *Configuration) Validate() error {
	c.Profile = strings.ToLower(c.Profile)
	if _, known := profileDefaults[c.Profile]; !known {
		return fmt.Errorf("the profile '%s' is unknown, must be one of '%s' or '%s'", c.Profile, ProfileFull, ProfileTimestamps)
	}
	if strings.TrimSpace(c.SnapshotFile) == "" {
		return fmt.Errorf("snapshot file cannot be empty")
	}
	return nil
}

// ApplyProfileDefaults fills every empty setting with the value implied by the selected profile.
func (c *Configuration) ApplyProfileDefaults() error {
	defaults, known := profileDefaults[strings.ToLower(c.Profile)]
	if !known {
		return fmt.Errorf("the profile '%s' is unknown", c.Profile)
	}
	if err := mergo.Merge(c, defaults); err != nil {
		return fmt.Errorf("cannot apply defaults of profile '%s': %w", c.Profile, err)
	}
	return nil
}

// LoadEnvironment merges the environment variables starting with prefix into c.
// FSATTRS_SNAPSHOT_FILE is mapped to the key "snapshot-file", for example.
func LoadEnvironment(c *Configuration, prefix string) error {
	k := koanf.New(".")

	if err := k.Load(env.Provider(prefix, ".", keyNameMapper(prefix)), nil); err != nil {
		return fmt.Errorf("could not load environment variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", c, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return fmt.Errorf("could not merge defaults with settings from environment variables: %w", err)
	}
	return nil
}

func keyNameMapper(prefix string) func(string) string {
	return func(s string) string {
		s = strings.TrimPrefix(s, prefix)
		s = strings.ToLower(s)
		s = strings.Replace(s, "_", "-", -1)
		return s
	}
}
