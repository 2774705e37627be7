package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the launcher reads,
// e.g. IMPACT_LAUNCHER_WORKDIR.
const EnvPrefix = "IMPACT_LAUNCHER"

// Keys shared by flags, environment variables and the config file.
const (
	KeyWrapper    = "wrapper"
	KeyWorkDir    = "workdir"
	KeyTypes      = "types"
	KeyDedupe     = "dedupe"
	KeyGradleArgs = "gradle-args"
	KeyVerbose    = "verbose"
	KeyLogFile    = "log-file"

	// FlagGradleArg is the repeatable flag feeding KeyGradleArgs.
	FlagGradleArg = "gradle-arg"
)

// NewViper returns a viper instance configured for IMPACT_LAUNCHER_*
// environment variables and an optional config file.
//
// Search order when configFile is empty:
//   - $HOME/.impact-launcher/config.(yaml|yml|json|toml|...)
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyDedupe, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogFile, false)

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}

	home, err := homedir.Dir()
	if err != nil || strings.TrimSpace(home) == "" {
		return v, nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(home, ".impact-launcher"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// Resolve builds a Config from the positional arguments, the parsed flag set
// and v. A flag the user set explicitly wins over the environment, which
// wins over the config file. resultPath may be empty; callers decide how to
// report a missing path.
func Resolve(fs *pflag.FlagSet, v *viper.Viper, resultPath string) (*Config, error) {
	cfg := &Config{ResultPath: resultPath}

	var err error
	if cfg.Wrapper, err = stringSetting(fs, v, KeyWrapper); err != nil {
		return nil, err
	}
	if cfg.WorkDir, err = stringSetting(fs, v, KeyWorkDir); err != nil {
		return nil, err
	}

	if fs.Changed(KeyTypes) {
		raw, _ := fs.GetString(KeyTypes)
		cfg.TestTypes = SplitList([]string{raw})
	} else {
		cfg.TestTypes = SplitList(v.GetStringSlice(KeyTypes))
	}
	for _, name := range cfg.TestTypes {
		if err := ValidateTestType(name); err != nil {
			return nil, fmt.Errorf("--%s invalid value: %w", KeyTypes, err)
		}
	}

	if fs.Changed(FlagGradleArg) {
		cfg.GradleArgs, _ = fs.GetStringArray(FlagGradleArg)
	} else if cfg.GradleArgs, err = gradleArgsSetting(v); err != nil {
		return nil, err
	}
	if len(cfg.GradleArgs) == 0 {
		cfg.GradleArgs = nil
	}

	cfg.Dedupe = boolSetting(fs, v, KeyDedupe)
	cfg.Verbose = boolSetting(fs, v, KeyVerbose)
	cfg.LogFile = boolSetting(fs, v, KeyLogFile)
	return cfg, nil
}

// gradleArgsSetting reads extra Gradle arguments from the environment or the
// config file. A single string is split with shell quoting rules, so
// IMPACT_LAUNCHER_GRADLE_ARGS='-Pmsg="a b"' stays one argument.
func gradleArgsSetting(v *viper.Viper) ([]string, error) {
	switch raw := v.Get(KeyGradleArgs).(type) {
	case nil:
		return nil, nil
	case string:
		args, err := shlex.Split(raw)
		if err != nil {
			return nil, fmt.Errorf("%s invalid value: %w", KeyGradleArgs, err)
		}
		return args, nil
	default:
		return v.GetStringSlice(KeyGradleArgs), nil
	}
}

func stringSetting(fs *pflag.FlagSet, v *viper.Viper, key string) (string, error) {
	if fs.Changed(key) {
		val, _ := fs.GetString(key)
		val = strings.TrimSpace(val)
		if val == "" {
			return "", fmt.Errorf("--%s flag requires a value", key)
		}
		return val, nil
	}
	return strings.TrimSpace(v.GetString(key)), nil
}

func boolSetting(fs *pflag.FlagSet, v *viper.Viper, key string) bool {
	if fs.Changed(key) {
		val, _ := fs.GetBool(key)
		return val
	}
	return v.GetBool(key)
}

// AddFlags registers the flags Resolve reads.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(KeyWrapper, "", "Wrapper executable (default: gradlew.bat on Windows, ./gradlew elsewhere)")
	fs.String(KeyWorkDir, "", "Directory to run the wrapper in (default: current directory)")
	fs.String(KeyTypes, "", "Comma separated testsToRun keys to run (default: all)")
	fs.Bool(KeyDedupe, false, "Drop duplicate task identifiers, keeping the first")
	fs.StringArray(FlagGradleArg, nil, "Extra argument appended after the tasks (repeatable)")
	fs.Bool(KeyVerbose, false, "Mirror the launcher log to stderr")
	fs.Bool(KeyLogFile, false, "Keep a launcher log file in the temp dir")
}
