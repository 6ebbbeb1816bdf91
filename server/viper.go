// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/feedfixture/health"
	"github.com/xmidt-org/feedfixture/xhttp"
)

const (
	// FileFlagName is the name of the command-line flag for specifying an alternate
	// configuration file for Viper to hunt for.
	FileFlagName = "file"

	// FileFlagShorthand is the command-line shortcut flag for FileFlagName
	FileFlagShorthand = "f"
)

// flagKeys maps command line flags onto the configuration keys they override
var flagKeys = map[string]string{
	"address": "server.address",
	"rss":     "fixtures.rssFeed",
	"html":    "fixtures.htmlPage",
	"assets":  "fixtures.assets",
	"origin":  "cors.allowedOrigins",
}

// Defaults returns the configuration defaults.  These describe the superset server: the RSS feed,
// the HTML page, and the asset mount, readable from any origin.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.address":        DefaultAddress,
		"health.address":        DefaultHealthAddress,
		"health.memInfo":        health.DefaultMemInfoLocation,
		"metrics.address":       DefaultMetricsAddress,
		"fixtures.rssFeed":      DefaultRSSFeed,
		"fixtures.htmlPage":     DefaultHTMLPage,
		"fixtures.assets":       DefaultAssets,
		"cors.allowedOrigins":   []string{xhttp.Wildcard},
		"cors.allowedMethods":   []string{"GET"},
		"cors.allowedHeaders":   []string{xhttp.Wildcard},
		"cors.allowCredentials": true,
		"cors.maxAge":           xhttp.DefaultCORSMaxAge,
		"tracing.enabled":       false,
		"shutdownTimeout":       DefaultShutdownTimeout,
	}
}

// NewViper produces a Viper instance configured with the usual conventions.
// The applicationName is used as the configuration file name, the environment prefix,
// and to generate the path under /etc and $HOME to look for configuration files.
// Automatic environment mode is turned on, with nested keys separated by underscores,
// e.g. FEEDFIXTURE_SERVER_ADDRESS.
func NewViper(applicationName string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(applicationName)
	v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
	v.AddConfigPath(".")

	v.SetEnvPrefix(applicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	return v
}

// DefineFlags adds the standard command line flags to a flag set
func DefineFlags(f *pflag.FlagSet) {
	f.StringP(FileFlagName, FileFlagShorthand, "", "the configuration file to use.  Overrides the search path.")
	f.String("address", "", "the listen address of the fixture server")
	f.String("rss", "", "the RSS feed fixture file")
	f.String("html", "", "the HTML page fixture file")
	f.String("assets", "", "the static asset directory")
	f.StringSlice("origin", nil, "an allowed CORS origin.  May be repeated.")
}

// ParseAndBind parses the given flag set using the supplied arguments and then binds each
// flag onto its configuration key.  If arguments is nil, os.Args[1:] is used instead.
func ParseAndBind(v *viper.Viper, f *pflag.FlagSet, arguments []string) error {
	if arguments == nil {
		arguments = os.Args[1:]
	}

	if err := f.Parse(arguments); err != nil {
		return err
	}

	for name, key := range flagKeys {
		if flag := f.Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return err
			}
		}
	}

	return nil
}

// Configure defines and parses the command line, then reads configuration.  If a file was named with
// the file flag, that file must exist.  Otherwise, a missing file in the search path is not an error.
func Configure(applicationName string, arguments []string, f *pflag.FlagSet, v *viper.Viper) error {
	DefineFlags(f)
	if err := ParseAndBind(v, f, arguments); err != nil {
		return err
	}

	if file, _ := f.GetString(FileFlagName); len(file) > 0 {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	v.SetConfigName(applicationName)
	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}

	return nil
}

// Unmarshal decodes the complete Configuration from viper.  Durations may be given as strings,
// e.g. "15s", and lists as comma-separated strings.  Types implementing encoding.TextUnmarshaler,
// such as log levels, are decoded from their text form.
func Unmarshal(v *viper.Viper) (*Configuration, error) {
	c := new(Configuration)
	err := v.Unmarshal(c, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	))

	if err != nil {
		return nil, err
	}

	return c, nil
}

// New is the primary constructor for this package.  It configures viper from the command line and
// any configuration file, then unmarshals the Configuration.
func New(applicationName string, arguments []string, f *pflag.FlagSet, v *viper.Viper) (*Configuration, error) {
	if err := Configure(applicationName, arguments, f, v); err != nil {
		return nil, err
	}

	return Unmarshal(v)
}
