/*
 * Copyright (C) 2022 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/prefix-resolver/pkg/api"
	"github.com/netobserv/prefix-resolver/pkg/config"
	"github.com/netobserv/prefix-resolver/pkg/pipeline"
	"github.com/netobserv/prefix-resolver/pkg/pipeline/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

var (
	buildVersion       = "unknown"
	buildDate          = "unknown"
	envPrefix          = "PREFIX_RESOLVER"
	defaultLogFileName = ".prefix-resolver"
)

// newRootCmd creates the root command, filling opts from flags, environment and config file.
func newRootCmd(opts *config.Options) *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "prefix-resolver [in] [out]",
		Short: "Resolve overlapping labelled IP prefixes into disjoint prefixes, narrowest label wins",
		Long: "Reads \"<prefix> <label>\" lines, in [in] or stdin, and writes the equivalent set of\n" +
			"non-overlapping prefixes to [out] or stdout. \"-\" stands for stdin or stdout.",
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, cfgFile, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Ingest.Type = ""
				opts.Ingest.File = args[0]
			}
			if len(args) > 1 {
				opts.Write.Type = ""
				opts.Write.File = args[1]
			}
			_, err := run(cmd.Context(), opts)
			return err
		},
	}
	initFlags(cmd, &cfgFile, opts)
	return cmd
}

// initConfig use config file and ENV variables if set.
func initConfig(cmd *cobra.Command, cfgFile string, opts *config.Options) error {
	v := viper.New()

	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		// Search config in home directory with name ".prefix-resolver" (without extension).
		v.AddConfigPath(home)
		v.SetConfigName(defaultLogFileName)
	}

	// Read environment variables that match prefix
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// If a config file is found, read it in.
	cfgErr := v.ReadInConfig()

	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	// initialize logger
	initLogger(opts)

	var notFound viper.ConfigFileNotFoundError
	switch {
	case cfgErr == nil:
		log.Debugf("using config file %s", v.ConfigFileUsed())
	case errors.As(cfgErr, &notFound) && cfgFile == "":
		log.Debugf("no config file: %v", cfgErr)
	default:
		return fmt.Errorf("read config error: %w", cfgErr)
	}
	return nil
}

func initLogger(opts *config.Options) {
	ll, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		ll = log.ErrorLevel
	}
	if opts.Trace {
		ll = log.TraceLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}

func dumpConfig(opts *config.Options) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	configAsYAML, err := yaml.Marshal(opts.Redacted())
	if err != nil {
		log.Errorf("error dumping config: %v", err)
		return
	}
	log.Debugf("Using configuration:\n%s", configAsYAML)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var flagErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if flagErr != nil {
			return
		}
		if strings.Contains(f.Name, ".") {
			envVarSuffix := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(f.Name))
			_ = v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix))
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			switch val.(type) {
			case bool, uint, string, int32, int16, int8, int, uint32, uint64, int64, float64, float32, []string, []int:
				flagErr = cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
			default:
				var jsonNew = jsoniter.ConfigCompatibleWithStandardLibrary
				b, err := jsonNew.Marshal(&val)
				if err != nil {
					flagErr = fmt.Errorf("can't parse flag %s into json with value %v got error %w", f.Name, val, err)
					return
				}
				flagErr = cmd.Flags().Set(f.Name, string(b))
			}
			if flagErr != nil {
				flagErr = fmt.Errorf("invalid value for %s: %w", f.Name, flagErr)
			}
		}
	})
	return flagErr
}

func initFlags(cmd *cobra.Command, cfgFile *string, opts *config.Options) {
	flags := cmd.PersistentFlags()
	flags.StringVar(cfgFile, "config", "", fmt.Sprintf("config file (default is $HOME/%s)", defaultLogFileName))
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Log level: trace, debug, info, warning, error")
	flags.BoolVar(&opts.Trace, "trace", false, "Log every trie operation, at trace level")
	flags.BoolVar(&opts.Verify, "verify", false, "Check the resolved prefixes against the input before writing them")

	flags.StringVar(&opts.Ingest.Type, "ingest.type", "", "Input type: file, stdin, s3 (default: file when a file is given, else stdin)")
	flags.StringVar(&opts.Ingest.File, "ingest.file", "", "Input file, \"-\" for stdin")
	s3Flags(flags, "ingest", opts.Ingest.S3)

	flags.StringVar(&opts.Write.Type, "write.type", "", "Output type: file, stdout, s3 (default: file when a file is given, else stdout)")
	flags.StringVar(&opts.Write.File, "write.file", "", "Output file, \"-\" for stdout")
	flags.StringVar(&opts.Write.Format, "write.format", "text", "Output format: text, json")
	s3Flags(flags, "write", opts.Write.S3)

	flags.StringVar(&opts.Metrics.File, "metrics.file", "", "Textfile to write the operational metrics into after the run (default: disabled)")
	flags.StringVar(&opts.Metrics.Prefix, "metrics.prefix", config.DefaultMetricsPrefix, "Prefix of the operational metrics names")
}

func s3Flags(flags *pflag.FlagSet, stage string, s3 *api.S3Object) {
	flags.StringVar(&s3.Endpoint, stage+".s3.endpoint", "", "S3 server address, host:port")
	flags.StringVar(&s3.Bucket, stage+".s3.bucket", "", "S3 bucket")
	flags.StringVar(&s3.Object, stage+".s3.object", "", "S3 object name")
	flags.StringVar(&s3.AccessKeyID, stage+".s3.accessKeyId", "", "S3 access key")
	flags.StringVar(&s3.SecretAccessKey, stage+".s3.secretAccessKey", "", "S3 secret key")
	flags.BoolVar(&s3.Secure, stage+".s3.secure", false, "Use https to connect to the S3 server")
	flags.DurationVar(&s3.Timeout.Duration, stage+".s3.timeout", 0, "Timeout of the S3 transfer (default: 1m)")
}

func main() {
	opts := config.NewOptions()
	ctx, cancel := utils.SetupElegantExit(context.Background())
	err := newRootCmd(&opts).ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *config.Options) (pipeline.Summary, error) {
	// Initial log message
	log.Infof("Starting %s: build version %s, build date %s", filepath.Base(os.Args[0]), buildVersion, buildDate)

	cfg, err := config.ParseConfig(opts)
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("error in parsing configuration: %w", err)
	}
	// Dump configuration
	dumpConfig(&cfg)

	mainPipeline, err := pipeline.NewPipeline(&cfg)
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	sum, err := mainPipeline.Run(ctx)
	log.Debugf("exiting main run")
	return sum, err
}
