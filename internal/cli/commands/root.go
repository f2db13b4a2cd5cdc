package commands

import (
	"github.com/mdstudio/mdstudio-cli/internal/cli/auth"
	"github.com/mdstudio/mdstudio-cli/internal/cli/client"
	clierrors "github.com/mdstudio/mdstudio-cli/internal/cli/errors"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "1.0.0-dev"

const usageTemplate = `Usage:
  mdstudio --uri <method-uri> [flags] [-keyword [value...]]...
  mdstudio --store-token|--forget-token [--profile <id>]

Keyword arguments:
  Every token starting with the keyword prefix (default "-") that is not a
  signed integer starts a keyword. The tokens that follow, up to the next
  keyword, are its values: none makes it true, one a single value, more a
  list. Values are typed (bool, int, float, JSON) and values naming files are
  replaced by the file contents. Use "--" to pass keywords that clash with
  the flags below.

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
`

// flags holds the framework flags of one command invocation.
type flags struct {
	uri        string
	cfgFile    string
	profile    string
	endpoint   string
	timeout    int
	prefix     string
	noRead     bool
	scriptPath string
	dryRun     bool
	jsonOutput bool
	rawOutput  bool
	yamlOutput bool
	logLevel   string
	logFile    string

	storeToken  bool
	forgetToken bool
}

// InvokerFactory builds the invoker for an endpoint.
type InvokerFactory func(endpoint string, opts client.Options) (client.Invoker, error)

// Option customises the root command.
type Option func(*runner)

// WithInvokerFactory replaces the transport used to reach the endpoint.
func WithInvokerFactory(f InvokerFactory) Option {
	return func(r *runner) {
		r.newInvoker = f
	}
}

// WithSecretStore replaces the OS keychain used for profile tokens.
func WithSecretStore(s auth.SecretStore) Option {
	return func(r *runner) {
		r.secrets = s
	}
}

// NewRootCommand builds the mdstudio command.
func NewRootCommand(opts ...Option) *cobra.Command {
	r := &runner{
		newInvoker: client.New,
		secrets:    auth.NewKeychain(auth.KeychainPrefix),
	}
	for _, o := range opts {
		o(r)
	}

	cmd := &cobra.Command{
		Use:   "mdstudio",
		Short: "Call MDStudio microservice methods from the command line",
		Long: `MDStudio command line interface.

Call a method exposed by an MDStudio microservice using its public URI.
Keyword arguments are passed through to the method without a fixed schema.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		// Keyword tokens are free-form; known flags are extracted in RunE.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE:               r.run,
	}
	cmd.SetUsageTemplate(usageTemplate)

	f := cmd.Flags()
	f.StringVarP(&r.flags.uri, "uri", "u", "", "microservice method URI (required)")
	f.StringVar(&r.flags.cfgFile, "config", "", "config file (default is $HOME/.config/mdstudio/config.yaml)")
	f.StringVar(&r.flags.profile, "profile", "", "profile to use")
	f.StringVar(&r.flags.endpoint, "endpoint", "", "endpoint URL or wasm:// module, overrides the profile")
	f.IntVar(&r.flags.timeout, "timeout", 0, "request timeout in milliseconds")
	f.StringVar(&r.flags.prefix, "prefix", "", `keyword prefix (default "-")`)
	f.BoolVar(&r.flags.noRead, "no-read-files", false, "send absolute file paths instead of file contents")
	f.StringVar(&r.flags.scriptPath, "script", "", "JavaScript file that rewrites the payload before sending")
	f.BoolVar(&r.flags.dryRun, "dry-run", false, "print the payload instead of calling the method")
	f.BoolVar(&r.flags.jsonOutput, "json", false, "output in JSON format")
	f.BoolVar(&r.flags.rawOutput, "raw", false, "raw output (compact JSON)")
	f.BoolVar(&r.flags.yamlOutput, "yaml", false, "output in YAML format")
	f.StringVar(&r.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&r.flags.logFile, "log-file", "", "write logs as JSON lines to this file")
	f.BoolVar(&r.flags.storeToken, "store-token", false, "read a token from stdin and store it in the keychain for the profile")
	f.BoolVar(&r.flags.forgetToken, "forget-token", false, "remove the profile's token from the keychain")
	f.BoolP("help", "h", false, "help for mdstudio")
	f.Bool("version", false, "print the version")

	return cmd
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return clierrors.Classify(err).ExitCode()
	}
	return clierrors.ExitOK
}
