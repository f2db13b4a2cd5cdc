package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mdstudio/mdstudio-cli/internal/cli/auth"
	"github.com/mdstudio/mdstudio-cli/internal/cli/client"
	clierrors "github.com/mdstudio/mdstudio-cli/internal/cli/errors"
	"github.com/mdstudio/mdstudio-cli/internal/cli/output"
	"github.com/mdstudio/mdstudio-cli/internal/cli/script"
	"github.com/mdstudio/mdstudio-cli/internal/config"
	"github.com/mdstudio/mdstudio-cli/internal/domain/call"
	"github.com/mdstudio/mdstudio-cli/internal/logger"
	"github.com/spf13/cobra"
)

// runner carries the state of one mdstudio invocation.
type runner struct {
	flags      flags
	newInvoker InvokerFactory
	secrets    auth.SecretStore
}

func (r *runner) formatter() *output.Formatter {
	var fmtMode output.OutputFormat = output.FormatText
	switch {
	case r.flags.jsonOutput:
		fmtMode = output.FormatJSON
	case r.flags.rawOutput:
		fmtMode = output.FormatRaw
	case r.flags.yamlOutput:
		fmtMode = output.FormatYAML
	}
	return output.NewFormatter(fmtMode, true)
}

func (r *runner) run(cmd *cobra.Command, argv []string) error {
	err := r.call(cmd, argv)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), r.formatter().FormatError(clierrors.Classify(err)))
	}
	return err
}

func (r *runner) call(cmd *cobra.Command, argv []string) error {
	known, tokens := splitKnown(cmd.Flags(), argv)
	if err := cmd.Flags().Parse(known); err != nil {
		return clierrors.Usagef("%v", err)
	}

	if help, _ := cmd.Flags().GetBool("help"); help {
		return cmd.Help()
	}
	if version, _ := cmd.Flags().GetBool("version"); version {
		fmt.Fprintf(cmd.OutOrStdout(), "mdstudio %s\n", cmd.Version)
		return nil
	}
	if r.flags.storeToken || r.flags.forgetToken {
		return r.manageToken(cmd)
	}
	if r.flags.uri == "" {
		return call.ErrMissingURI
	}

	settings, profile, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	closeLog, err := logger.Init(logger.Options{
		Level:  settings.LogLevel,
		File:   r.flags.logFile,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return clierrors.Usagef("%v", err)
	}
	defer closeLog()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	payload, err := call.Parse(tokens, r.flags.uri, call.Options{
		Prefix:    settings.Prefix,
		ReadFiles: settings.ShouldReadFiles(),
		Dir:       wd,
	})
	if err != nil {
		return err
	}

	if r.flags.scriptPath != "" {
		tr, err := script.Load(r.flags.scriptPath)
		if err != nil {
			return clierrors.Usagef("%v", err)
		}
		if payload, err = tr.Apply(payload); err != nil {
			return err
		}
	}

	formatter := r.formatter()
	if r.flags.dryRun {
		return formatter.WritePayload(cmd.OutOrStdout(), payload)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if t := settings.Timeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	ts, err := auth.TokenSource(ctx, profile, r.secrets)
	if err != nil {
		return err
	}
	inv, err := r.newInvoker(profile.Endpoint, client.Options{
		HTTPClient: auth.HTTPClient(ctx, ts),
		Env:        profile.Env,
	})
	if err != nil {
		return err
	}

	slog.Debug("calling method", "uri", payload.URI(), "profile", profile.ID, "endpoint", profile.Endpoint)
	res, err := inv.Invoke(ctx, payload.URI(), payload)
	if err != nil {
		return err
	}

	out, err := formatter.FormatResult(res)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// manageToken stores or removes the keychain token of the selected profile.
// A stored token is read from the first line of stdin.
func (r *runner) manageToken(cmd *cobra.Command) error {
	if r.flags.storeToken && r.flags.forgetToken {
		return clierrors.Usagef("--store-token and --forget-token are mutually exclusive")
	}
	_, profile, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if r.flags.forgetToken {
		if err := r.secrets.RemoveSecret(profile.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token removed for profile %s\n", profile.ID)
		return nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return clierrors.Usagef("no token on stdin")
	}
	if err := r.secrets.SetSecret(profile.ID, token); err != nil {
		return err
	}
	if profile.AuthMode != config.AuthKeychain {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: profile %s does not use keychain auth; set auth_mode: keychain to send this token\n", profile.ID)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Token stored for profile %s\n", profile.ID)
	return nil
}

// loadConfig merges the config file, the environment and the flags, in
// increasing order of precedence.
func (r *runner) loadConfig(cmd *cobra.Command) (config.Settings, config.Profile, error) {
	path := r.flags.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.NewStore(path).Load()
	if err != nil {
		return config.Settings{}, config.Profile{}, clierrors.Usagef("load config: %v", err)
	}

	env, err := config.ParseEnv()
	if err != nil {
		return config.Settings{}, config.Profile{}, clierrors.Usagef("%v", err)
	}

	id := cfg.Settings.DefaultProfile
	if env.Profile != "" {
		id = env.Profile
	}
	if r.flags.profile != "" {
		id = r.flags.profile
	}
	profile, ok := cfg.Profile(id)
	if !ok {
		if r.flags.profile != "" {
			return config.Settings{}, config.Profile{}, clierrors.Usagef("profile %q not found in %s", id, path)
		}
		profile = config.Profile{ID: id}
	}

	settings, profile := env.Apply(cfg.Settings, profile)

	f := cmd.Flags()
	if f.Changed("endpoint") {
		profile.Endpoint = r.flags.endpoint
	}
	if f.Changed("timeout") {
		settings.TimeoutMS = r.flags.timeout
	}
	if f.Changed("prefix") {
		settings.Prefix = r.flags.prefix
	}
	if f.Changed("no-read-files") && r.flags.noRead {
		readFiles := false
		settings.ReadFiles = &readFiles
	}
	if f.Changed("log-level") {
		settings.LogLevel = r.flags.logLevel
	}

	if err := settings.Validate(); err != nil {
		return config.Settings{}, config.Profile{}, clierrors.Usagef("%v", err)
	}
	if err := profile.Validate(); err != nil {
		return config.Settings{}, config.Profile{}, clierrors.Usagef("%v", err)
	}
	return settings, profile, nil
}
