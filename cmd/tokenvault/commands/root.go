package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tokenvault/internal/app"
	"tokenvault/internal/config"
	"tokenvault/internal/crypto"
	"tokenvault/internal/logging"
	"tokenvault/internal/prompt"
)

// errAbsent signals a negative "exists" answer: exit 1, nothing on stderr.
var errAbsent = errors.New("secret absent")

// options carries global flags and the per-invocation dependency graph.
type options struct {
	configPath string
	storePath  string
	verbose    bool
	logLevel   string
	envVar     string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	prompter *prompt.Terminal
	wire     *app.Wire
}

func newRootCmd(in io.Reader, out, errOut io.Writer) (*cobra.Command, *options) {
	o := &options{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "tokenvault",
		Short:         "Local encrypted vault for API tokens and bot credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return o.setup(cmd.Context())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&o.storePath, "file", "", "secret store file (default ~/.tokenvault/secrets.json)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging (same as --log-level debug)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&o.envVar, "passphrase-env", "", "environment variable holding the passphrase (default TOKENVAULT_PASSPHRASE)")

	root.AddCommand(
		addCmd(o),
		getCmd(o),
		listCmd(o),
		updateCmd(o),
		removeCmd(o),
		existsCmd(o),
		ensureCmd(o),
		rekeyCmd(o),
	)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root, o
}

// setup loads settings, resolves the passphrase and builds the Wire.
func (o *options) setup(ctx context.Context) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.storePath != "" {
		if cfg.Store.Path, err = config.ExpandPath(o.storePath); err != nil {
			return err
		}
	}
	if o.envVar != "" {
		cfg.Passphrase.Env = o.envVar
	}
	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	if o.verbose {
		level = string(logging.LevelDebug)
	}
	log, err := logging.NewWithWriter(level, o.errOut)
	if err != nil {
		return err
	}

	o.prompter = prompt.NewTerminal(o.in, o.errOut)
	passphrase, err := o.passphrase(ctx, cfg.Passphrase.Env)
	if err != nil {
		return err
	}
	defer crypto.Wipe(passphrase)

	o.wire, err = app.NewWire(app.Config{
		Settings:   cfg,
		Passphrase: passphrase,
		Prompter:   o.prompter,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	log.Debug("vault ready", zap.String("store", cfg.Store.Path))
	return nil
}

func (o *options) passphrase(ctx context.Context, env string) ([]byte, error) {
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return []byte(v), nil
		}
	}
	v, err := o.prompter.Secret(ctx, "Vault passphrase")
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(v)), nil
}

// Execute runs the CLI with args and reports errors on errOut.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	root, o := newRootCmd(in, out, errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil, errors.Is(err, errAbsent):
	case errors.Is(err, context.Canceled):
		if o.wire != nil {
			o.wire.Log.Warn("interrupted, nothing was written")
		}
		fmt.Fprintln(errOut, "\nCtrl-C detected. Exiting...")
	default:
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	if o.wire != nil {
		o.wire.Close()
	}
	return err
}

// ExitCode maps an Execute result to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
