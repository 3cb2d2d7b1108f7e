// Command supersphincs generates hybrid RSA + SLH-DSA key pairs and signs,
// verifies and opens messages with them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/supersphincs/supersphincs-go"
	"github.com/supersphincs/supersphincs-go/internal/config"
	"github.com/supersphincs/supersphincs-go/internal/keystore"
)

// Config holds the process streams the commands read and write.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config using the standard streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// errInvalidSignature makes verify exit non-zero without printing an error.
var errInvalidSignature = errors.New("signature is invalid")

// app is the state shared by all commands of one invocation.
type app struct {
	io Config

	configFile string
	home       string
	format     string
	verbose    bool
	password   string
	rsaBits    int
	paramSet   string

	cfg     *config.Config
	logger  *slog.Logger
	store   *keystore.FileStore
	printer *Printer
}

func run(args []string, cfg Config) error {
	a := &app{io: cfg}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	err := root.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, errInvalidSignature) {
		fmt.Fprintf(cfg.Stderr, "Error: %v\n", err)
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "supersphincs",
		Short: "Hybrid RSA + SLH-DSA signatures",
		Long: `supersphincs signs messages with two independent algorithms at once:
RSA (PKCS#1 v1.5) and the hash-based SLH-DSA (FIPS 205). A signature is
valid only when both halves verify.

Keys live under the home directory, optionally encrypted with a password
(PBKDF2-SHA-512 + AES-256-GCM).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is $HOME/.supersphincs/config.yaml)")
	flags.StringVar(&a.home, "home", "", "directory for keys (default from config)")
	flags.StringVarP(&a.format, "output", "o", "text", "output format (text, json, yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.StringVarP(&a.password, "password", "p", "", "password protecting private keys (or $"+config.EnvPassword+")")
	flags.IntVar(&a.rsaBits, "rsa-bits", 0, "RSA modulus size for new keys (2048, 3072, 4096)")
	flags.StringVar(&a.paramSet, "sphincs-parameter-set", "", "SLH-DSA parameter set for new keys")

	root.AddCommand(
		a.keygenCmd(),
		a.listCmd(),
		a.exportPublicCmd(),
		a.importCmd(),
		a.deleteCmd(),
		a.hashCmd(),
		a.signCmd(),
		a.verifyCmd(),
		a.openCmd(),
		a.parametersCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and opens the key store.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path, required := a.configFile, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("home") {
		cfg.Home = a.home
	}
	if flags.Changed("rsa-bits") {
		cfg.RSABits = a.rsaBits
	}
	if flags.Changed("sphincs-parameter-set") {
		cfg.SPHINCSParameterSet = a.paramSet
	}
	if flags.Changed("password") {
		cfg.Password = a.password
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	printer, err := NewPrinter(a.format, a.io.Stdout)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.printer = printer
	a.logger = newLogger(cfg.Logging, a.io.Stderr)

	a.store, err = keystore.NewFileStore(cfg.KeyStoreDir())
	if err != nil {
		return err
	}
	a.logger.Debug("configuration loaded", "home", cfg.Home, "rsa_bits", cfg.RSABits,
		"sphincs_parameter_set", cfg.SPHINCSParameterSet)
	return nil
}

func newLogger(lc config.LoggingConfig, w io.Writer) *slog.Logger {
	level, err := lc.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// scheme builds a Scheme for the given options, logging through the CLI logger.
func (a *app) scheme(opts ...supersphincs.Option) (*supersphincs.Scheme, error) {
	return supersphincs.New(append(opts, supersphincs.WithLogger(a.logger))...)
}

// readInput reads the named file, or stdin for "" and "-".
func (a *app) readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(a.io.Stdin)
	}
	// #nosec G304 - path is provided by the user
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
