package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supersphincs/supersphincs-go"
	"github.com/supersphincs/supersphincs-go/internal/keystore"
)

func (a *app) keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <name>",
		Short: "Generate and store a new hybrid key pair",
		Long: `Generate a hybrid key pair and store it under <name>.

The private key is encrypted with --password (or $SUPERSPHINCS_PASSWORD)
when one is given, and stored as plain base64 otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheme, err := a.scheme(a.cfg.SchemeOptions()...)
			if err != nil {
				return err
			}

			kp, err := scheme.KeyPair(ctx)
			if err != nil {
				return fmt.Errorf("generate key pair: %w", err)
			}
			defer kp.Destroy()

			exported, err := scheme.ExportKeys(ctx, kp, a.cfg.Password)
			if err != nil {
				return fmt.Errorf("export key pair: %w", err)
			}

			entry, err := a.store.Save(keystore.Entry{
				Name:                args[0],
				RSABits:             a.cfg.RSABits,
				SPHINCSParameterSet: a.cfg.SPHINCSParameterSet,
				Keys:                exported,
			})
			if err != nil {
				return err
			}
			a.logger.Info("key pair generated", "id", entry.ID, "name", entry.Name,
				"encrypted", a.cfg.Password != "")
			return a.printer.PrintEntry(entry)
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored keys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.store.List()
			if err != nil {
				return err
			}
			return a.printer.PrintEntries(entries)
		},
	}
}

func (a *app) exportPublicCmd() *cobra.Command {
	var withPrivate bool
	cmd := &cobra.Command{
		Use:   "export <id|name>",
		Short: "Print a stored key as an export document",
		Long: `Print a stored key as an export document that import accepts.

Only the public section is printed unless --private is given. Private
groupings are printed exactly as stored (encrypted when a password was
used at keygen).`,
		Aliases: []string{"export-public"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.store.Load(args[0])
			if err != nil {
				return err
			}
			keys := entry.Keys
			if !withPrivate {
				keys = keys.PublicOnly()
			}
			return a.printer.PrintExportedKeys(keys)
		},
	}
	cmd.Flags().BoolVar(&withPrivate, "private", false, "include the private section")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <name> [file]",
		Short: "Import an export document",
		Long: `Import an export document (JSON) from [file] or stdin under <name>.

The document is checked against --rsa-bits and --sphincs-parameter-set.
When it carries a private section, --password must open it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readInput(optionalArg(args, 1))
			if err != nil {
				return err
			}
			keys, err := supersphincs.ParseExportedKeys(data)
			if err != nil {
				return err
			}

			scheme, err := a.scheme(a.cfg.SchemeOptions()...)
			if err != nil {
				return err
			}
			kp, err := scheme.ImportKeys(cmd.Context(), keys, a.cfg.Password)
			if err != nil {
				return fmt.Errorf("import keys: %w", err)
			}
			kp.Destroy()

			entry, err := a.store.Save(keystore.Entry{
				Name:                args[0],
				RSABits:             a.cfg.RSABits,
				SPHINCSParameterSet: a.cfg.SPHINCSParameterSet,
				Keys:                keys,
			})
			if err != nil {
				return err
			}
			a.logger.Info("keys imported", "id", entry.ID, "name", entry.Name, "private", entry.HasPrivateKey())
			return a.printer.PrintEntry(entry)
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.store.Load(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Delete(entry.ID); err != nil {
				return err
			}
			a.logger.Info("key deleted", "id", entry.ID, "name", entry.Name)
			return nil
		},
	}
}

func (a *app) parametersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parameters",
		Short: "List accepted RSA sizes and SLH-DSA parameter sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printer.PrintParameters(supersphincs.RSABitSizes(), supersphincs.SPHINCSParameterSets())
		},
	}
}

// openEntry loads a stored key and recovers its key pair with the
// configured password. With publicOnly the private section is not touched
// and no password is needed.
func (a *app) openEntry(cmd *cobra.Command, ref string, publicOnly bool) (*supersphincs.Scheme, *supersphincs.KeyPair, error) {
	entry, err := a.store.Load(ref)
	if err != nil {
		return nil, nil, err
	}
	scheme, err := a.scheme(entry.Options()...)
	if err != nil {
		return nil, nil, err
	}
	keys := entry.Keys
	if publicOnly {
		keys = keys.PublicOnly()
	}
	kp, err := scheme.ImportKeys(cmd.Context(), keys, a.cfg.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("open key %s: %w", entry.Name, err)
	}
	return scheme, kp, nil
}
