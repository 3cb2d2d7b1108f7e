package main

import (
	"bytes"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [file]",
		Short: "Print the SHA-512 digest of a message",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.readInput(optionalArg(args, 0))
			if err != nil {
				return err
			}
			scheme, err := a.scheme(a.cfg.SchemeOptions()...)
			if err != nil {
				return err
			}
			d, err := scheme.Hash(msg)
			if err != nil {
				return err
			}
			return a.printer.PrintDigest(d)
		},
	}
}

func (a *app) signCmd() *cobra.Command {
	var detached bool
	cmd := &cobra.Command{
		Use:   "sign <id|name> [file]",
		Short: "Sign a message",
		Long: `Sign [file] or stdin with a stored key and print the result as base64.

By default the output is the signed message (signature || message). With
--detached only the signature is printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.readInput(optionalArg(args, 1))
			if err != nil {
				return err
			}
			scheme, kp, err := a.openEntry(cmd, args[0], false)
			if err != nil {
				return err
			}
			defer kp.Destroy()
			if !kp.HasPrivateKey() {
				return errors.New("key has no private part")
			}

			var out string
			if detached {
				out, err = scheme.SignDetachedBase64(cmd.Context(), msg, kp.PrivateKey)
			} else {
				out, err = scheme.SignBase64(cmd.Context(), msg, kp.PrivateKey)
			}
			if err != nil {
				return err
			}
			return a.printer.PrintSignature(out, detached)
		},
	}
	cmd.Flags().BoolVarP(&detached, "detached", "d", false, "print only the signature")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var signature string
	cmd := &cobra.Command{
		Use:   "verify <id|name> [file]",
		Short: "Verify a detached signature",
		Long: `Verify a base64 detached signature over [file] or stdin.

The signature is given with --signature, either inline or as @path to read
it from a file. Exits non-zero when the signature is invalid.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := a.readValue(signature)
			if err != nil {
				return err
			}
			msg, err := a.readInput(optionalArg(args, 1))
			if err != nil {
				return err
			}
			scheme, kp, err := a.openEntry(cmd, args[0], true)
			if err != nil {
				return err
			}
			defer kp.Destroy()

			valid, err := scheme.VerifyDetachedBase64(cmd.Context(), sig, msg, kp.PublicKey)
			if err != nil {
				return err
			}
			a.logger.Debug("signature checked", "valid", valid)
			if err := a.printer.PrintVerification(valid); err != nil {
				return err
			}
			if !valid {
				return errInvalidSignature
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&signature, "signature", "s", "", "base64 signature, or @file")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

func (a *app) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <id|name> [file]",
		Short: "Verify a signed message and print its content",
		Long: `Verify a base64 signed message from [file] or stdin and print the
message. Nothing is printed when verification fails.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			signed, err := a.readInput(optionalArg(args, 1))
			if err != nil {
				return err
			}
			scheme, kp, err := a.openEntry(cmd, args[0], true)
			if err != nil {
				return err
			}
			defer kp.Destroy()

			msg, err := scheme.OpenBase64(cmd.Context(), string(bytes.TrimSpace(signed)), kp.PublicKey)
			if err != nil {
				return err
			}
			return a.printer.PrintMessage(msg)
		},
	}
}

// readValue returns v, or the trimmed content of the file it names when it
// starts with '@'.
func (a *app) readValue(v string) (string, error) {
	if name, ok := strings.CutPrefix(v, "@"); ok {
		data, err := a.readInput(name)
		if err != nil {
			return "", err
		}
		return string(bytes.TrimSpace(data)), nil
	}
	return strings.TrimSpace(v), nil
}
