package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/supersphincs/supersphincs-go"
	"github.com/supersphincs/supersphincs-go/internal/keystore"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) (*Printer, error) {
	switch f := OutputFormat(format); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return &Printer{format: f, writer: writer}, nil
	}
	return nil, fmt.Errorf("unknown output format: %s (must be text, json, or yaml)", format)
}

type entryView struct {
	ID                  string    `json:"id" yaml:"id"`
	Name                string    `json:"name" yaml:"name"`
	CreatedAt           time.Time `json:"createdAt" yaml:"createdAt"`
	RSABits             int       `json:"rsaBits" yaml:"rsaBits"`
	SPHINCSParameterSet string    `json:"sphincsParameterSet" yaml:"sphincsParameterSet"`
	Private             bool      `json:"private" yaml:"private"`
	PublicKey           string    `json:"publicKey" yaml:"publicKey"`
}

func newEntryView(e *keystore.Entry) entryView {
	return entryView{
		ID:                  e.ID,
		Name:                e.Name,
		CreatedAt:           e.CreatedAt,
		RSABits:             e.RSABits,
		SPHINCSParameterSet: e.SPHINCSParameterSet,
		Private:             e.HasPrivateKey(),
		PublicKey:           e.Keys.Public.SuperSphincs,
	}
}

// PrintEntry prints one stored key.
func (p *Printer) PrintEntry(e *keystore.Entry) error {
	if p.format != OutputFormatText {
		return p.print(newEntryView(e))
	}
	v := newEntryView(e)
	fmt.Fprintf(p.writer, "ID:         %s\n", v.ID)
	fmt.Fprintf(p.writer, "Name:       %s\n", v.Name)
	fmt.Fprintf(p.writer, "Created:    %s\n", v.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(p.writer, "Algorithms: RSA-%d + %s\n", v.RSABits, v.SPHINCSParameterSet)
	fmt.Fprintf(p.writer, "Private:    %t\n", v.Private)
	fmt.Fprintf(p.writer, "Public key: %s\n", v.PublicKey)
	return nil
}

// PrintEntries prints a list of stored keys.
func (p *Printer) PrintEntries(entries []*keystore.Entry) error {
	views := make([]entryView, len(entries))
	for i, e := range entries {
		views[i] = newEntryView(e)
	}
	if p.format != OutputFormatText {
		return p.print(map[string]any{"keys": views})
	}
	if len(views) == 0 {
		fmt.Fprintln(p.writer, "No keys found")
		return nil
	}
	fmt.Fprintln(p.writer, "Keys:")
	for _, v := range views {
		kind := "public"
		if v.Private {
			kind = "private"
		}
		fmt.Fprintf(p.writer, "  - %s %s (RSA-%d + %s, %s)\n", v.ID, v.Name, v.RSABits, v.SPHINCSParameterSet, kind)
	}
	return nil
}

// PrintExportedKeys prints an export document. Text output is JSON so it
// can be fed back to import.
func (p *Printer) PrintExportedKeys(keys *supersphincs.ExportedKeys) error {
	if p.format == OutputFormatText {
		return p.printJSON(keys)
	}
	return p.print(keys)
}

// PrintDigest prints a message digest.
func (p *Printer) PrintDigest(d *supersphincs.Digest) error {
	if p.format != OutputFormatText {
		return p.print(map[string]string{
			"hex":    d.Hex,
			"base64": base64.StdEncoding.EncodeToString(d.Binary),
		})
	}
	fmt.Fprintln(p.writer, d.Hex)
	return nil
}

// PrintSignature prints a base64 signature or signed message.
func (p *Printer) PrintSignature(encoded string, detached bool) error {
	if p.format != OutputFormatText {
		key := "signed"
		if detached {
			key = "signature"
		}
		return p.print(map[string]string{key: encoded})
	}
	fmt.Fprintln(p.writer, encoded)
	return nil
}

// PrintVerification prints the verification outcome.
func (p *Printer) PrintVerification(valid bool) error {
	if p.format != OutputFormatText {
		return p.print(map[string]bool{"valid": valid})
	}
	if valid {
		fmt.Fprintln(p.writer, "Signature: valid")
	} else {
		fmt.Fprintln(p.writer, "Signature: INVALID")
	}
	return nil
}

// PrintMessage prints an opened message. Text output is the raw bytes.
func (p *Printer) PrintMessage(msg []byte) error {
	if p.format != OutputFormatText {
		return p.print(map[string]string{"message": base64.StdEncoding.EncodeToString(msg)})
	}
	_, err := p.writer.Write(msg)
	return err
}

// PrintParameters prints the accepted algorithm parameters.
func (p *Printer) PrintParameters(rsaBits []int, sets []string) error {
	if p.format != OutputFormatText {
		return p.print(map[string]any{
			"rsaBits":                    rsaBits,
			"sphincsParameterSets":       sets,
			"defaultRSABits":             supersphincs.DefaultRSABits,
			"defaultSPHINCSParameterSet": supersphincs.DefaultSPHINCSParameterSet,
		})
	}
	fmt.Fprintln(p.writer, "RSA modulus sizes:")
	for _, b := range rsaBits {
		mark := ""
		if b == supersphincs.DefaultRSABits {
			mark = " (default)"
		}
		fmt.Fprintf(p.writer, "  - %d%s\n", b, mark)
	}
	fmt.Fprintln(p.writer, "SLH-DSA parameter sets:")
	for _, s := range sets {
		mark := ""
		if s == supersphincs.DefaultSPHINCSParameterSet {
			mark = " (default)"
		}
		fmt.Fprintf(p.writer, "  - %s%s\n", s, mark)
	}
	return nil
}

func (p *Printer) print(v any) error {
	if p.format == OutputFormatYAML {
		return p.printYAML(v)
	}
	return p.printJSON(v)
}

func (p *Printer) printJSON(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) printYAML(v any) error {
	enc := yaml.NewEncoder(p.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
