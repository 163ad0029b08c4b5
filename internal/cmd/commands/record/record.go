package record

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/afero"

	"github.com/idpack-cloud/idc-go/internal/cmd/base"
	"github.com/idpack-cloud/idc-go/internal/config"
	"github.com/idpack-cloud/idc-go/pkg/idc"
)

// ConfigEnvVar names the config file when -config is not given.
const ConfigEnvVar = "IDC_CONFIG"

// Command runs one record Operation against the producer API.
type Command struct {
	*base.Command

	Operation Operation

	// FS is where the config file is read from. Default: the OS file system.
	FS afero.Fs

	flagConfig             string
	flagOutput             string
	flagOutputFormat       string
	flagPK                 pairsFlag
	flagData               pairsFlag
	flagImageFormat        string
	flagSide               string
	flagPhotoID            string
	flagPhotoIDFormat      string
	flagBadgePreview       string
	flagBadgePreviewFormat string
}

func (c *Command) Synopsis() string {
	return c.Operation.Synopsis
}

func (c *Command) Help() string {
	return fmt.Sprintf(`Usage: idc %s [options]

  %s

  The response envelope is printed on stdout. The exit code is 1 when the
  envelope reports an error.`, c.Operation.Name, c.Operation.Description) +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet(c.Operation.Name, flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		fmt.Sprintf("[%s] Path to the HCL config file", ConfigEnvVar),
	)
	f.StringVar(
		&c.flagOutput, "output", outputRaw,
		"Envelope rendering: raw, json (indented) or yaml",
	)
	f.StringVar(
		&c.flagOutputFormat, "output-format", "",
		"API output format (json, xml or base64), overriding the config file",
	)

	op := c.Operation
	if op.usesPK {
		f.Var(&c.flagPK, "pk", "Primary key as field=value, e.g. idc_id_number=123")
	}
	if op.usesData {
		f.Var(&c.flagData, "data", "Record field as key=value. May be repeated.")
	}
	if op.usesImage {
		f.StringVar(&c.flagImageFormat, "image-format", "", "Image format of the rendered file")
	}
	if op.usesSide {
		f.StringVar(&c.flagSide, "side", "duplex", "Badge side: duplex, front or back")
	}
	if op.usesOptions {
		f.StringVar(&c.flagPhotoID, "photo-id", "", "Include the photo ID (1, true, yes, on)")
		f.StringVar(&c.flagPhotoIDFormat, "photo-id-format", "", "Photo ID format: jpeg, png or webp")
		f.StringVar(&c.flagBadgePreview, "badge-preview", "", "Include a badge preview (1, true, yes, on)")
		f.StringVar(&c.flagBadgePreviewFormat, "badge-preview-format", "", "Badge preview format: jpeg, png, webp or pdf")
		f.StringVar(&c.flagSide, "side", "duplex", "Badge preview side: duplex, front or back")
	}

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() > 0 {
		ui.Error(fmt.Sprintf("unexpected arguments: %v", f.Args()))
		return 1
	}
	if !slices.Contains([]string{outputRaw, outputJSON, outputYAML}, c.flagOutput) {
		ui.Error(fmt.Sprintf("invalid output %q: must be raw, json or yaml", c.flagOutput))
		return 1
	}

	configPath := c.flagConfig
	if val, ok := os.LookupEnv(ConfigEnvVar); ok && configPath == "" {
		configPath = val
	}
	if configPath == "" {
		ui.Error(fmt.Sprintf("config file is required (-config or %s)", ConfigEnvVar))
		return 1
	}

	fs := c.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	cfg, err := config.Load(fs, configPath)
	if err != nil {
		ui.Error(fmt.Sprintf("error parsing config file: %v", err))
		return 1
	}
	c.Log.SetLevel(cfg.Level())

	clientCfg, err := cfg.ClientConfig(c.Log)
	if err != nil {
		ui.Error(fmt.Sprintf("error in client configuration: %v", err))
		return 1
	}
	client, err := idc.New(cfg.Credentials(), clientCfg)
	if err != nil {
		ui.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}
	if c.flagOutputFormat != "" && !client.SetOutputFormat(c.flagOutputFormat) {
		ui.Error(fmt.Sprintf("invalid output-format %q: must be json, xml or base64", c.flagOutputFormat))
		return 1
	}

	in, err := c.input()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resp := c.Operation.run(ctx, client, in)

	out, err := render(resp.Body, c.flagOutput)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	if !resp.OK() {
		ui.Error(out)
		return 1
	}

	if resp.Action == idc.ActionInsertRecord {
		c.Log.Info("record inserted", "idc_id_number", client.LastInsertID())
	}
	ui.Output(out)
	return 0
}

// input resolves the parsed flags.
func (c *Command) input() (*input, error) {
	side, err := parseSide(c.flagSide)
	if err != nil {
		return nil, err
	}

	return &input{
		pk:          c.flagPK.primaryKey(),
		data:        c.flagData.fields(),
		imageFormat: c.flagImageFormat,
		side:        side,
		options: idc.GetRecordOptions{
			PhotoID:            c.flagPhotoID,
			PhotoIDFormat:      c.flagPhotoIDFormat,
			BadgePreview:       c.flagBadgePreview,
			BadgePreviewFormat: c.flagBadgePreviewFormat,
			BadgePreviewSide:   side,
		},
	}, nil
}
