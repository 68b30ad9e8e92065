package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/smazurov/snapcam/internal/devices"
	"github.com/spf13/cobra"
)

// NewDevicesCmd creates the devices command.
func NewDevicesCmd() *cobra.Command {
	var asJSON bool
	var withFormats bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List video capture devices",
		Long:  `Lists V4L2 capture devices. The INDEX column is the value for capture.device.`,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return listDevices(devices.NewDetector(), c.OutOrStdout(), withFormats, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print devices as JSON")
	cmd.Flags().BoolVar(&withFormats, "formats", false, "Include formats, sizes and frame rates")

	return cmd
}

func listDevices(d devices.Detector, out io.Writer, withFormats, asJSON bool) error {
	found, err := d.FindDevices()
	if err != nil {
		return err
	}
	if withFormats {
		for i, dev := range found {
			described, err := d.Describe(dev)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				continue
			}
			found[i] = described
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}

	if len(found) == 0 {
		fmt.Fprintln(out, "no capture devices found")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tPATH\tNAME\tDRIVER\tID")
	for _, dev := range found {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", dev.Index, dev.Path, dev.Name, dev.Driver, dev.ID)
		for _, f := range dev.Formats {
			sizes := make([]string, 0, len(f.Modes))
			for _, m := range f.Modes {
				sizes = append(sizes, fmt.Sprintf("%dx%d", m.Width, m.Height))
			}
			fmt.Fprintf(tw, "\t  %s\t%s\t\t%s\n", f.FourCC, f.Description, strings.Join(sizes, " "))
		}
	}
	return tw.Flush()
}
