package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jssema/internal/version"
)

type versionOptions struct {
	format      string
	color       bool
	showHash    bool
	showMessage bool
	showDate    bool
}

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var (
	versionFormat      string
	versionShowHash    bool
	versionShowMessage bool
	versionShowDate    bool
	versionShowFull    bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowMessage, "message", false, "include git commit message")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show all build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		opts := versionOptions{
			format:      strings.ToLower(versionFormat),
			color:       colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout)),
			showHash:    versionShowHash || versionShowFull,
			showMessage: versionShowMessage || versionShowFull,
			showDate:    versionShowDate || versionShowFull,
		}
		if colorFlag == "on" {
			color.NoColor = false
		}
		switch opts.format {
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), version.Get(), opts)
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), version.Get(), opts)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
	},
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions) {
	v := info.Version
	if opts.color {
		v = version.Colored(v)
	}
	fmt.Fprintf(out, "jssema %s\n", v)
	if opts.showHash {
		fmt.Fprintf(out, "commit:  %s\n", valueOrUnknown(info.GitCommit))
	}
	if opts.showMessage {
		fmt.Fprintf(out, "message: %s\n", valueOrUnknown(info.GitMessage))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:   %s\n", valueOrUnknown(info.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, info version.Info, opts versionOptions) error {
	payload := versionPayload{Tool: "jssema", Version: info.Version}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if opts.showMessage {
		payload.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
