package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go62320/internal/app"
)

func main() {
	flags := app.DefaultConfig()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "go62320",
		Short: "AIS base station sentence generator (IEC 62320-1)",
		Long: `AIS base station sentence generator (IEC 62320-1).

Reads hex-encoded AIS message bitstreams (ITU-R M.1371), one per line, and
encodes each into a TSA slot-assignment sentence followed by the VDM
sentence(s) carrying the 6-bit armored payload. Multi-sentence messages are
correlated by a rolling 0-9 sequential ID. Sentences are written to stdout,
a daily rotating log, and optionally a transceiver serial port.

Example usage:
  go62320 --channel A --station BASE0001 --input messages.txt
  go62320 --channel B --serial /dev/ttyUSB0 --baud 38400 < messages.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ShowVersion {
				app.ShowVersion()
				return nil
			}

			config := flags
			if configPath != "" {
				loaded, err := app.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				config = mergeFlags(loaded, flags, cmd)
			}

			application := app.NewApplication(config)
			return application.Start()
		},
	}

	rootCmd.Flags().StringVarP(&flags.Channel, "channel", "c", app.DefaultChannel, "AIS channel selection (A or B)")
	rootCmd.Flags().StringVarP(&flags.TalkerID, "talker", "t", app.DefaultTalkerID, "Talker ID for generated sentences")
	rootCmd.Flags().StringVar(&flags.UniqueID, "station", "", "Base station unique ID (max 15 characters)")
	rootCmd.Flags().StringVar(&flags.UTCHHMM, "utc-hhmm", "", "UTC hour/minute of the requested transmission")
	rootCmd.Flags().StringVar(&flags.StartSlot, "start-slot", "", "Start slot of the requested transmission")
	rootCmd.Flags().IntVarP(&flags.Priority, "priority", "p", app.DefaultPriority, "Transmission priority (0-2, lower is higher)")
	rootCmd.Flags().StringVarP(&flags.InputPath, "input", "i", "", "Input file of hex bitstreams (default stdin)")
	rootCmd.Flags().StringVarP(&flags.LogDir, "log-dir", "l", app.DefaultLogDir, "Sentence log directory")
	rootCmd.Flags().BoolVarP(&flags.LogRotateUTC, "utc", "u", true, "Use UTC for log rotation")
	rootCmd.Flags().IntVar(&flags.LogMaxDays, "log-max-days", 0, "Remove sentence logs older than this many days (0 = keep)")
	rootCmd.Flags().StringVarP(&flags.SerialDevice, "serial", "s", "", "Transceiver serial device (optional)")
	rootCmd.Flags().IntVarP(&flags.SerialBaud, "baud", "b", app.DefaultSerialBaud, "Transceiver baud rate")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&flags.ShowVersion, "version", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// mergeFlags overlays explicitly-set command line flags on a file-loaded
// configuration.
func mergeFlags(config, flags app.Config, cmd *cobra.Command) app.Config {
	if cmd.Flags().Changed("channel") {
		config.Channel = flags.Channel
	}
	if cmd.Flags().Changed("talker") {
		config.TalkerID = flags.TalkerID
	}
	if cmd.Flags().Changed("station") {
		config.UniqueID = flags.UniqueID
	}
	if cmd.Flags().Changed("utc-hhmm") {
		config.UTCHHMM = flags.UTCHHMM
	}
	if cmd.Flags().Changed("start-slot") {
		config.StartSlot = flags.StartSlot
	}
	if cmd.Flags().Changed("priority") {
		config.Priority = flags.Priority
	}
	if cmd.Flags().Changed("input") {
		config.InputPath = flags.InputPath
	}
	if cmd.Flags().Changed("log-dir") {
		config.LogDir = flags.LogDir
	}
	if cmd.Flags().Changed("utc") {
		config.LogRotateUTC = flags.LogRotateUTC
	}
	if cmd.Flags().Changed("log-max-days") {
		config.LogMaxDays = flags.LogMaxDays
	}
	if cmd.Flags().Changed("serial") {
		config.SerialDevice = flags.SerialDevice
	}
	if cmd.Flags().Changed("baud") {
		config.SerialBaud = flags.SerialBaud
	}
	config.Verbose = flags.Verbose
	return config
}
