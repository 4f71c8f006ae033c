package app

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"go62320/internal/generator"
	"go62320/internal/logging"
	"go62320/internal/serial"
)

// Application reads outbound AIS message bitstreams, encodes them into
// TSA-VDM sentence groups and delivers the sentences to the configured
// outputs (sentence log, stdout, serial port).
type Application struct {
	config     Config
	logger     *logrus.Logger
	generator  *generator.Generator
	logRotator *logging.LogRotator
	port       serial.Port
	stdout     io.Writer
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// Statistics
	messagesEncoded uint64
	sentencesSent   uint64
	multiFragment   uint64
	encodeErrors    uint64
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config: config,
		logger: logger,
		stdout: os.Stdout,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts the application
func (app *Application) Start() error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting AIS base station sentence generator")

	if err := app.initializeComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start log rotation
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.logRotator.Start(app.ctx)
	}()

	// Start statistics reporting
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportStatistics()
	}()

	// Encode the input stream
	done := make(chan error, 1)
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		done <- app.processInput()
	}()

	var err error
	select {
	case err = <-done:
		if err != nil {
			app.logger.WithError(err).Error("Input processing failed")
		}
	case <-sigChan:
		app.logger.Info("Received shutdown signal")
	}

	app.shutdown()
	return err
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	if err := app.config.Validate(); err != nil {
		return err
	}

	var err error

	// Initialize the sentence log rotator
	app.logRotator, err = logging.NewLogRotator(app.config.LogDir, app.config.LogRotateUTC, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize log rotator: %w", err)
	}

	if app.config.LogMaxDays > 0 {
		if err := app.logRotator.CleanupOldLogs(app.config.LogMaxDays); err != nil {
			app.logger.WithError(err).Warn("Failed to clean up old sentence logs")
		}
	}

	// Open the transceiver serial port when configured
	if app.config.SerialDevice != "" {
		app.port, err = serial.Open(app.config.SerialDevice, app.config.SerialBaud)
		if err != nil {
			return fmt.Errorf("failed to open transceiver port: %w", err)
		}
		app.logger.WithFields(logrus.Fields{
			"device": app.config.SerialDevice,
			"baud":   app.config.SerialBaud,
		}).Info("Opened transceiver serial port")
	}

	// Initialize the sentence generator
	app.generator = generator.New(app.config.TalkerID)

	return nil
}

// processInput reads hex-encoded AIS message bitstreams, one per line,
// from the configured input file or stdin and emits the generated
// sentences. Blank lines and '#' comments are skipped.
func (app *Application) processInput() error {
	var reader io.Reader = os.Stdin
	source := "stdin"

	if app.config.InputPath != "" && app.config.InputPath != "-" {
		f, err := os.Open(app.config.InputPath)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		reader = f
		source = app.config.InputPath
	}

	app.logger.WithField("input", source).Info("Encoding AIS messages")

	params := generator.TxParams{
		UniqueID:  app.config.UniqueID,
		UTCHHMM:   app.config.UTCHHMM,
		StartSlot: app.config.StartSlot,
		Priority:  app.config.Priority,
	}

	scanner := bufio.NewScanner(reader)
	lineNo := 0
	for scanner.Scan() {
		select {
		case <-app.ctx.Done():
			app.logger.Info("Input processing stopped")
			return nil
		default:
		}

		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := app.encodeMessage(line, params); err != nil {
			atomic.AddUint64(&app.encodeErrors, 1)
			app.logger.WithError(err).WithField("line", lineNo).Error("Failed to encode message")
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	app.logger.WithFields(logrus.Fields{
		"messages":  atomic.LoadUint64(&app.messagesEncoded),
		"sentences": atomic.LoadUint64(&app.sentencesSent),
		"errors":    atomic.LoadUint64(&app.encodeErrors),
	}).Info("Input exhausted")

	return nil
}

// encodeMessage encodes one hex bitstream line and writes the resulting
// sentence groups to every output.
func (app *Application) encodeMessage(hexBits string, params generator.TxParams) error {
	data, nbits, err := parseHexBits(hexBits)
	if err != nil {
		return err
	}

	groups, err := app.generator.GenerateTSAVDM(data, nbits, app.config.Channel, params)
	if err != nil {
		return err
	}

	for _, group := range groups {
		for _, s := range group {
			if err := app.writeSentence(s); err != nil {
				return err
			}
		}
		if len(group) > 1 {
			atomic.AddUint64(&app.multiFragment, 1)
		}
	}

	atomic.AddUint64(&app.messagesEncoded, 1)

	app.logger.WithFields(logrus.Fields{
		"bits":      nbits,
		"sentences": len(groups[0]) + len(groups[1]),
		"seq_next":  app.generator.SequentialID(),
	}).Debug("Encoded AIS message")

	return nil
}

// writeSentence delivers one rendered sentence to the log, stdout and the
// serial port.
func (app *Application) writeSentence(s string) error {
	writer, err := app.logRotator.GetWriter()
	if err != nil {
		return fmt.Errorf("failed to get log writer: %w", err)
	}
	if _, err := writer.Write([]byte(s)); err != nil {
		return fmt.Errorf("failed to write to log: %w", err)
	}

	if app.stdout != nil {
		fmt.Fprint(app.stdout, s)
	}

	if app.port != nil {
		if _, err := app.port.Write([]byte(s)); err != nil {
			return fmt.Errorf("failed to write to transceiver port: %w", err)
		}
	}

	atomic.AddUint64(&app.sentencesSent, 1)
	return nil
}

// parseHexBits decodes a hex-encoded bitstream. An odd number of hex
// digits is allowed: AIS messages are not byte aligned, and the bit length
// is four bits per digit either way.
func parseHexBits(s string) ([]byte, int, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, 0, fmt.Errorf("empty bitstream")
	}

	nbits := len(s) * 4
	if len(s)%2 != 0 {
		s += "0"
	}

	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid hex bitstream: %w", err)
	}

	return data, nbits, nil
}

// reportStatistics reports encoding statistics periodically
func (app *Application) reportStatistics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			app.logger.WithFields(logrus.Fields{
				"messages_encoded": atomic.LoadUint64(&app.messagesEncoded),
				"sentences_sent":   atomic.LoadUint64(&app.sentencesSent),
				"multi_fragment":   atomic.LoadUint64(&app.multiFragment),
				"encode_errors":    atomic.LoadUint64(&app.encodeErrors),
			}).Info("Sentence generation statistics")
		}
	}
}

// shutdown gracefully shuts down the application
func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")
	app.cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines finished")
	case <-time.After(5 * time.Second):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	if app.port != nil {
		app.port.Close()
	}
	if app.logRotator != nil {
		app.logRotator.Close()
	}

	app.logger.Info("Shutdown completed")
}
