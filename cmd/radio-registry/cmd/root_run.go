package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/atcvoice/radio-registry/internal/backend"
	"github.com/atcvoice/radio-registry/internal/backend/amqp"
	"github.com/atcvoice/radio-registry/internal/backend/mqtt"
	"github.com/atcvoice/radio-registry/internal/config"
	"github.com/atcvoice/radio-registry/internal/events"
	"github.com/atcvoice/radio-registry/internal/monitoring"
	"github.com/atcvoice/radio-registry/internal/notification"
	"github.com/atcvoice/radio-registry/internal/radio"
	"github.com/atcvoice/radio-registry/internal/session"
	"github.com/atcvoice/radio-registry/internal/storage"
)

// maxNotifications is the number of operator notifications kept in memory.
const maxNotifications = 50

var (
	sessionStore   *session.Store
	notifier       *notification.Recorder
	registry       *radio.Registry
	statePublisher *storage.StatePublisher
	eventBackend   backend.Backend
)

func run(cmd *cobra.Command, args []string) error {
	tasks := []func() error{
		setLogLevel,
		setLogFile,
		setSyslog,
		printStartMessage,
		setupStorage,
		setupSession,
		setupRegistry,
		setupMonitoring,
		setupStatePublisher,
		setupBackend,
	}

	for _, t := range tasks {
		if err := t(); err != nil {
			log.Fatal(err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	exitChan := make(chan struct{})
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	log.WithField("signal", <-sigChan).Info("signal received")
	go func() {
		log.Warning("stopping radio-registry")
		if eventBackend != nil {
			if err := eventBackend.Close(); err != nil {
				log.Fatal(err)
			}
		}
		if statePublisher != nil {
			if err := statePublisher.Close(); err != nil {
				log.Fatal(err)
			}
		}
		exitChan <- struct{}{}
	}()
	select {
	case <-exitChan:
	case s := <-sigChan:
		log.WithField("signal", s).Info("signal received, stopping immediately")
	}

	return nil
}

func setLogLevel() error {
	log.SetLevel(log.Level(uint8(config.C.General.LogLevel)))
	if config.C.General.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return nil
}

func setLogFile() error {
	conf := config.C.General.LogFile
	if conf.Path == "" {
		return nil
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:   conf.Path,
		MaxSize:    conf.MaxSize,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAge,
		Compress:   conf.Compress,
	})
	return nil
}

func printStartMessage() error {
	log.WithFields(log.Fields{
		"version":  version,
		"callsign": config.C.Session.Callsign,
		"backend":  config.C.Backend.Type,
	}).Info("starting radio-registry")
	return nil
}

func setupMonitoring() error {
	if err := monitoring.Setup(config.C, notifier); err != nil {
		return errors.Wrap(err, "setup monitoring error")
	}
	return nil
}

func setupStorage() error {
	if err := storage.Setup(config.C); err != nil {
		return errors.Wrap(err, "setup storage error")
	}
	return nil
}

func setupSession() error {
	sessionStore = session.NewStore(config.C.Session.Callsign)
	return nil
}

func setupRegistry() error {
	notifier = notification.NewRecorder(maxNotifications, notification.LogNotifier{})
	registry = radio.NewRegistry(sessionStore, notifier)
	return nil
}

func setupStatePublisher() error {
	if !storage.Enabled() {
		return nil
	}
	statePublisher = storage.NewStatePublisher(registry)
	return nil
}

func setupBackend() error {
	var err error
	h := events.NewHandler(registry, sessionStore)
	if storage.Enabled() {
		h.SetActivityRecorder(storage.ActivityRecorder{})
	}

	switch config.C.Backend.Type {
	case "mqtt":
		eventBackend, err = mqtt.NewBackend(config.C, h)
	case "amqp":
		eventBackend, err = amqp.NewBackend(config.C, h)
	case "", "none":
		log.Warning("no event backend configured, the registry will stay empty")
		return nil
	default:
		return fmt.Errorf("unexpected event backend type: %s", config.C.Backend.Type)
	}

	if err != nil {
		return errors.Wrap(err, "event-backend setup failed")
	}

	return nil
}
