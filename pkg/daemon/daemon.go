// Package daemon is the long-running monitor process: it samples the sensor,
// maintains calibration, drives the outputs and serves the control API on a
// unix socket.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/calibration"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/config"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/display"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/hardware"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/recorder"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/telemetry"
)

func (d *Daemon) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", d.getStatus)
	router.GET("/index", d.getIndex)
	router.GET("/state", d.getState)
	router.GET("/calibration", d.getCalibration)
	router.POST("/calibration/capture", d.postCapture)
	router.POST("/calibration/reset", d.postReset)
	router.GET("/config", d.getConfig)
	router.PUT("/alpha", d.setAlpha)
	router.GET("/version", d.getVersion)

	return router
}

// Run starts the daemon and blocks until SIGINT or SIGTERM.
func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.Infof("config reloaded")
		}
	}()

	var source hardware.AnalogSource
	if port := conf.SerialPort(); port != "" {
		source, err = hardware.OpenSerial(port, 0)
		if err != nil {
			logrus.Fatalf("failed to open sensor frontend: %v", err)
		}
	} else {
		logrus.Warn("no serial port configured, using a simulated sensor")
		source = hardware.NewSimSource(512, 40, time.Now().UnixNano())
	}
	defer func() {
		if err := source.Close(); err != nil {
			logrus.Errorf("failed to close sensor source: %v", err)
		}
	}()

	store := calibration.NewStore(conf.CalibrationPath())
	if err := store.Load(); err != nil {
		logrus.Fatalf("failed to load calibration: %v", err)
	}
	flow := calibration.NewFlow(store)

	var indicator hardware.Indicator = hardware.NullIndicator{}
	if pin := conf.LedPin(); pin != 0 {
		led, err := hardware.OpenLED(pin)
		if err != nil {
			logrus.WithError(err).Warnf("led on gpio %d unavailable, indicator disabled", pin)
		} else {
			indicator = led
			defer func() {
				if err := led.Close(); err != nil {
					logrus.Errorf("failed to release led pin: %v", err)
				}
			}()
		}
	}

	var csv *recorder.CSVLog
	if path := conf.CSVLogPath(); path != "" {
		csv, err = recorder.Open(path)
	} else {
		csv, err = recorder.New(os.Stdout)
	}
	if err != nil {
		logrus.Fatalf("failed to open csv log: %v", err)
	}
	defer func() {
		if err := csv.Close(); err != nil {
			logrus.Errorf("failed to close csv log: %v", err)
		}
	}()

	var pub *telemetry.Publisher
	if broker := conf.MQTTBroker(); broker != "" {
		pub, err = telemetry.Connect(broker, fmt.Sprintf("wqm-%d", os.Getpid()), conf.MQTTTopic())
		if err != nil {
			logrus.WithError(err).Warn("mqtt unavailable, telemetry disabled")
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	d := NewDaemon(conf, source, store, flow, indicator, &display.LogDisplay{}, csv, pub)

	stop := make(chan struct{})
	defer close(stop)

	if pin := conf.ButtonPin(); pin != 0 {
		button, err := hardware.OpenButton(pin, d.Detector())
		if err != nil {
			logrus.WithError(err).Warnf("button on gpio %d unavailable, use the CLI to calibrate", pin)
		} else {
			defer func() {
				if err := button.Close(); err != nil {
					logrus.Errorf("failed to release button pin: %v", err)
				}
			}()
			go d.watchButton(stop)
		}
	}

	go d.blinkLoop(stop)

	srv := &http.Server{
		Handler: d.setupRoutes(),
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	go func() {
		logrus.Debugln("sampling loop starts")

		d.infiniteLoop()

		logrus.Errorf("sampling loop exited unexpectedly")
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	if err := indicator.Off(); err != nil {
		logrus.Errorf("failed to turn off indicator before exiting: %v", err)
	}

	logrus.Info("exiting")
	return nil
}
