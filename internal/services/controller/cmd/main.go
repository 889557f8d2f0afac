package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmtech-solutions/irrigation-core/internal/engine"
	"github.com/farmtech-solutions/irrigation-core/internal/model"
	"github.com/farmtech-solutions/irrigation-core/internal/sensor"
	"github.com/farmtech-solutions/irrigation-core/internal/services/controller"
	"github.com/farmtech-solutions/irrigation-core/pkg/mqtt"
)

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); err == nil {
			return f
		}
	}
	return def
}

func loadThresholds() model.Thresholds {
	def := model.DefaultThresholds()
	return model.Thresholds{
		MoistureCriticalLow: envFloat("MOISTURE_CRITICAL_LOW", def.MoistureCriticalLow),
		MoistureMinTrigger:  envFloat("MOISTURE_MIN_TRIGGER", def.MoistureMinTrigger),
		MoistureHighStop:    envFloat("MOISTURE_HIGH_STOP", def.MoistureHighStop),
		AcidityIdealMin:     envFloat("ACIDITY_IDEAL_MIN", def.AcidityIdealMin),
		AcidityIdealMax:     envFloat("ACIDITY_IDEAL_MAX", def.AcidityIdealMax),
		AcidityCriticalMin:  envFloat("ACIDITY_CRITICAL_MIN", def.AcidityCriticalMin),
		AcidityCriticalMax:  envFloat("ACIDITY_CRITICAL_MAX", def.AcidityCriticalMax),
	}
}

func topicFor(tmpl, fieldID, sensorID string) string {
	return strings.NewReplacer("{field}", fieldID, "{sensor}", sensorID).Replace(tmpl)
}

func main() {
	cfg := struct {
		FieldID  string
		SensorID string

		SteadyInterval time.Duration
		FaultInterval  time.Duration
		Thresholds     model.Thresholds

		MQTTHost             string
		MQTT                 mqtt.Config
		StatusTopicTmpl      string
		StateChangeTopicTmpl string

		SimSeed        int64
		SimFaultChance float64
		SimMoisture    float64

		HTTPPort int
	}{
		FieldID:  envStr("FIELD_ID", "field1"),
		SensorID: envStr("SENSOR_ID", "sensor1"),

		SteadyInterval: time.Duration(envInt("STEADY_INTERVAL_MS", 3000)) * time.Millisecond,
		FaultInterval:  time.Duration(envInt("FAULT_INTERVAL_MS", 2000)) * time.Millisecond,
		Thresholds:     loadThresholds(),

		MQTTHost: envStr("MQTT_HOST", ""),
		MQTT: mqtt.Config{
			Host:     envStr("MQTT_HOST", ""),
			Port:     envInt("MQTT_PORT", 1883),
			User:     envStr("MQTT_USER", "guest"),
			Password: envStr("MQTT_PASSWORD", "guest"),
			ClientID: envStr("HOSTNAME", "irrigation-controller"),
		},
		StatusTopicTmpl:      envStr("STATUS_TOPIC_TMPL", "status/{field}/{sensor}"),
		StateChangeTopicTmpl: envStr("STATECHANGE_TOPIC_TMPL", "event/StateChange/{field}/{sensor}"),

		SimSeed:        int64(envInt("SIM_SEED", 0)),
		SimFaultChance: envFloat("SIM_FAULT_CHANCE", 0.02),
		SimMoisture:    envFloat("SIM_INITIAL_MOISTURE", 30.0),

		HTTPPort: envInt("HTTP_PORT", 8080),
	}

	log.Printf("irrigation-core: field controller starting (%s/%s)", cfg.FieldID, cfg.SensorID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === Field transducers (simulator; swap for GPIO-backed lines on hardware) ===
	sim := sensor.NewSimulator(sensor.SimulatorConfig{
		FieldID:         cfg.FieldID,
		SensorID:        cfg.SensorID,
		InitialMoisture: cfg.SimMoisture,
		FaultChance:     cfg.SimFaultChance,
		Seed:            cfg.SimSeed,
	})
	adapter := sensor.NewAdapter(sim, sim, sim.PhosphorusLine(), sim.PotassiumLine())

	// === Decision engine ===
	eng, err := engine.New(cfg.Thresholds)
	if err != nil {
		log.Fatalf("engine config: %v", err)
	}

	// === Actuator ===
	relay := controller.NewRelay()

	// === Reporting ===
	reporters := controller.MultiReporter{controller.NewLineReporter(os.Stdout)}

	if cfg.MQTTHost != "" {
		client, err := mqtt.Connect(ctx, &cfg.MQTT)
		if err != nil {
			log.Fatalf("mqtt connection error: %v", err)
		}
		defer mqtt.Close(client)

		statusPub := mqtt.NewPublisher(client, topicFor(cfg.StatusTopicTmpl, cfg.FieldID, cfg.SensorID))
		reporters = append(reporters, controller.NewStatusPublisher(statusPub))

		scTopic := topicFor(cfg.StateChangeTopicTmpl, cfg.FieldID, cfg.SensorID)
		controller.PublishStateChanges(relay, mqtt.NewPublisher(client, scTopic), cfg.FieldID, cfg.SensorID)

		// The simulated field learns about valve commands the way real
		// equipment does: from the broker.
		consumer := mqtt.NewConsumer(client, scTopic, sim.HandleStateChange)
		go consumer.ConsumeMessage(ctx)
	} else {
		// No broker: close the soil feedback loop in process.
		relay.OnChange(func(st model.PumpState) {
			sim.SetPumpState(st == model.PumpOn)
		})
	}

	// === Metrics / health ===
	reg := prometheus.NewRegistry()
	metrics := controller.NewMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("irrigation-core: HTTP listening on :%d", cfg.HTTPPort)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	// === Control loop ===
	ctrl, err := controller.New(controller.Config{
		FieldID:        cfg.FieldID,
		SensorID:       cfg.SensorID,
		SteadyInterval: cfg.SteadyInterval,
		FaultInterval:  cfg.FaultInterval,
	}, adapter, eng, relay, reporters, metrics)
	if err != nil {
		log.Fatalf("controller init: %v", err)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		log.Printf("irrigation-core: shutting down...")
		cancel()

		shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shCancel()
		_ = hs.Shutdown(shCtx)
	}()

	ctrl.Run(ctx)
}
