package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/motorsim/core/metrics"
	"github.com/kilianp07/motorsim/infra/logger"
)

// InfluxSink writes simulation steps to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// when the health check fails, so a missing database never stops a run.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.StepSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSteps writes each step as one point of the motor_step measurement.
func (s *InfluxSink) RecordSteps(results []coremetrics.StepResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range results {
		constraint := ""
		if r.Clamped {
			constraint = r.Constraint.String()
		}
		p := write.NewPointWithMeasurement("motor_step").
			AddTag("clamped", strconv.FormatBool(r.Clamped)).
			AddTag("constraint", constraint).
			AddField("sim_time_s", r.SimTime).
			AddField("voltage_v", r.Voltage).
			AddField("rotor_speed_rad_s", r.RotorSpeed).
			AddField("torque_cmd_nm", r.TorqueCommand).
			AddField("torque_applied_nm", r.TorqueApplied).
			AddField("power_w", r.PowerW).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
