package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/evtol/core/events"
	coremetrics "github.com/kilianp07/evtol/core/metrics"
	"github.com/kilianp07/evtol/core/sessionlog"
	"github.com/kilianp07/evtol/infra/logger"
)

// InfluxSink writes sessions and scheduler events to an InfluxDB instance.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.SessionSink {
	sink := NewInfluxSink(url, token, org, bucket)
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

// RecordSession writes one flight_session or charge_session point.
func (s *InfluxSink) RecordSession(rec sessionlog.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement(string(rec.Kind)+"_session").
		AddTag("aircraft_id", rec.AircraftID).
		AddTag("manufacturer", rec.Manufacturer).
		AddField("hours", round3(rec.Hours))
	switch rec.Kind {
	case sessionlog.KindFlight:
		p = p.AddField("miles", round3(rec.Miles)).
			AddField("faults", round3(rec.Faults)).
			AddField("passenger_miles", round3(rec.PassengerMiles))
	case sessionlog.KindCharge:
		p = p.AddTag("station_id", strconv.Itoa(rec.StationID)).
			AddField("wait_hours", round3(rec.WaitHours)).
			AddField("charged", rec.Charged)
	}
	p = p.SetTime(rec.Start)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordChargeEvent writes a scheduler lifecycle event.
func (s *InfluxSink) RecordChargeEvent(ev events.ChargeEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("charge_event").
		AddTag("kind", string(ev.Kind)).
		AddTag("aircraft_id", ev.AircraftID).
		AddField("ticket", int64(ev.Ticket)).
		AddField("station_id", ev.StationID).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFleetSize writes the number of aircraft built for a manufacturer.
func (s *InfluxSink) RecordFleetSize(manufacturer string, size int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_size").
		AddTag("manufacturer", manufacturer).
		AddField("aircraft", size).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close flushes and closes the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
