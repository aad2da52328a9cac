// Package beater реализует интерфейс Beater для Clockbeat (libbeat v7).
package beater

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/beats/v7/libbeat/beat"
	"github.com/elastic/beats/v7/libbeat/common"
	"github.com/elastic/beats/v7/libbeat/logp"
	"gopkg.in/yaml.v3"

	"github.com/shiwa/tc-clock/internal/logger"
	"github.com/shiwa/tc-clock/pkg/clockdisplay"
	"github.com/shiwa/tc-clock/pkg/config"
)

// Clockbeat реализует beat.Beater.
type Clockbeat struct {
	done   chan struct{}
	config *config.Config
	client beat.Client
}

// New создаёт Beater из секции tc_clock конфигурации Beat.
func New(b *beat.Beat, cfg *common.Config) (beat.Beater, error) {
	c, err := unpack(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфига tc_clock: %w", err)
	}
	return &Clockbeat{
		done:   make(chan struct{}),
		config: c,
	}, nil
}

// unpack переносит секцию tc_clock в pkg/config через YAML: умолчания и проверки те же, что у tc-clock.
func unpack(cfg *common.Config) (*config.Config, error) {
	if !cfg.HasField("tc_clock") {
		return config.Default(), nil
	}
	sub, err := cfg.Child("tc_clock", -1)
	if err != nil {
		return nil, fmt.Errorf("конфиг tc_clock: %w", err)
	}
	raw := map[string]interface{}{}
	if err := sub.Unpack(&raw); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфига tc_clock: %w", err)
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return config.Parse(data, config.FormatYAML)
}

// Run крутит цикл часов до Stop() и публикует событие на каждый цикл.
func (bt *Clockbeat) Run(b *beat.Beat) error {
	logp.Info("clockbeat запущен (tc-clock)")
	client, err := b.Publisher.Connect()
	if err != nil {
		return err
	}
	bt.client = client
	logger.Quiet = true

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-bt.done
		cancel()
	}()

	err = clockdisplay.RunDaemon(ctx, bt.config,
		clockdisplay.WithReporter(clockdisplay.ReporterFunc(bt.publish)))
	if err != nil && !errors.Is(err, context.Canceled) {
		logp.Warn("tc-clock завершён: %v", err)
	}
	return nil
}

func (bt *Clockbeat) publish(r clockdisplay.Report) {
	bt.client.Publish(Event(r))
}

// Event переводит итог цикла в событие Beat.
func Event(r clockdisplay.Report) beat.Event {
	fields := common.MapStr{
		"type":     "clock_cycle",
		"cycle_id": r.CycleID,
		"ntp": common.MapStr{
			"server": r.Server,
			"synced": r.Synced,
			"epoch":  r.UTC,
		},
		"duration_ms": r.DurationMs,
	}
	if r.CorrectionHours != 0 {
		fields.Put("ntp.correction_hours", r.CorrectionHours)
	}
	if r.ClockAction != "" {
		fields.Put("clock.action", r.ClockAction)
		fields.Put("clock.offset_ms", r.ClockOffsetMs)
	}
	zones := make([]common.MapStr, 0, len(r.Zones))
	for _, z := range r.Zones {
		zones = append(zones, common.MapStr{
			"name": z.Name,
			"time": z.Time,
			"date": z.Date,
			"abbr": z.Abbr,
			"dst":  z.DST,
		})
	}
	fields["zones"] = zones
	if r.Probe != nil {
		fields["probe"] = common.MapStr{
			"host":       r.Probe.Host,
			"port":       r.Probe.Port,
			"ok":         r.Probe.OK,
			"latency_ms": r.Probe.LatencyMs,
			"status":     r.Probe.Status,
		}
	}
	ts := r.Started
	if ts.IsZero() {
		ts = time.Now()
	}
	return beat.Event{Timestamp: ts, Fields: fields}
}

// Stop останавливает Run.
func (bt *Clockbeat) Stop() {
	if bt.client != nil {
		bt.client.Close()
	}
	close(bt.done)
}
