// Package clockdisplay — цикл часов: синхронизация NTP, обход городов на дисплеях, проба сети.
// Используется из cmd/tc-clock и из Beat (libbeat).
package clockdisplay

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/shiwa/tc-clock/internal/civil"
	"github.com/shiwa/tc-clock/internal/clockadj"
	"github.com/shiwa/tc-clock/internal/display"
	"github.com/shiwa/tc-clock/internal/logger"
	"github.com/shiwa/tc-clock/internal/ntp"
	"github.com/shiwa/tc-clock/internal/probe"
	"github.com/shiwa/tc-clock/internal/sinks"
	"github.com/shiwa/tc-clock/internal/tz"
	"github.com/shiwa/tc-clock/pkg/config"
)

// Option настраивает Runner.
type Option func(*options)

type options struct {
	transport ntp.Transport
	dialer    probe.Dialer
	seg       display.Segment
	text      display.Text
	injected  bool
	out       io.Writer
	plain     bool
	mirrors   []display.Mirror
	reporters []Reporter
	now       func() time.Time
	localIP   func() string
	adjust    func(ref civil.Epoch, local time.Time, limit time.Duration) (clockadj.Action, time.Duration, error)
}

// WithReporter добавляет получателя итогов цикла.
func WithReporter(r Reporter) Option {
	return func(o *options) { o.reporters = append(o.reporters, r) }
}

// WithMirror добавляет зеркало кадров (статус, websocket).
func WithMirror(m display.Mirror) Option {
	return func(o *options) { o.mirrors = append(o.mirrors, m) }
}

// WithSinks подставляет дисплеи вместо открытия по sink.type. Любой может быть nil.
func WithSinks(seg display.Segment, text display.Text) Option {
	return func(o *options) {
		o.seg, o.text, o.injected = seg, text, true
	}
}

// WithConsole задаёт вывод консольного дисплея; plain — без очистки экрана.
func WithConsole(out io.Writer, plain bool) Option {
	return func(o *options) { o.out, o.plain = out, plain }
}

// WithTransport подменяет датаграммный транспорт NTP.
func WithTransport(t ntp.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithDialer подменяет потоковый транспорт пробы.
func WithDialer(d probe.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// Runner — один экземпляр цикла часов. Не потокобезопасен: всё выполняется в горутине Run.
type Runner struct {
	cfg      *config.Config
	zones    []tz.Zone
	election *ntp.Election
	prober   *probe.Prober
	cycle    *display.Cycle
	sinks    *sinks.Set
	o        options
}

// New проверяет конфиг, открывает дисплеи и готовит клиентов NTP.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	zones, err := cfg.ResolveZones()
	if err != nil {
		return nil, err
	}

	o := options{
		transport: ntp.UDPTransport{},
		dialer:    probe.TCPDialer{Timeout: cfg.ProbeTimeout()},
		out:       os.Stdout,
		now:       time.Now,
		localIP:   localIPv4,
		adjust:    clockadj.Correct,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Runner{cfg: cfg, zones: zones, o: o}
	cols := cfg.Sink.LCD.Cols
	if !o.injected {
		set, err := sinks.Open(cfg.Sink, o.out, o.plain)
		if err != nil {
			return nil, errors.Wrap(err, "open sinks")
		}
		r.sinks = set
		o.seg, o.text, cols = set.Segment, set.Text, set.Cols
	}

	clients := make([]*ntp.Client, 0, len(cfg.NTP.Servers))
	for _, s := range cfg.NTP.Servers {
		clients = append(clients, ntp.NewClient(o.transport, s, cfg.NTP.Port, cfg.NTPTimeout()))
	}
	r.election = ntp.NewElection(clients...)
	r.prober = probe.NewProber(o.dialer, cfg.ProbeTimeout())
	r.cycle = display.NewCycle(o.seg, o.text, cfg.Dwell(), cols)
	for _, m := range o.mirrors {
		r.cycle.AddMirror(m)
	}
	return r, nil
}

// Zones возвращает разрешённый список городов.
func (r *Runner) Zones() []tz.Zone {
	return r.zones
}

// Close закрывает дисплеи, открытые New.
func (r *Runner) Close() error {
	if r.sinks == nil {
		return nil
	}
	return r.sinks.Close()
}

// Run крутит циклы с паузой cycle.period до отмены ctx; возвращает ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	logger.Info("clockdisplay: servers=%v zones=%d dwell=%v period=%v probe=%v adjust_clock=%v",
		r.cfg.NTP.Servers, len(r.zones), r.cfg.Dwell(), r.cfg.Period(), !r.cfg.Probe.Disable, r.cfg.Clock.AdjustClock)
	for {
		if _, err := r.Step(ctx); err != nil {
			return err
		}
		if err := display.Wait(ctx, r.cfg.Period()); err != nil {
			return err
		}
	}
}

// Step выполняет один внешний цикл: один NTP отсчёт, все города, проба, страница сети.
// Ошибка — только отмена ctx; Report тогда частичный и получателям не отправляется.
func (r *Runner) Step(ctx context.Context) (Report, error) {
	started := r.o.now()
	rep := Report{
		CycleID:         uuid.NewString(),
		Started:         started,
		CorrectionHours: r.cfg.Cycle.CorrectionHours,
	}
	log := logger.With().Str("cycle", rep.CycleID).Logger()

	utc := civil.Unsynced
	if client := r.election.Active(); client != nil {
		rep.Server = client.Server()
		utc = client.FetchUTCEpoch()
		if !utc.IsSynced() {
			logger.Warn("%s: no time, retry next cycle", client.Name())
			r.election.Failed()
		}
	}
	rep.Synced = utc.IsSynced()
	rep.UTC = int64(utc)

	if rep.Synced && r.cfg.Clock.AdjustClock {
		action, offset, err := r.o.adjust(utc, r.o.now(), r.cfg.StepLimit())
		if err != nil {
			logger.Error("clockadj %s: %v", action, err)
		}
		if action != clockadj.None {
			rep.ClockAction = action.String()
			rep.ClockOffsetMs = offset.Milliseconds()
		}
	}

	shown := utc
	if rep.Synced && r.cfg.Cycle.CorrectionHours != 0 {
		shown = utc.AddHours(r.cfg.Cycle.CorrectionHours)
	}
	log.Debug().Int64("utc", rep.UTC).Int64("shown", int64(shown)).Str("server", rep.Server).Msg("sync")

	frames, err := r.cycle.Run(ctx, shown, r.zones)
	rep.Zones = zoneReports(frames)
	if err != nil {
		return rep, err
	}

	if !r.cfg.Probe.Disable {
		res := r.prober.Probe(ctx, r.cfg.Probe.Host, r.cfg.Probe.Port)
		rep.Probe = probeReport(res)
		r.cycle.SetStatus(res.Status())
		if !res.OK() {
			logger.Debug("probe %s:%d: %v", res.Host, res.Port, res.Err)
		}
	}

	if r.cfg.Cycle.ShowNetworkInfo {
		if err := r.cycle.ShowNetworkInfo(ctx, r.o.localIP(), r.cycle.Status()); err != nil {
			return rep, err
		}
	}

	rep.DurationMs = r.o.now().Sub(started).Milliseconds()
	for _, rp := range r.o.reporters {
		rp.Report(rep)
	}
	return rep, nil
}

func zoneReports(frames []display.Frame) []ZoneReport {
	out := make([]ZoneReport, 0, len(frames))
	for _, f := range frames {
		out = append(out, ZoneReport{
			Name: f.Zone,
			Time: f.Clock(),
			Date: f.Date,
			Abbr: f.Abbr,
			DST:  f.DSTActive,
		})
	}
	return out
}

func probeReport(res probe.Result) *ProbeReport {
	p := &ProbeReport{
		Host:      res.Host,
		Port:      res.Port,
		OK:        res.OK(),
		LatencyMs: res.Latency.Milliseconds(),
		Status:    res.Status(),
	}
	if res.Err != nil {
		p.Error = res.Err.Error()
	}
	return p
}

// RunDaemon создаёт Runner и крутит его до отмены ctx.
func RunDaemon(ctx context.Context, cfg *config.Config, opts ...Option) error {
	r, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Run(ctx)
}

// RunOnce выполняет один цикл и закрывает дисплеи.
func RunOnce(ctx context.Context, cfg *config.Config, opts ...Option) (Report, error) {
	r, err := New(cfg, opts...)
	if err != nil {
		return Report{}, err
	}
	defer r.Close()
	return r.Step(ctx)
}
