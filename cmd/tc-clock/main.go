// tc-clock — часы на несколько городов: время по NTP, летнее время Европы и Америки,
// 4-разрядный 7-сегментный дисплей (TM1637) и символьный LCD 20x4.
//
// Использование:
//
//	tc-clock --config tc-clock.yml          — цикл часов (по умолчанию, команда run)
//	tc-clock once --sink console            — один цикл и выход
//	tc-clock ports                          — список последовательных портов для serial LCD
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"go.bug.st/serial"

	"github.com/shiwa/tc-clock/internal/logger"
	"github.com/shiwa/tc-clock/internal/status"
	"github.com/shiwa/tc-clock/pkg/clockdisplay"
	"github.com/shiwa/tc-clock/pkg/config"
)

const defaultConfigPath = "tc-clock.yml"

var (
	app        = kingpin.New("tc-clock", "multi-city NTP clock for 7-segment and character LCD displays")
	configPath = app.Flag("config", "путь к YAML/TOML конфигу").Short('c').Envar("TC_CLOCK_CONFIG").String()
	verbose    = app.Flag("verbose", "отладочный вывод").Short('v').Envar("VERBOSE").Bool()
	quiet      = app.Flag("quiet", "только предупреждения и ошибки").Short('q').Envar("QUIET").Bool()
	logfile    = app.Flag("logfile", "файл лога (stdout, stderr или путь)").Envar("LOGFILE").String()
	sinkType   = app.Flag("sink", "переопределить sink.type").Envar("TC_CLOCK_SINK").Enum("hardware", "serial", "console")
	plain      = app.Flag("plain", "консольный дисплей без очистки экрана").Bool()

	runCmd   = app.Command("run", "цикл часов до SIGINT/SIGTERM (по умолчанию)").Default()
	onceCmd  = app.Command("once", "один цикл: синхронизация, все города, проба")
	portsCmd = app.Command("ports", "список последовательных портов")
)

func main() {
	// .env необязателен
	_ = godotenv.Load()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	if cmd == portsCmd.FullCommand() {
		listPorts()
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tc-clock: config: %v\n", err)
		os.Exit(1)
	}
	if *sinkType != "" {
		cfg.Sink.Type = *sinkType
	}

	// консольный дисплей занимает stdout
	lf := *logfile
	if lf == "" && cfg.Sink.Type == "console" {
		lf = "stderr"
	}
	if err := logger.Init(*verbose, lf); err != nil {
		fmt.Fprintf(os.Stderr, "tc-clock: logger: %v\n", err)
		os.Exit(1)
	}
	logger.Quiet = *quiet

	if err := cfg.Validate(); err != nil {
		logger.Error("config validation failed: %v", err)
		os.Exit(1)
	}

	var code int
	switch cmd {
	case onceCmd.FullCommand():
		code = runOnce(cfg)
	case runCmd.FullCommand():
		if err := runDaemonWithShutdown(cfg); err != nil {
			logger.Error("%v", err)
			code = 1
		}
	}
	os.Exit(code)
}

// loadConfig читает конфиг; без явного пути и без tc-clock.yml — умолчания.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return config.Default(), nil
	}
	return config.Load(path)
}

// runOnce выполняет один цикл; код выхода 2 — нет синхронизации.
func runOnce(cfg *config.Config) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rep, err := clockdisplay.RunOnce(ctx, cfg, clockdisplay.WithConsole(os.Stdout, true))
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	zones := make([]string, 0, len(rep.Zones))
	for _, z := range rep.Zones {
		zones = append(zones, fmt.Sprintf("%s %s %s", z.Name, z.Time, z.Abbr))
	}
	probe := "-"
	if rep.Probe != nil {
		probe = rep.Probe.Status
	}
	logger.Info("once: server=%s synced=%v zones=[%s] probe=%s",
		rep.Server, rep.Synced, strings.Join(zones, ", "), probe)
	if !rep.Synced {
		return 2
	}
	return 0
}

// runDaemonWithShutdown запускает цикл часов; по SIGINT/SIGTERM контекст отменяется.
func runDaemonWithShutdown(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("получен сигнал %v, завершение...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return runDaemon(ctx, cfg, clockdisplay.WithConsole(os.Stdout, *plain))
}

// runDaemon крутит цикл до отмены ctx. Статус и mDNS останавливаются на любом пути выхода;
// отмена ctx — штатное завершение.
func runDaemon(ctx context.Context, cfg *config.Config, opts ...clockdisplay.Option) error {
	if cfg.Status.Listen != "" {
		svc, err := startStatus(cfg)
		if err != nil {
			return err
		}
		defer svc.shutdown()
		opts = append(opts, clockdisplay.WithMirror(svc.store), clockdisplay.WithReporter(svc.store))
	}

	if err := clockdisplay.RunDaemon(ctx, cfg, opts...); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type statusServices struct {
	store  *status.Store
	server *status.Server
	mdns   func()
}

func (s *statusServices) shutdown() {
	if s.mdns != nil {
		s.mdns()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		logger.Debug("status shutdown: %v", err)
	}
}

func startStatus(cfg *config.Config) (*statusServices, error) {
	store := status.NewStore(cfg.Status.Name)
	server := status.NewServer(cfg.Status.Listen, store)
	if err := server.Start(); err != nil {
		return nil, err
	}
	s := &statusServices{store: store, server: server}
	if cfg.Status.MDNS {
		stop, err := status.Advertise(cfg.Status.Name, server.Port())
		if err != nil {
			logger.Warn("%v", err)
		} else {
			s.mdns = stop
		}
	}
	return s, nil
}

func listPorts() {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tc-clock: ports: %v\n", err)
		os.Exit(1)
	}
	if len(ports) == 0 {
		fmt.Println("последовательные порты не найдены")
		return
	}
	for _, p := range ports {
		fmt.Println(p)
	}
}
