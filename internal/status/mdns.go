package status

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/mdns"

	"github.com/shiwa/tc-clock/internal/logger"
)

// ServiceType — тип mDNS сервиса статуса.
const ServiceType = "_tcclock._tcp"

// Advertise объявляет статус в локальной сети. Возвращает функцию остановки.
func Advertise(name string, port int) (func(), error) {
	host, _ := os.Hostname()
	service, err := mdns.NewMDNSService(name, ServiceType, "", "", port, nil,
		[]string{"path=/api/status", "ws=/ws", "host=" + host})
	if err != nil {
		return nil, errors.Wrap(err, "mdns service")
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, errors.Wrap(err, "mdns server")
	}
	logger.Info("status: mdns %s %s port %d", name, ServiceType, port)
	return func() { _ = server.Shutdown() }, nil
}
